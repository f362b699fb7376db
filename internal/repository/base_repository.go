package repository

import (
	"errors"

	"gorm.io/gorm"
)

// notFoundAsNil turns a missing row into (nil, nil) so optional data can be
// handled by callers without inspecting gorm errors.
func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
