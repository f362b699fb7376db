package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrAlreadyCheckedIn     = errors.New("already checked in today")
	ErrCareerNotFound       = errors.New("career not found")
	ErrCareerExists         = errors.New("career already exists")
	ErrSkillNotFound        = errors.New("skill not found for career")
	ErrInvalidQuizLevel     = errors.New("level must be easy, medium or advanced")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrQuizAlreadySubmitted = errors.New("quiz already submitted")
	ErrAnswerCountMismatch  = errors.New("answer count does not match question count")
	ErrInvalidRoadmapDays   = errors.New("totalDays must be between 7 and 180")
	ErrRoadmapNotFound      = errors.New("roadmap not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrAIUnavailable        = errors.New("ai service unavailable")
	ErrJobSearchUnavailable = errors.New("job search unavailable")
)
