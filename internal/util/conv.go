package util

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
