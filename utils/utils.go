// Package utils provides utility functions for the application.
package utils

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// EmptyIfNil dereferences a string pointer, returning "" for nil
func EmptyIfNil(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
