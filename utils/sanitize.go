package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-supplied post and comment text
// before it reaches the store.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
