package validation

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether the address looks like a deliverable email.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateLength reports whether text is between min and max runes inclusive.
func ValidateLength(text string, min, max int) bool {
	n := len([]rune(text))
	return n >= min && n <= max
}
