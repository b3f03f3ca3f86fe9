package identity

import "errors"

// Classified sign-in failures. The login screen maps each to a fixed
// display string; anything else gets the generic fallback.
var (
	ErrUnknownAccount = errors.New("no account for this email")
	ErrWrongPassword  = errors.New("incorrect password")
	ErrMalformedEmail = errors.New("malformed email address")
)

// Display strings shown on the login screen.
const (
	msgUnknownAccount = "No user found with this email"
	msgWrongPassword  = "Incorrect password"
	msgMalformedEmail = "Invalid email format"
	msgUnexpected     = "Something went wrong. Try again."
)

// Message converts a sign-in error to its user-facing display string.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnknownAccount):
		return msgUnknownAccount
	case errors.Is(err, ErrWrongPassword):
		return msgWrongPassword
	case errors.Is(err, ErrMalformedEmail):
		return msgMalformedEmail
	default:
		return msgUnexpected
	}
}
