package identity

import "errors"

// Errors returned to the session controller. Their text is shown to the
// user as is.
var (
	ErrInvalidPhone    = errors.New("The format of the phone number provided is incorrect.")
	ErrInvalidCode     = errors.New("Invalid OTP.")
	ErrCodeExpired     = errors.New("The verification code has expired. Please resend the code.")
	ErrTooManyAttempts = errors.New("Too many attempts. Please request a new code.")
	ErrRateLimited     = errors.New("We have blocked all requests from this device due to unusual activity. Try again later.")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrUnavailable     = errors.New("Verification is unavailable right now. Please try again later.")
)

var userErrors = []error{
	ErrInvalidPhone, ErrInvalidCode, ErrCodeExpired, ErrTooManyAttempts, ErrRateLimited, ErrInvalidToken,
}

// isUserError reports whether err is safe to show to the user.
func isUserError(err error) bool {
	for _, e := range userErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
