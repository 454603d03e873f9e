package session

import "errors"

var (
	ErrUnknownIntent   = errors.New("unknown intent type")
	ErrSessionNotFound = errors.New("session not found")
	ErrNothingSelected = errors.New("hotel and room must be selected before checkout")
)

// Messages surfaced through State.ErrorMessage.
const (
	MsgDestinationRequired = "Please select a destination."
	MsgPlaceNotFound       = "Place not found."
	MsgVerifyNotStarted    = "Verification process not started."
	MsgInvalidOtp          = "Invalid OTP."
)
