package session

import "booknest/models"

// Intent is a request to change session state, raised by the user or a timer.
// The set is closed: only the types in this file implement it.
type Intent interface {
	isIntent()
}

// Credential proves possession of a one-time code for a verification handle.
type Credential struct {
	VerificationID string `json:"verificationId"`
	SMSCode        string `json:"smsCode"`
}

type (
	NameChanged struct {
		Name string `json:"name"`
	}
	EmailChanged struct {
		Email string `json:"email"`
	}
	PhoneNumberChanged struct {
		Number string `json:"number"`
	}
	OtpChanged struct {
		Code string `json:"code"`
	}
	SendOtpClicked          struct{}
	LogoutClicked           struct{}
	VerifyOtpWithCredential struct {
		Credential Credential `json:"credential"`
	}
	ClearErrorMessage            struct{}
	ResetOtpSentFlag             struct{}
	DecrementResendTimer         struct{}
	ShowEditPhoneNumberDialog    struct{}
	DismissEditPhoneNumberDialog struct{}

	FetchHotels   struct{}
	HotelSelected struct {
		Hotel models.Hotel `json:"hotel"`
	}
	RoomSelected struct {
		Room models.Room `json:"room"`
	}
	ClearHotelSelection struct{}

	DestinationChanged struct {
		Destination string `json:"destination"`
	}
	CheckInDateChanged struct {
		Date string `json:"date"`
	}
	CheckOutDateChanged struct {
		Date string `json:"date"`
	}
	NumberOfRoomsChanged struct {
		Count string `json:"count"`
	}
	SearchClicked         struct{}
	FetchBestPlaces       struct{}
	FetchPlaceDetailsByID struct {
		ID string `json:"id"`
	}
)

func (NameChanged) isIntent()                  {}
func (EmailChanged) isIntent()                 {}
func (PhoneNumberChanged) isIntent()           {}
func (OtpChanged) isIntent()                   {}
func (SendOtpClicked) isIntent()               {}
func (LogoutClicked) isIntent()                {}
func (VerifyOtpWithCredential) isIntent()      {}
func (ClearErrorMessage) isIntent()            {}
func (ResetOtpSentFlag) isIntent()             {}
func (DecrementResendTimer) isIntent()         {}
func (ShowEditPhoneNumberDialog) isIntent()    {}
func (DismissEditPhoneNumberDialog) isIntent() {}
func (FetchHotels) isIntent()                  {}
func (HotelSelected) isIntent()                {}
func (RoomSelected) isIntent()                 {}
func (ClearHotelSelection) isIntent()          {}
func (DestinationChanged) isIntent()           {}
func (CheckInDateChanged) isIntent()           {}
func (CheckOutDateChanged) isIntent()          {}
func (NumberOfRoomsChanged) isIntent()         {}
func (SearchClicked) isIntent()                {}
func (FetchBestPlaces) isIntent()              {}
func (FetchPlaceDetailsByID) isIntent()        {}
