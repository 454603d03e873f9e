package session

import "booknest/models"

// AuthStatus is the outcome of the startup authentication check.
type AuthStatus string

const (
	AuthLoading         AuthStatus = "LOADING"
	AuthAuthenticated   AuthStatus = "AUTHENTICATED"
	AuthUnauthenticated AuthStatus = "UNAUTHENTICATED"
)

// State is one immutable snapshot of everything a session shows.
// Transitions build a new State; slices are replaced, never edited in place.
type State struct {
	AuthStatus                AuthStatus `json:"authStatus"`
	Name                      string     `json:"name"`
	Email                     string     `json:"email"`
	PhoneNumber               string     `json:"phoneNumber"`
	Otp                       string     `json:"otp"`
	IsOtpSent                 bool       `json:"isOtpSent"`
	IsVerificationSuccess     bool       `json:"isVerificationSuccess"`
	ResendTimer               int        `json:"resendTimer"` // seconds, never negative
	ShowEditPhoneNumberDialog bool       `json:"showEditPhoneNumberDialog"`

	Hotels        []models.Hotel `json:"hotels"`
	Rooms         []models.Room  `json:"rooms"`
	SelectedHotel *models.Hotel  `json:"selectedHotel"` // copy taken at selection time
	SelectedRoom  *models.Room   `json:"selectedRoom"`

	IsLoading    bool    `json:"isLoading"`
	ErrorMessage *string `json:"errorMessage"`

	// Empty string means "unset" for the search fields.
	Destination   string `json:"destination"`
	CheckInDate   string `json:"checkInDate"`
	CheckOutDate  string `json:"checkOutDate"`
	NumberOfRooms string `json:"numberOfRooms"`

	BestPlaces           []models.Place       `json:"bestPlaces"`
	SelectedPlaceDetails *models.PlaceDetails `json:"selectedPlaceDetails"`
}

// NewState returns the default snapshot a session starts from and returns to on logout.
func NewState() State {
	return State{
		AuthStatus: AuthLoading,
		Hotels:     []models.Hotel{},
		Rooms:      []models.Room{},
		BestPlaces: []models.Place{},
	}
}

// Error returns the current error message, or "" when there is none.
func (s State) Error() string {
	if s.ErrorMessage == nil {
		return ""
	}
	return *s.ErrorMessage
}

// clone copies the top-level slices and optional values so a snapshot handed
// to a caller never aliases controller-owned memory.
func (s State) clone() State {
	out := s
	out.Hotels = append([]models.Hotel{}, s.Hotels...)
	out.Rooms = append([]models.Room{}, s.Rooms...)
	out.BestPlaces = append([]models.Place{}, s.BestPlaces...)
	if s.SelectedHotel != nil {
		h := *s.SelectedHotel
		out.SelectedHotel = &h
	}
	if s.SelectedRoom != nil {
		r := *s.SelectedRoom
		out.SelectedRoom = &r
	}
	if s.SelectedPlaceDetails != nil {
		d := *s.SelectedPlaceDetails
		out.SelectedPlaceDetails = &d
	}
	if s.ErrorMessage != nil {
		m := *s.ErrorMessage
		out.ErrorMessage = &m
	}
	return out
}

func message(msg string) *string {
	return &msg
}
