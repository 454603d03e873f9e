package session

import (
	"testing"

	"booknest/models"

	"github.com/stretchr/testify/assert"
)

func populatedState() State {
	s := NewState()
	s.AuthStatus = AuthUnauthenticated
	s.Name = "Asha"
	s.Email = "asha@example.com"
	s.PhoneNumber = "9876543210"
	s.Otp = "111111"
	s.IsOtpSent = true
	s.ResendTimer = 42
	s.Hotels = []models.Hotel{{ID: "h1", Name: "Fairfield", Location: "Agra"}}
	s.Rooms = []models.Room{{ID: "r1", HotelID: "h1", Type: "Deluxe", Price: 4999}}
	s.SelectedHotel = &models.Hotel{ID: "h1", Name: "Fairfield"}
	s.SelectedRoom = &models.Room{ID: "r1", HotelID: "h1"}
	s.ErrorMessage = message("boom")
	s.Destination = "Agra"
	s.CheckInDate = "14 Aug 2025"
	s.CheckOutDate = "16 Aug 2025"
	s.NumberOfRooms = "2"
	s.BestPlaces = []models.Place{{ID: "p1", Name: "Taj Mahal"}}
	return s
}

func TestReduceFieldChanges(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		want   func(*State)
	}{
		{"name", NameChanged{Name: "Ravi"}, func(s *State) { s.Name = "Ravi" }},
		{"email", EmailChanged{Email: "ravi@example.com"}, func(s *State) { s.Email = "ravi@example.com" }},
		{"phone", PhoneNumberChanged{Number: "9000000000"}, func(s *State) { s.PhoneNumber = "9000000000" }},
		{"otp", OtpChanged{Code: "123"}, func(s *State) { s.Otp = "123" }},
		{"destination", DestinationChanged{Destination: "Jaipur"}, func(s *State) { s.Destination = "Jaipur" }},
		{"check-in", CheckInDateChanged{Date: "1 Sep 2025"}, func(s *State) { s.CheckInDate = "1 Sep 2025" }},
		{"check-out", CheckOutDateChanged{Date: "3 Sep 2025"}, func(s *State) { s.CheckOutDate = "3 Sep 2025" }},
		{"rooms", NumberOfRoomsChanged{Count: "5"}, func(s *State) { s.NumberOfRooms = "5" }},
		{"empty value", NameChanged{Name: ""}, func(s *State) { s.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := populatedState()
			want := populatedState()
			tt.want(&want)

			got := reduce(base, tt.intent)
			assert.Equal(t, want, got)
			assert.Equal(t, populatedState(), base, "input snapshot must not change")
		})
	}
}

func TestReduceLastValueWins(t *testing.T) {
	s := NewState()
	for _, v := range []string{"A", "Ag", "Agr", "Agra"} {
		s = reduce(s, DestinationChanged{Destination: v})
	}
	want := NewState()
	want.Destination = "Agra"
	assert.Equal(t, want, s)
}

func TestReduceFlags(t *testing.T) {
	s := populatedState()

	s = reduce(s, ClearErrorMessage{})
	assert.Nil(t, s.ErrorMessage)

	s = reduce(s, ResetOtpSentFlag{})
	assert.False(t, s.IsOtpSent)

	s = reduce(s, ShowEditPhoneNumberDialog{})
	assert.True(t, s.ShowEditPhoneNumberDialog)
	s = reduce(s, DismissEditPhoneNumberDialog{})
	assert.False(t, s.ShowEditPhoneNumberDialog)
}

func TestReduceDecrementResendTimerStopsAtZero(t *testing.T) {
	s := NewState()
	s.ResendTimer = 60
	for i := 0; i < 60; i++ {
		s = reduce(s, DecrementResendTimer{})
		assert.GreaterOrEqual(t, s.ResendTimer, 0)
	}
	assert.Equal(t, 0, s.ResendTimer)

	s = reduce(s, DecrementResendTimer{})
	assert.Equal(t, 0, s.ResendTimer)
}

func TestReduceRoomSelectedToggles(t *testing.T) {
	deluxe := models.Room{ID: "r1", HotelID: "h1", Type: "Deluxe"}
	suite := models.Room{ID: "r2", HotelID: "h1", Type: "Suite"}

	s := reduce(NewState(), RoomSelected{Room: deluxe})
	if assert.NotNil(t, s.SelectedRoom) {
		assert.Equal(t, "r1", s.SelectedRoom.ID)
	}

	s = reduce(s, RoomSelected{Room: suite})
	if assert.NotNil(t, s.SelectedRoom) {
		assert.Equal(t, "r2", s.SelectedRoom.ID)
	}

	s = reduce(s, RoomSelected{Room: suite})
	assert.Nil(t, s.SelectedRoom)
}

func TestReduceClearHotelSelection(t *testing.T) {
	for _, base := range []State{NewState(), populatedState()} {
		s := reduce(base, ClearHotelSelection{})
		assert.Nil(t, s.SelectedHotel)
		assert.Nil(t, s.SelectedRoom)
		assert.Empty(t, s.Rooms)
		assert.NotNil(t, s.Rooms)
		assert.Equal(t, base.Hotels, s.Hotels)
	}
}

func TestReduceLogoutResetsEverything(t *testing.T) {
	assert.Equal(t, NewState(), reduce(populatedState(), LogoutClicked{}))
	assert.Equal(t, NewState(), reduce(NewState(), LogoutClicked{}))
}

func TestReduceLeavesAsyncIntentsAlone(t *testing.T) {
	base := populatedState()
	for _, in := range []Intent{SendOtpClicked{}, FetchHotels{}, SearchClicked{}, FetchBestPlaces{}, FetchPlaceDetailsByID{ID: "p1"}} {
		assert.Equal(t, base, reduce(base, in), "%T", in)
	}
}

func TestStateCloneDoesNotAlias(t *testing.T) {
	s := populatedState()
	c := s.clone()
	c.Hotels[0].Name = "changed"
	c.SelectedHotel.Name = "changed"
	*c.ErrorMessage = "changed"

	assert.Equal(t, "Fairfield", s.Hotels[0].Name)
	assert.Equal(t, "Fairfield", s.SelectedHotel.Name)
	assert.Equal(t, "boom", s.Error())
}
