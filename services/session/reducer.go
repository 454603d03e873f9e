package session

import "booknest/models"

// reduce applies the synchronous transition of an intent to a snapshot.
// Intents whose work is asynchronous are handled by the controller and
// leave the snapshot untouched here.
func reduce(s State, in Intent) State {
	switch in := in.(type) {
	case NameChanged:
		s.Name = in.Name
	case EmailChanged:
		s.Email = in.Email
	case PhoneNumberChanged:
		s.PhoneNumber = in.Number
	case OtpChanged:
		s.Otp = in.Code
	case DestinationChanged:
		s.Destination = in.Destination
	case CheckInDateChanged:
		s.CheckInDate = in.Date
	case CheckOutDateChanged:
		s.CheckOutDate = in.Date
	case NumberOfRoomsChanged:
		s.NumberOfRooms = in.Count

	case ClearErrorMessage:
		s.ErrorMessage = nil
	case ResetOtpSentFlag:
		s.IsOtpSent = false
	case DecrementResendTimer:
		if s.ResendTimer > 0 {
			s.ResendTimer--
		}
	case ShowEditPhoneNumberDialog:
		s.ShowEditPhoneNumberDialog = true
	case DismissEditPhoneNumberDialog:
		s.ShowEditPhoneNumberDialog = false

	case RoomSelected:
		if s.SelectedRoom != nil && s.SelectedRoom.ID == in.Room.ID {
			s.SelectedRoom = nil
		} else {
			room := in.Room
			s.SelectedRoom = &room
		}
	case ClearHotelSelection:
		s.SelectedHotel = nil
		s.Rooms = []models.Room{}
		s.SelectedRoom = nil

	case LogoutClicked:
		return NewState()
	}
	return s
}
