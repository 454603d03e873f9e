package session

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// wireIntents maps the "type" discriminator of a wire intent to its Go type.
var wireIntents = map[string]Intent{
	"NameChanged":                  NameChanged{},
	"EmailChanged":                 EmailChanged{},
	"PhoneNumberChanged":           PhoneNumberChanged{},
	"OtpChanged":                   OtpChanged{},
	"SendOtpClicked":               SendOtpClicked{},
	"LogoutClicked":                LogoutClicked{},
	"VerifyOtpWithCredential":      VerifyOtpWithCredential{},
	"ClearErrorMessage":            ClearErrorMessage{},
	"ResetOtpSentFlag":             ResetOtpSentFlag{},
	"DecrementResendTimer":         DecrementResendTimer{},
	"ShowEditPhoneNumberDialog":    ShowEditPhoneNumberDialog{},
	"DismissEditPhoneNumberDialog": DismissEditPhoneNumberDialog{},
	"FetchHotels":                  FetchHotels{},
	"HotelSelected":                HotelSelected{},
	"RoomSelected":                 RoomSelected{},
	"ClearHotelSelection":          ClearHotelSelection{},
	"DestinationChanged":           DestinationChanged{},
	"CheckInDateChanged":           CheckInDateChanged{},
	"CheckOutDateChanged":          CheckOutDateChanged{},
	"NumberOfRoomsChanged":         NumberOfRoomsChanged{},
	"SearchClicked":                SearchClicked{},
	"FetchBestPlaces":              FetchBestPlaces{},
	"FetchPlaceDetailsById":        FetchPlaceDetailsByID{},
}

var wireNames = func() map[reflect.Type]string {
	m := make(map[reflect.Type]string, len(wireIntents))
	for name, in := range wireIntents {
		m[reflect.TypeOf(in)] = name
	}
	return m
}()

// DecodeIntent parses {"type": "<Name>", ...fields} into an Intent.
func DecodeIntent(data []byte) (Intent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	proto, ok := wireIntents[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, envelope.Type)
	}

	ptr := reflect.New(reflect.TypeOf(proto))
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("decode %s: %w", envelope.Type, err)
	}
	return ptr.Elem().Interface().(Intent), nil
}

// EncodeIntent is the inverse of DecodeIntent.
func EncodeIntent(in Intent) ([]byte, error) {
	name, ok := wireNames[reflect.TypeOf(in)]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(name)
	return json.Marshal(fields)
}

// IntentName returns the wire name of an intent.
func IntentName(in Intent) string {
	return wireNames[reflect.TypeOf(in)]
}
