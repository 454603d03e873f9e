package session

import (
	"context"
	"time"
)

// Collection paths read through the DataGateway.
const (
	PathHotels = "hotels"
	PathPlaces = "places"
	PathRooms  = "rooms"
)

// RoomsPath is the path of the rooms stored under a hotel.
func RoomsPath(hotelID string) string {
	return PathRooms + "/" + hotelID
}

// Verification is the outcome of starting a phone verification. Either the
// provider verified the number on its own (AutoVerified is set) or it sent a
// code and returned the Handle needed to check it.
type Verification struct {
	AutoVerified *Credential
	Handle       string
}

// Account is the identity established by a successful sign-in.
type Account struct {
	UID         string `json:"uid"`
	PhoneNumber string `json:"phoneNumber"`
	Token       string `json:"token"`
}

// IdentityGateway is the SMS-OTP identity provider.
type IdentityGateway interface {
	StartVerification(ctx context.Context, fullPhoneNumber string, timeout time.Duration) (Verification, error)
	SignIn(ctx context.Context, cred Credential) (Account, error)
	CredentialFromHandle(handle, code string) Credential
	// ResumeSession accepts a token issued by an earlier SignIn.
	ResumeSession(ctx context.Context, token string) (Account, error)
}

// Record is one document returned by the DataGateway.
type Record interface {
	Decode(v any) error
}

// DataGateway reads the remote document database.
type DataGateway interface {
	GetCollection(ctx context.Context, path string) ([]Record, error)
	GetFiltered(ctx context.Context, path, field, equals string) ([]Record, error)
	// GetDocument returns nil, nil when the document does not exist.
	GetDocument(ctx context.Context, path, id string) (Record, error)
}
