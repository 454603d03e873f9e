package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Accounts resolves the account uid owning a verified phone number,
// creating the account on first sign-in.
type Accounts interface {
	UIDForPhone(ctx context.Context, phone string) (string, error)
}

// firebaseUsers is the subset of *auth.Client used by FirebaseAccounts.
type firebaseUsers interface {
	GetUserByPhoneNumber(ctx context.Context, phone string) (*auth.UserRecord, error)
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
}

// FirebaseAccounts keeps accounts in Firebase Authentication.
type FirebaseAccounts struct {
	users firebaseUsers
}

func NewFirebaseAccounts(client *auth.Client) *FirebaseAccounts {
	return &FirebaseAccounts{users: client}
}

func (a *FirebaseAccounts) UIDForPhone(ctx context.Context, phone string) (string, error) {
	u, err := a.users.GetUserByPhoneNumber(ctx, phone)
	if err == nil {
		return u.UID, nil
	}
	if !auth.IsUserNotFound(err) {
		return "", fmt.Errorf("failed to look up firebase user: %w", err)
	}

	u, err = a.users.CreateUser(ctx, (&auth.UserToCreate{}).PhoneNumber(phone))
	if err != nil {
		return "", fmt.Errorf("failed to create firebase user: %w", err)
	}
	return u.UID, nil
}

// StaticAccounts derives a stable uid from the phone number. It stands in
// for Firebase when no credentials are configured.
type StaticAccounts struct{}

var phoneNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("booknest:phone"))

func (StaticAccounts) UIDForPhone(_ context.Context, phone string) (string, error) {
	return uuid.NewSHA1(phoneNamespace, []byte(phone)).String(), nil
}
