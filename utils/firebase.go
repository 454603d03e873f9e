package utils

import (
	"context"
	"fmt"

	"booknest/config"

	firebase "firebase.google.com/go/v4"
)

// FirebaseInit builds the Firebase app from the configured service account.
func FirebaseInit(ctx context.Context) (*firebase.App, error) {
	var cfg *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		cfg = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}
	app, err := firebase.NewApp(ctx, cfg, config.FirebaseClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}
	return app, nil
}
