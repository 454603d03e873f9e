package config

import "google.golang.org/api/option"

// FirebaseEnabled reports whether Firebase credentials are configured.
func FirebaseEnabled() bool {
	return AppConfig.FirebaseCredentialsFile != ""
}

// FirebaseClientOptions returns the options used to build the Firebase app
// and the Firestore client.
func FirebaseClientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithCredentialsFile(AppConfig.FirebaseCredentialsFile)}
}
