package ports

import "context"

// Profile holds the account fields set during onboarding.
type Profile struct {
	Username    string
	DisplayName string
	// LangTag is the preferred display language ("en" or "es").
	LangTag string
}

// AccountPort defines the interface for updating account profiles.
type AccountPort interface {
	// UpdateProfile applies profile fields to the given user.
	// Returns an error if the profile update fails.
	UpdateProfile(ctx context.Context, userID string, profile Profile) error
}
