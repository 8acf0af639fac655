package ports

import "context"

// ProgressPort records which constellations a user has solved.
type ProgressPort interface {
	// MarkSolved records a solved constellation.
	// Returns firstTime=false when the constellation was already recorded.
	MarkSolved(ctx context.Context, userID, constellationID string) (firstTime bool, err error)

	// Solved lists solved constellation ids in the order they were first solved.
	Solved(ctx context.Context, userID string) ([]string, error)

	// Init creates an empty record for a new user. It is a no-op when a record exists.
	Init(ctx context.Context, userID string) error
}
