package ports

import "context"

// StardustGrant is a single stardust credit for a user.
type StardustGrant struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for the stardust wallet.
type EconomyPort interface {
	// GetBalance retrieves the current stardust balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// Grant credits stardust. Grants with a zero amount are skipped.
	Grant(ctx context.Context, grants []StardustGrant) error
}
