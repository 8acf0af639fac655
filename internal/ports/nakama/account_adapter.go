package nakama

import (
	"context"

	"constellation/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements ports.AccountPort using Nakama's account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaAccountAdapter creates a new account adapter.
func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// UpdateProfile updates the account username, display name and language tag in Nakama.
// Returns an error if the Nakama update fails.
func (a *NakamaAccountAdapter) UpdateProfile(ctx context.Context, userID string, profile ports.Profile) error {
	return a.nk.AccountUpdateId(ctx, userID, profile.Username, nil, profile.DisplayName, "", "", profile.LangTag, "")
}

var _ ports.AccountPort = (*NakamaAccountAdapter)(nil)
