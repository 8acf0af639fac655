package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"constellation/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// walletCurrency is the wallet key stardust is stored under.
const walletCurrency = "stardust"

// NakamaEconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaEconomyAdapter creates a new economy adapter.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{
		nk: nk,
	}
}

// GetBalance retrieves the current stardust balance for a user.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if account.Wallet != "" {
		if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
			return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
		}
	}

	return wallet[walletCurrency], nil
}

// Grant applies stardust credits, recording each in the wallet ledger.
func (a *NakamaEconomyAdapter) Grant(ctx context.Context, grants []ports.StardustGrant) error {
	for _, grant := range grants {
		if grant.Amount == 0 {
			continue
		}

		changes := map[string]int64{
			walletCurrency: grant.Amount,
		}

		_, _, err := a.nk.WalletUpdate(ctx, grant.UserID, changes, grant.Metadata, true)
		if err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", grant.UserID, err)
		}
	}
	return nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
