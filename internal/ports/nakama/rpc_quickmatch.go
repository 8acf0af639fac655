package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"constellation/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickSessionResponse is the payload returned to clients looking for a match to play in.
type QuickSessionResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcQuickSession:  rpcQuickSession,
		RpcListCatalog:   rpcListCatalog,
		RpcRenderFrame:   rpcRenderFrame,
		RpcVerifyReceipt: rpcVerifyReceipt,
		RpcListProgress:  rpcListProgress,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("failed to register rpc %s: %w", id, err)
		}
	}
	return nil
}

func rpcQuickSession(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	cfg := config.GetGameConfig().WithEnv(envFromContext(ctx))

	// Any of our matches with at least one free puzzle slot.
	query := fmt.Sprintf("+label.%s:%s +label.%s:>=1", MatchLabelKey_Game, matchLabelGame, MatchLabelKey_OpenSlots)

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := cfg.MaxPlayersPerMatch - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("RpcQuickSession [User:%s]: Failed to list matches: %v", userId, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	if len(matches) > 0 {
		logger.Debug("RpcQuickSession [User:%s]: Found existing match %s", userId, matches[0].MatchId)
		resp := QuickSessionResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Sessions are created per player in MatchJoin.
	matchID, err := nk.MatchCreate(ctx, MatchNameConstellation, map[string]interface{}{})
	if err != nil {
		logger.Error("RpcQuickSession [User:%s]: Failed to create match: %v", userId, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	logger.Info("RpcQuickSession [User:%s]: Created new match %s", userId, matchID)
	resp := QuickSessionResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
