package nakama

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"constellation/internal/app"
	"constellation/internal/catalog"
	"constellation/internal/config"
	"constellation/internal/domain"
	"constellation/internal/i18n"
	"constellation/internal/render"

	"github.com/heroiclabs/nakama-common/runtime"
)

// gRPC status codes used for RPC errors.
const (
	codeInvalidArgument = 3
	codeNotFound        = 5
	codeUnavailable     = 14
	codeInternal        = 13
)

const (
	minFramePixels = 64
	maxFramePixels = 2048
)

type catalogEntry struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Stars []domain.Star `json:"stars"`
	Edges int           `json:"edges"`
}

type catalogResponse struct {
	Language       string         `json:"language"`
	Constellations []catalogEntry `json:"constellations"`
}

// rpcListCatalog lists the built-in constellations.
// Payload: (Optional) {"lang": "es"}. Target edges are not revealed, only their count.
func rpcListCatalog(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		Lang string `json:"lang"`
	}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("Invalid payload", codeInvalidArgument)
		}
	}
	lang := requestLanguage(ctx, req.Lang)

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("RpcListCatalog: Failed to load catalog: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	resp := catalogResponse{Language: string(lang)}
	for _, c := range cat.All() {
		resp.Constellations = append(resp.Constellations, catalogEntry{
			ID:    c.ID,
			Name:  c.Name(lang),
			Stars: c.Stars,
			Edges: len(c.Edges),
		})
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

type renderFrameRequest struct {
	ConstellationID string   `json:"constellation_id"`
	Edges           []string `json:"edges"`
	Hint            bool     `json:"hint"`
	Pixels          int      `json:"pixels"`
	Seed            int64    `json:"seed"`
}

type renderFrameResponse struct {
	PNG       string `json:"png"`
	Completed bool   `json:"completed"`
}

// rpcRenderFrame renders a constellation with the given drawn edges to a base64 PNG.
// Payload: {"constellation_id": "orion", "edges": ["0-1","1-2"], "hint": false, "pixels": 600, "seed": 7}
func rpcRenderFrame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req renderFrameRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", codeInvalidArgument)
	}
	cfg := config.GetGameConfig().WithEnv(envFromContext(ctx))

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("RpcRenderFrame: Failed to load catalog: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	edges := make([]domain.Edge, 0, len(req.Edges))
	for _, raw := range req.Edges {
		e, err := domain.ParseEdge(raw)
		if err != nil {
			return "", runtime.NewError("Invalid edge "+raw, codeInvalidArgument)
		}
		edges = append(edges, e)
	}

	// Replays the drawn edges as clicks so the frame reflects real session state.
	sess, err := app.NewService(cat, cfg.PickRadius).Replay(req.ConstellationID, edges)
	switch {
	case errors.Is(err, catalog.ErrUnknownConstellation):
		return "", runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, app.ErrInvalidEdge):
		return "", runtime.NewError(err.Error(), codeInvalidArgument)
	case err != nil:
		logger.Error("RpcRenderFrame: Failed to replay %s: %v", req.ConstellationID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	sess.HintVisible = req.Hint

	pixels := req.Pixels
	if pixels == 0 {
		pixels = render.DefaultPNGOptions().Pixels
	}
	if pixels < minFramePixels || pixels > maxFramePixels {
		return "", runtime.NewError("pixels out of range", codeInvalidArgument)
	}

	opts := render.DefaultOptions()
	opts.Size = cfg.CanvasSize
	bg := render.NewBackground(req.Seed, cfg.BackgroundStars, cfg.CanvasSize)
	scene := render.Build(sess, bg, opts)

	var buf bytes.Buffer
	pngOpts := render.DefaultPNGOptions()
	pngOpts.Pixels = pixels
	if err := render.EncodePNG(&buf, scene, pngOpts); err != nil {
		logger.Error("RpcRenderFrame: Failed to encode %s: %v", req.ConstellationID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	resp := renderFrameResponse{
		PNG:       base64.StdEncoding.EncodeToString(buf.Bytes()),
		Completed: sess.Completed,
	}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

type verifyReceiptResponse struct {
	Valid           bool   `json:"valid"`
	Reason          string `json:"reason,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	ConstellationID string `json:"constellation_id,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
	Edges           int    `json:"edges,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
}

// rpcVerifyReceipt validates a completion receipt.
// Payload: {"receipt": "<jwt>"}. An invalid receipt is reported in the response, not as an error.
func rpcVerifyReceipt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req struct {
		Receipt string `json:"receipt"`
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Receipt == "" {
		return "", runtime.NewError("Receipt required", codeInvalidArgument)
	}

	env := envFromContext(ctx)
	receipts := newReceiptService(env, config.GetGameConfig().WithEnv(env))
	if receipts == nil {
		logger.Warn("RpcVerifyReceipt: %s not set.", envReceiptSecret)
		return "", runtime.NewError("Receipts are not configured", codeUnavailable)
	}

	var resp verifyReceiptResponse
	receipt, err := receipts.Verify(req.Receipt)
	switch {
	case err == nil:
		resp = verifyReceiptResponse{
			Valid:           true,
			UserID:          receipt.UserID,
			ConstellationID: receipt.ConstellationID,
			SessionID:       receipt.SessionID,
			Edges:           receipt.EdgeCount,
			ExpiresAt:       receipt.ExpiresAt.UTC().Format(time.RFC3339),
		}
	case errors.Is(err, app.ErrInvalidReceipt):
		resp = verifyReceiptResponse{Valid: false, Reason: err.Error()}
	default:
		logger.Error("RpcVerifyReceipt: %v", err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	b, _ := json.Marshal(resp)
	return string(b), nil
}

type progressResponse struct {
	Solved   []string `json:"solved"`
	Total    int      `json:"total"`
	Stardust int64    `json:"stardust"`
}

// rpcListProgress lists the caller's solved constellations and stardust balance.
func rpcListProgress(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("User required", codeInvalidArgument)
	}

	cfg := config.GetGameConfig().WithEnv(envFromContext(ctx))
	solved, err := newProgressService(nk, cfg).Solved(ctx, userID)
	if err != nil {
		logger.Error("RpcListProgress [User:%s]: %v", userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}

	resp := progressResponse{Solved: solved}
	if cat, err := catalog.Default(); err == nil {
		resp.Total = cat.Len()
	}
	balance, err := NewNakamaEconomyAdapter(nk).GetBalance(ctx, userID)
	if err != nil {
		logger.Warn("RpcListProgress [User:%s]: Failed to read balance: %v", userID, err)
	}
	resp.Stardust = balance

	b, _ := json.Marshal(resp)
	return string(b), nil
}

// requestLanguage picks the language from the request, then the caller's
// session vars, then the configured default.
func requestLanguage(ctx context.Context, requested string) domain.Language {
	if requested != "" {
		return i18n.Parse(requested)
	}
	if vars, ok := ctx.Value(runtime.RUNTIME_CTX_VARS).(map[string]string); ok && vars["lang"] != "" {
		return i18n.Parse(vars["lang"])
	}
	return i18n.Parse(config.GetGameConfig().DefaultLanguage)
}
