package nakama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"testing"

	"constellation/internal/app"
	"constellation/internal/catalog"
	"constellation/internal/config"
	"constellation/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

func rpcContext(userID string, env map[string]string) context.Context {
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
	if env != nil {
		ctx = context.WithValue(ctx, runtime.RUNTIME_CTX_ENV, env)
	}
	return ctx
}

func TestRpcListCatalog(t *testing.T) {
	raw, err := rpcListCatalog(rpcContext("user-1", nil), noopLogger{}, nil, nil, `{"lang":"es"}`)
	if err != nil {
		t.Fatalf("rpcListCatalog error: %v", err)
	}

	var resp catalogResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	cat := catalog.MustDefault()
	if len(resp.Constellations) != cat.Len() {
		t.Fatalf("constellations = %d, want %d", len(resp.Constellations), cat.Len())
	}
	first := resp.Constellations[0]
	if first.ID != "cassiopeia" || first.Name != "Casiopea" || first.Edges != 4 {
		t.Errorf("first entry = %+v", first)
	}

	if _, err := rpcListCatalog(rpcContext("user-1", nil), noopLogger{}, nil, nil, `{`); err == nil {
		t.Error("expected an error for a malformed payload")
	}
}

func TestRpcListCatalogDefaultsToEnglish(t *testing.T) {
	raw, err := rpcListCatalog(rpcContext("user-1", nil), noopLogger{}, nil, nil, "")
	if err != nil {
		t.Fatalf("rpcListCatalog error: %v", err)
	}
	var resp catalogResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Language != "en" || resp.Constellations[0].Name != "Cassiopeia" {
		t.Errorf("language = %s, first name = %s", resp.Language, resp.Constellations[0].Name)
	}
}

func TestRpcRenderFrame(t *testing.T) {
	payload := `{"constellation_id":"cassiopeia","edges":["0-1","2-1","2-3","3-4"],"pixels":128,"seed":7}`
	raw, err := rpcRenderFrame(rpcContext("user-1", nil), noopLogger{}, nil, nil, payload)
	if err != nil {
		t.Fatalf("rpcRenderFrame error: %v", err)
	}

	var resp renderFrameResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Completed {
		t.Error("all target edges drawn, frame should report completed")
	}
	data, err := base64.StdEncoding.DecodeString(resp.PNG)
	if err != nil {
		t.Fatalf("png is not base64: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 128 {
		t.Errorf("png size = %dx%d, want 128x128", cfg.Width, cfg.Height)
	}
}

func TestRpcRenderFrameRejects(t *testing.T) {
	tests := map[string]string{
		"MalformedJSON":        `{`,
		"UnknownConstellation": `{"constellation_id":"andromeda"}`,
		"EdgeOutOfRange":       `{"constellation_id":"cassiopeia","edges":["0-9"]}`,
		"SelfLoop":             `{"constellation_id":"cassiopeia","edges":["2-2"]}`,
		"TooManyPixels":        `{"constellation_id":"cassiopeia","pixels":100000}`,
	}
	for name, payload := range tests {
		payload := payload
		t.Run(name, func(t *testing.T) {
			if _, err := rpcRenderFrame(rpcContext("user-1", nil), noopLogger{}, nil, nil, payload); err == nil {
				t.Fatalf("expected an error for %s", payload)
			}
		})
	}
}

func TestRpcVerifyReceipt(t *testing.T) {
	env := map[string]string{envReceiptSecret: testReceiptSecret}
	ctx := rpcContext("user-1", env)

	svc := app.NewService(catalog.MustDefault(), 0)
	sess, _, err := svc.SelectConstellation("cassiopeia")
	if err != nil {
		t.Fatalf("select error: %v", err)
	}
	for _, e := range sess.Constellation.Edges {
		svc.ClickStar(sess, sess.Constellation.Stars[e.A].Point())
		svc.ClickStar(sess, sess.Constellation.Stars[e.B].Point())
	}
	issuer := newReceiptService(env, config.GetGameConfig())
	token, err := issuer.Issue("user-1", sess)
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	raw, err := rpcVerifyReceipt(ctx, noopLogger{}, nil, nil, `{"receipt":"`+token+`"}`)
	if err != nil {
		t.Fatalf("rpcVerifyReceipt error: %v", err)
	}
	var resp verifyReceiptResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !resp.Valid || resp.UserID != "user-1" || resp.ConstellationID != "cassiopeia" || resp.Edges != 4 {
		t.Errorf("response = %+v", resp)
	}

	raw, err = rpcVerifyReceipt(ctx, noopLogger{}, nil, nil, `{"receipt":"not-a-token"}`)
	if err != nil {
		t.Fatalf("rpcVerifyReceipt error: %v", err)
	}
	resp = verifyReceiptResponse{}
	json.Unmarshal([]byte(raw), &resp)
	if resp.Valid || resp.Reason == "" {
		t.Errorf("garbage receipt response = %+v", resp)
	}

	if _, err := rpcVerifyReceipt(rpcContext("user-1", nil), noopLogger{}, nil, nil, `{"receipt":"x"}`); err == nil {
		t.Error("expected an error when no secret is configured")
	}
}

func TestRpcListProgress(t *testing.T) {
	nk := newFakeNakama()
	ctx := rpcContext("user-1", nil)
	adapter := NewNakamaProgressAdapter(nk)
	adapter.MarkSolved(ctx, "user-1", "leo")
	NewNakamaEconomyAdapter(nk).Grant(ctx, []ports.StardustGrant{{UserID: "user-1", Amount: 150}})

	raw, err := rpcListProgress(ctx, noopLogger{}, nil, nk, "")
	if err != nil {
		t.Fatalf("rpcListProgress error: %v", err)
	}
	var resp progressResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Solved) != 1 || resp.Solved[0] != "leo" {
		t.Errorf("solved = %v, want [leo]", resp.Solved)
	}
	if resp.Total != catalog.MustDefault().Len() || resp.Stardust != 150 {
		t.Errorf("response = %+v", resp)
	}

	if _, err := rpcListProgress(context.Background(), noopLogger{}, nil, nk, ""); err == nil {
		t.Error("expected an error without a user")
	}
}

func assertInternal(t *testing.T, err error) {
	t.Helper()
	var rerr *runtime.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("err = %v, want a runtime error", err)
	}
	if rerr.Code != codeInternal {
		t.Errorf("code = %d, want %d", rerr.Code, codeInternal)
	}
}

func TestRpcListProgressStorageFailure(t *testing.T) {
	nk := newFakeNakama()
	nk.readErr = errors.New("storage offline")

	_, err := rpcListProgress(rpcContext("user-1", nil), noopLogger{}, nil, nk, "")
	assertInternal(t, err)
}

func TestRpcQuickSession(t *testing.T) {
	nk := newFakeNakama()
	ctx := rpcContext("user-1", nil)

	raw, err := rpcQuickSession(ctx, noopLogger{}, nil, nk, "")
	if err != nil {
		t.Fatalf("rpcQuickSession error: %v", err)
	}
	var resp QuickSessionResponse
	json.Unmarshal([]byte(raw), &resp)
	if !resp.IsNew || resp.MatchID == "" {
		t.Fatalf("first response = %+v, want a new match", resp)
	}

	nk.matches = []*api.Match{{MatchId: "existing.nakama"}}
	raw, err = rpcQuickSession(ctx, noopLogger{}, nil, nk, "")
	if err != nil {
		t.Fatalf("rpcQuickSession error: %v", err)
	}
	resp = QuickSessionResponse{}
	json.Unmarshal([]byte(raw), &resp)
	if resp.IsNew || resp.MatchID != "existing.nakama" {
		t.Fatalf("second response = %+v, want existing match", resp)
	}
}

func TestRpcQuickSessionFailures(t *testing.T) {
	ctx := rpcContext("user-1", nil)

	nk := newFakeNakama()
	nk.listErr = errors.New("match list failed")
	_, err := rpcQuickSession(ctx, noopLogger{}, nil, nk, "")
	assertInternal(t, err)

	nk = newFakeNakama()
	nk.createErr = errors.New("match create failed")
	_, err = rpcQuickSession(ctx, noopLogger{}, nil, nk, "")
	assertInternal(t, err)
}
