package nakama

import (
	"context"
	"database/sql"
	"time"

	"constellation/internal/app"
	"constellation/internal/app/progress"
	"constellation/internal/catalog"
	"constellation/internal/config"
	"constellation/internal/domain"
	"constellation/internal/i18n"

	"github.com/heroiclabs/nakama-common/runtime"
)

// PlayerSession is one presence and its private puzzle session.
type PlayerSession struct {
	Presence runtime.Presence
	Session  *domain.Session
	Language domain.Language
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Tick       int64                     `json:"tick"`
	MaxPlayers int                       `json:"max_players"`
	Players    map[string]*PlayerSession `json:"-"` // UserId -> player
	// PendingLanguages holds the language requested in join metadata until MatchJoin.
	PendingLanguages map[string]domain.Language `json:"-"`
	App              *app.Service              `json:"-"`
	Progress         *progress.Service         `json:"-"`
	Receipts         *app.ReceiptService       `json:"-"` // nil when no receipt secret is configured
	Config           *config.GameConfig        `json:"-"`
}

// GetOpenSlotsCount returns how many more players the match can host.
func (ms *MatchState) GetOpenSlotsCount() int {
	open := ms.MaxPlayers - len(ms.Players)
	if open < 0 {
		return 0
	}
	return open
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	env := envFromContext(ctx)
	cfg := config.GetGameConfig().WithEnv(env)

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("MatchInit: Failed to load catalog: %v", err)
		return nil, 0, ""
	}

	state := &MatchState{
		Tick:             time.Now().Unix(),
		MaxPlayers:       cfg.MaxPlayersPerMatch,
		Players:          make(map[string]*PlayerSession),
		PendingLanguages: make(map[string]domain.Language),
		App:              app.NewService(cat, cfg.PickRadius),
		Progress:         newProgressService(nk, cfg),
		Receipts:         newReceiptService(env, cfg),
		Config:           cfg,
	}
	if state.Receipts == nil {
		logger.Warn("MatchInit: %s not set, completion receipts are disabled.", envReceiptSecret)
	}

	label, err := matchLabel(state.GetOpenSlotsCount())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, cfg.TickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	if _, rejoin := matchState.Players[presence.GetUserId()]; !rejoin && matchState.GetOpenSlotsCount() <= 0 {
		return state, false, "Match full"
	}

	if lang, ok := metadata["lang"]; ok {
		matchState.PendingLanguages[presence.GetUserId()] = i18n.Parse(lang)
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		if existing, ok := matchState.Players[userID]; ok {
			// Reconnect keeps the puzzle in progress.
			existing.Presence = p
			mh.sendSessionState(existing, dispatcher, logger)
			continue
		}

		lang := i18n.Parse(matchState.Config.DefaultLanguage)
		if pending, ok := matchState.PendingLanguages[userID]; ok {
			lang = pending
			delete(matchState.PendingLanguages, userID)
		}

		sess, _, err := matchState.App.SelectConstellation(app.DefaultConstellationID)
		if err != nil {
			logger.Error("MatchJoin: Failed to start session for %s: %v", userID, err)
			continue
		}
		player := &PlayerSession{Presence: p, Session: sess, Language: lang}
		matchState.Players[userID] = player
		logger.Debug("MatchJoin: User %s started session %s on %s.", userID, sess.ID, sess.Constellation.ID)

		mh.sendSessionState(player, dispatcher, logger)
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Players, p.GetUserId())
		delete(matchState.PendingLanguages, p.GetUserId())
		logger.Debug("MatchLeave: User %s left, session discarded.", p.GetUserId())
	}

	if len(matchState.Players) == 0 {
		logger.Info("MatchLeave: Terminating match with no players.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		player, ok := matchState.Players[msg.GetUserId()]
		if !ok {
			logger.Warn("MatchLoop: Message from unknown user %s", msg.GetUserId())
			continue
		}

		switch msg.GetOpCode() {
		case OpSelect:
			mh.handleSelect(matchState, player, dispatcher, logger, msg)
		case OpClick:
			mh.handleClick(ctx, matchState, player, dispatcher, logger, msg)
		case OpMove:
			mh.handleMove(matchState, player, dispatcher, logger, msg)
		case OpReset:
			mh.dispatchResult(ctx, matchState, player, dispatcher, logger)(matchState.App.ResetCurrent(player.Session))
		case OpToggleHint:
			mh.dispatchResult(ctx, matchState, player, dispatcher, logger)(matchState.App.ToggleHint(player.Session))
		case OpSetLanguage:
			mh.handleSetLanguage(player, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

func (mh *matchHandler) handleSelect(state *MatchState, player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleSelect: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(player, dispatcher, logger, 400, "invalid payload")
		return
	}

	id := stringField(req, "constellation_id")
	if id == "" {
		id = state.App.Catalog().Next(player.Session.Constellation.ID).ID
	}

	sess, _, err := state.App.SelectConstellation(id)
	if err != nil {
		logger.Warn("handleSelect: User %s selected %q: %v", msg.GetUserId(), id, err)
		mh.sendError(player, dispatcher, logger, 404, err.Error())
		return
	}

	player.Session = sess
	mh.sendSessionState(player, dispatcher, logger)
}

func (mh *matchHandler) handleClick(ctx context.Context, state *MatchState, player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleClick: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(player, dispatcher, logger, 400, "invalid payload")
		return
	}
	p, err := pointFromRequest(req)
	if err != nil {
		mh.sendError(player, dispatcher, logger, 400, err.Error())
		return
	}

	mh.dispatchResult(ctx, state, player, dispatcher, logger)(state.App.ClickStar(player.Session, p))
}

// handleMove records the pointer. The pending line is drawn client-side, so nothing is sent back.
func (mh *matchHandler) handleMove(state *MatchState, player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleMove: Invalid payload from %s: %v", msg.GetUserId(), err)
		return
	}
	p, err := pointFromRequest(req)
	if err != nil {
		return
	}
	if _, err := state.App.MovePointer(player.Session, p); err != nil {
		logger.Warn("handleMove: %v", err)
	}
}

func (mh *matchHandler) handleSetLanguage(player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	req, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Warn("handleSetLanguage: Invalid payload from %s: %v", msg.GetUserId(), err)
		mh.sendError(player, dispatcher, logger, 400, "invalid payload")
		return
	}

	lang := domain.Language(stringField(req, "lang"))
	if !lang.Valid() {
		mh.sendError(player, dispatcher, logger, 400, "unsupported language")
		return
	}
	player.Language = lang
	mh.sendSessionState(player, dispatcher, logger)
}

// dispatchResult adapts an app call's (events, err) result to per-player dispatch.
func (mh *matchHandler) dispatchResult(ctx context.Context, state *MatchState, player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger) func([]app.Event, error) {
	return func(events []app.Event, err error) {
		if err != nil {
			logger.Warn("MatchLoop: User %s request failed: %v", player.Presence.GetUserId(), err)
			mh.sendError(player, dispatcher, logger, 400, err.Error())
			return
		}
		for _, ev := range events {
			mh.sendEvent(ctx, state, player, dispatcher, logger, ev)
		}
	}
}

// sendEvent handles the conversion and dispatching of app events to the acting player.
func (mh *matchHandler) sendEvent(ctx context.Context, state *MatchState, player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload map[string]interface{}

	switch ev.Kind {
	case app.EventSessionStarted, app.EventSessionReset, app.EventHintToggled:
		mh.sendSessionState(player, dispatcher, logger)
		return
	case app.EventSelectionChanged:
		opCode = OpSelectionChanged
		p := ev.Payload.(app.SelectionChangedPayload)
		payload = map[string]interface{}{"selected": selectionIndex(p.Selection)}
	case app.EventEdgeAdded:
		opCode = OpEdgeAdded
		p := ev.Payload.(app.EdgeAddedPayload)
		payload = map[string]interface{}{
			"a":       p.Edge.A,
			"b":       p.Edge.B,
			"matched": p.Matched,
			"total":   p.Total,
			"extra":   p.Extra,
		}
	case app.EventPuzzleCompleted:
		opCode = OpPuzzleCompleted
		p := ev.Payload.(app.PuzzleCompletedPayload)
		payload = mh.completePuzzle(ctx, state, player, logger, p)
	case app.EventPointerMoved:
		return
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	mh.send(player, dispatcher, logger, opCode, payload)
}

// completePuzzle records progress, pays the first-solve reward and signs a receipt.
// Failures are logged; the player is still told the puzzle is complete.
func (mh *matchHandler) completePuzzle(ctx context.Context, state *MatchState, player *PlayerSession, logger runtime.Logger, p app.PuzzleCompletedPayload) map[string]interface{} {
	userID := player.Presence.GetUserId()
	payload := map[string]interface{}{
		"session_id":       p.SessionID,
		"constellation_id": p.ConstellationID,
		"name":             player.Session.Constellation.Name(player.Language),
		"edges":            edgesToList(p.Edges),
		"first_solve":      false,
		"stardust":         0,
	}

	result, err := state.Progress.RecordCompletion(ctx, userID, p.ConstellationID)
	if err != nil {
		logger.Error("PuzzleCompleted: Failed to record %s for %s: %v", p.ConstellationID, userID, err)
	} else {
		payload["first_solve"] = result.FirstSolve
		payload["stardust"] = result.Stardust
		if result.RewardErr != nil {
			logger.Error("PuzzleCompleted: Failed to grant stardust to %s: %v", userID, result.RewardErr)
		}
	}

	if state.Receipts != nil {
		receipt, err := state.Receipts.Issue(userID, player.Session)
		if err != nil {
			logger.Error("PuzzleCompleted: Failed to sign receipt for %s: %v", userID, err)
		} else {
			payload["receipt"] = receipt
		}
	}

	logger.Info("PuzzleCompleted: User %s traced %s (first=%v).", userID, p.ConstellationID, payload["first_solve"])
	return payload
}

func (mh *matchHandler) sendSessionState(player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	mh.send(player, dispatcher, logger, OpSessionState, sessionSnapshot(player.Session, player.Language))
}

// sendError sends an error event to a specific player.
func (mh *matchHandler) sendError(player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, code int, message string) {
	mh.send(player, dispatcher, logger, OpError, map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func (mh *matchHandler) send(player *PlayerSession, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload map[string]interface{}) {
	bytes, err := encodePayload(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, []runtime.Presence{player.Presence}, nil, true); err != nil {
		logger.Error("Failed to send opcode %d to %s: %v", opCode, player.Presence.GetUserId(), err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.GetOpenSlotsCount())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with grace %d seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// envFromContext returns the runtime env, or nil outside a Nakama runtime.
func envFromContext(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}

func newProgressService(nk runtime.NakamaModule, cfg *config.GameConfig) *progress.Service {
	return progress.NewService(NewNakamaProgressAdapter(nk), NewNakamaEconomyAdapter(nk), cfg.GetReward)
}

func newReceiptService(env map[string]string, cfg *config.GameConfig) *app.ReceiptService {
	secret := env[envReceiptSecret]
	if secret == "" {
		return nil
	}
	return app.NewReceiptService(secret, cfg.ReceiptIssuer, time.Duration(cfg.ReceiptTTLSeconds)*time.Second)
}
