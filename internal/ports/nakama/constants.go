package nakama

const (
	// RpcQuickSession finds or creates a match with a free puzzle slot.
	RpcQuickSession = "quick_session"
	// RpcListCatalog lists the built-in constellations in the caller's language.
	RpcListCatalog = "list_catalog"
	// RpcRenderFrame renders a constellation and a set of drawn edges to a PNG.
	RpcRenderFrame = "render_frame"
	// RpcVerifyReceipt checks a completion receipt issued by the match handler.
	RpcVerifyReceipt = "verify_receipt"
	// RpcListProgress lists the constellations the caller has solved.
	RpcListProgress = "list_progress"

	// MatchNameConstellation is the authoritative match handler name registered with Nakama.
	MatchNameConstellation = "constellation_match"

	gameConfigPath = "data/game_config.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSelect      int64 = 1
	OpClick       int64 = 2
	OpMove        int64 = 3
	OpReset       int64 = 4
	OpToggleHint  int64 = 5
	OpSetLanguage int64 = 6

	// Server -> Client events, sent only to the acting player
	OpSessionState     int64 = 101
	OpSelectionChanged int64 = 102
	OpEdgeAdded        int64 = 103
	OpPuzzleCompleted  int64 = 104
	OpError            int64 = 105
)

// Runtime env keys.
const (
	envReceiptSecret = "constellation_receipt_secret"
)
