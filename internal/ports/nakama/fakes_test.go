package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

type sentMessage struct {
	opCode     int64
	data       []byte
	recipients []runtime.Presence
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	sent      []sentMessage
	lastLabel string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.sent = append(md.sent, sentMessage{
		opCode:     opCode,
		data:       append([]byte(nil), data...),
		recipients: presences,
	})
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.lastLabel = label
	return nil
}

func (md *mockDispatcher) last(t *testing.T) sentMessage {
	t.Helper()
	if len(md.sent) == 0 {
		t.Fatal("no message sent")
	}
	return md.sent[len(md.sent)-1]
}

func (md *mockDispatcher) reset() {
	md.sent = nil
}

// testPresence satisfies runtime.Presence for the methods the handler calls.
type testPresence struct {
	runtime.Presence
	userID string
}

func (p testPresence) GetUserId() string    { return p.userID }
func (p testPresence) GetSessionId() string { return "session-" + p.userID }
func (p testPresence) GetUsername() string  { return p.userID }

type testMessage struct {
	testPresence
	opCode int64
	data   []byte
}

func (m testMessage) GetOpCode() int64      { return m.opCode }
func (m testMessage) GetData() []byte       { return m.data }
func (m testMessage) GetReliable() bool     { return true }
func (m testMessage) GetReceiveTime() int64 { return 0 }

// fakeNakama implements the parts of runtime.NakamaModule the adapters use.
// Calling anything else panics on the nil embedded interface.
type fakeNakama struct {
	runtime.NakamaModule

	storage    map[string]*api.StorageObject
	version    int
	rejectNext int

	wallets  map[string]map[string]int64
	ledger   []map[string]interface{}
	profiles map[string]string // userID -> langTag
	names    map[string]string // userID -> display name

	matches []*api.Match
	created int

	readErr   error
	listErr   error
	createErr error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		storage:  make(map[string]*api.StorageObject),
		wallets:  make(map[string]map[string]int64),
		profiles: make(map[string]string),
		names:    make(map[string]string),
	}
}

func storageKey(userID, collection, key string) string {
	return userID + "/" + collection + "/" + key
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	var out []*api.StorageObject
	for _, r := range reads {
		if obj, ok := f.storage[storageKey(r.UserID, r.Collection, r.Key)]; ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	acks := make([]*api.StorageObjectAck, 0, len(writes))
	for _, w := range writes {
		if f.rejectNext > 0 {
			f.rejectNext--
			return nil, runtime.ErrStorageRejectedVersion
		}
		key := storageKey(w.UserID, w.Collection, w.Key)
		existing, ok := f.storage[key]
		switch {
		case w.Version == "*" && ok:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!ok || existing.Version != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}
		f.version++
		version := fmt.Sprintf("v%d", f.version)
		f.storage[key] = &api.StorageObject{
			Collection: w.Collection,
			Key:        w.Key,
			UserId:     w.UserID,
			Value:      w.Value,
			Version:    version,
		}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, Version: version, UserId: w.UserID})
	}
	return acks, nil
}

func (f *fakeNakama) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	if _, ok := f.wallets[userID]; !ok {
		f.wallets[userID] = make(map[string]int64)
	}
	prev := make(map[string]int64)
	for k, v := range f.wallets[userID] {
		prev[k] = v
	}
	for k, v := range changeset {
		f.wallets[userID][k] += v
	}
	if updateLedger {
		f.ledger = append(f.ledger, metadata)
	}
	return f.wallets[userID], prev, nil
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	wallet, _ := json.Marshal(f.wallets[userID])
	return &api.Account{Wallet: string(wallet)}, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.names[userID] = displayName
	f.profiles[userID] = langTag
	return nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.matches, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++
	return fmt.Sprintf("match-%d.nakama", f.created), nil
}

func decodeStruct(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	return s.AsMap()
}

func encodeStruct(t *testing.T, fields map[string]interface{}) []byte {
	t.Helper()
	b, err := encodePayload(fields)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return b
}
