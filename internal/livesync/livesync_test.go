package livesync

import (
	"context"
	"errors"
	"testing"
	"time"

	"skyperious/internal/skypedata"
)

type fakeClient struct {
	recentChats  []RemoteObject
	messagesByID map[string][]RemoteObject
	getCalls     int
}

func (f *fakeClient) LoginWithPassword(ctx context.Context, username, password string) (string, error) {
	return "fake-token", nil
}
func (f *fakeClient) LoginWithToken(ctx context.Context, username, token string) error { return nil }
func (f *fakeClient) Contacts(ctx context.Context) ([]RemoteObject, error)             { return nil, nil }
func (f *fakeClient) Chats(ctx context.Context) ([]RemoteObject, error)                { return f.recentChats, nil }
func (f *fakeClient) RecentChats(ctx context.Context) ([]RemoteObject, error) {
	return f.recentChats, nil
}
func (f *fakeClient) Messages(ctx context.Context, chatIdentity, cursor string) ([]RemoteObject, string, error) {
	return f.messagesByID[chatIdentity], "", nil
}
func (f *fakeClient) Get(ctx context.Context, url string) ([]byte, int, error) {
	f.getCalls++
	return []byte("data"), 200, nil
}

func newTestEngine(t *testing.T, client Client) *Engine {
	t.Helper()
	store, err := skypedata.Open(":memory:")
	if err != nil {
		t.Fatalf("skypedata.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	e := NewEngine(client, store)
	e.RateLimiter = &RateLimiter{Limit: 1000, Window: time.Millisecond}
	return e
}

func TestRateLimiterAllowsBurstUnderLimit(t *testing.T) {
	r := &RateLimiter{Limit: 3, Window: time.Hour}
	var slept time.Duration
	sleepFn := func(d time.Duration) { slept += d }
	// Minimum spacing only begins once two calls have been recorded, so the
	// first two calls go through back to back.
	for i := 0; i < 2; i++ {
		r.Wait(sleepFn)
	}
	if slept != 0 {
		t.Errorf("expected no sleeps under the limit, slept %v", slept)
	}
}

func TestRateLimiterThrottlesOverLimit(t *testing.T) {
	r := &RateLimiter{Limit: 1, Window: time.Hour}
	var slept time.Duration
	sleepFn := func(d time.Duration) { slept += d }
	r.Wait(sleepFn)
	r.Wait(sleepFn)
	if slept == 0 {
		t.Error("expected a sleep once the window is full")
	}
}

func TestRetrySucceedsWithoutRetrying(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryOptions{SleepFn: func(time.Duration) {}}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("boom")
	err := Retry(context.Background(), RetryOptions{MaxAttempts: 2, Raise: true, SleepFn: func(time.Duration) {}}, func() error {
		calls++
		return wantErr
	})
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if err == nil {
		t.Fatal("expected error when Raise is set")
	}
}

func TestRetryEscalatesOn429(t *testing.T) {
	var delays []time.Duration
	err := Retry(context.Background(), RetryOptions{
		MaxAttempts: 2, Delay: time.Second, AuthRateDelay: 10 * time.Second,
		SleepFn: func(d time.Duration) { delays = append(delays, d) },
	}, func() error {
		return &HTTPStatusError{StatusCode: 429, Err: errors.New("rate limited")}
	})
	if err != nil {
		t.Fatalf("Retry returned error without Raise set: %v", err)
	}
	if len(delays) != 1 || delays[0] != 10*time.Second {
		t.Errorf("delays = %v, want a single 10s delay", delays)
	}
}

func TestSaveContactInsertsThenNoChange(t *testing.T) {
	e := newTestEngine(t, &fakeClient{})
	item := RemoteObject{"skypename": "alice", "fullname": "Alice Example"}

	result, err := e.Save("contacts", item, 0)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if result != ResultInsert {
		t.Fatalf("result = %v, want INSERT", result)
	}

	result2, err := e.Save("contacts", item, 0)
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if result2 != ResultNoChange {
		t.Fatalf("result = %v, want NOCHANGE", result2)
	}
}

func TestSaveChatThenMessage(t *testing.T) {
	e := newTestEngine(t, &fakeClient{})
	chat := RemoteObject{"id": "19:group1", "displayname": "Group One"}
	if _, err := e.Save("chats", chat, 0); err != nil {
		t.Fatalf("Save chat failed: %v", err)
	}

	convos, err := e.Store.GetConversations()
	if err != nil || len(convos) != 1 {
		t.Fatalf("expected 1 conversation, got %d, err %v", len(convos), err)
	}
	convoID := convos[0].ID

	msg := RemoteObject{"id": "100", "from": "8:alice", "content": "hi", "messagetype": "RichText", "originalarrivaltime": int64(1000)}
	result, err := e.Save("messages", msg, convoID)
	if err != nil {
		t.Fatalf("Save message failed: %v", err)
	}
	if result != ResultInsert {
		t.Fatalf("result = %v, want INSERT", result)
	}
}

func TestGetAPIContentCachesToDisk(t *testing.T) {
	client := &fakeClient{}
	e := newTestEngine(t, client)
	cacheDir := t.TempDir()

	data1, err := e.GetAPIContent(context.Background(), "https://example.test/file", "image", cacheDir)
	if err != nil {
		t.Fatalf("GetAPIContent failed: %v", err)
	}
	data2, err := e.GetAPIContent(context.Background(), "https://example.test/file", "image", cacheDir)
	if err != nil {
		t.Fatalf("second GetAPIContent failed: %v", err)
	}
	if string(data1) != string(data2) {
		t.Errorf("cached content mismatch: %q vs %q", data1, data2)
	}
	if client.getCalls != 1 {
		t.Errorf("client.getCalls = %d, want 1 (second call should hit cache)", client.getCalls)
	}
}
