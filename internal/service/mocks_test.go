package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/poseidon-tools/farmer/internal/domain"
)

// mockGateway implements Gateway with overridable function fields. The
// default behaviors model a healthy account with one eligible campaign
// and a single quota slot.
type mockGateway struct {
	mu    sync.Mutex
	calls []string

	ProfileFn       func(ctx context.Context) (domain.Profile, error)
	CampaignsFn     func(ctx context.Context) ([]domain.Campaign, error)
	QuotaFn         func(ctx context.Context, campaignID string) (domain.Quota, error)
	NextScriptFn    func(ctx context.Context, languageCode, campaignID string) (*domain.ScriptAssignment, error)
	PresignUploadFn func(ctx context.Context, campaignID, fileName, assignmentID string) (*domain.PresignedSlot, error)
	UploadBinaryFn  func(ctx context.Context, presignedURL string, payload []byte) error
	ConfirmUploadFn func(ctx context.Context, confirmation domain.UploadConfirmation) (*domain.UploadReceipt, error)
	PublicIPFn      func(ctx context.Context) (string, error)
}

func (m *mockGateway) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockGateway) callCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockGateway) Profile(ctx context.Context) (domain.Profile, error) {
	m.record("Profile")
	if m.ProfileFn != nil {
		return m.ProfileFn(ctx)
	}
	return domain.Profile{Name: "tester", Points: 10, Wallet: "0x1"}, nil
}

func (m *mockGateway) Campaigns(ctx context.Context) ([]domain.Campaign, error) {
	m.record("Campaigns")
	if m.CampaignsFn != nil {
		return m.CampaignsFn(ctx)
	}
	return []domain.Campaign{testCampaign()}, nil
}

func (m *mockGateway) Quota(ctx context.Context, campaignID string) (domain.Quota, error) {
	m.record("Quota")
	if m.QuotaFn != nil {
		return m.QuotaFn(ctx, campaignID)
	}
	return domain.Quota{Remaining: 1, Cap: 1}, nil
}

func (m *mockGateway) NextScript(ctx context.Context, languageCode, campaignID string) (*domain.ScriptAssignment, error) {
	m.record("NextScript")
	if m.NextScriptFn != nil {
		return m.NextScriptFn(ctx, languageCode, campaignID)
	}
	return &domain.ScriptAssignment{AssignmentID: "as-1", Content: "say something"}, nil
}

func (m *mockGateway) PresignUpload(ctx context.Context, campaignID, fileName, assignmentID string) (*domain.PresignedSlot, error) {
	m.record("PresignUpload")
	if m.PresignUploadFn != nil {
		return m.PresignUploadFn(ctx, campaignID, fileName, assignmentID)
	}
	return &domain.PresignedSlot{URL: "https://bucket/put", ObjectKey: "k1", FileID: "f1"}, nil
}

func (m *mockGateway) UploadBinary(ctx context.Context, presignedURL string, payload []byte) error {
	m.record("UploadBinary")
	if m.UploadBinaryFn != nil {
		return m.UploadBinaryFn(ctx, presignedURL, payload)
	}
	return nil
}

func (m *mockGateway) ConfirmUpload(ctx context.Context, confirmation domain.UploadConfirmation) (*domain.UploadReceipt, error) {
	m.record("ConfirmUpload")
	if m.ConfirmUploadFn != nil {
		return m.ConfirmUploadFn(ctx, confirmation)
	}
	return &domain.UploadReceipt{ID: "upload-1", ObjectKey: confirmation.ObjectKey}, nil
}

func (m *mockGateway) PublicIP(ctx context.Context) (string, error) {
	m.record("PublicIP")
	if m.PublicIPFn != nil {
		return m.PublicIPFn(ctx)
	}
	return "203.0.113.7", nil
}

// stubSynth returns fixed audio bytes, or an error when set.
type stubSynth struct {
	audio []byte
	err   error
	calls int
}

func (s *stubSynth) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.audio != nil {
		return s.audio, nil
	}
	return []byte("audio"), nil
}

// fakeClock records sleeps instead of performing them.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

func testCampaign() domain.Campaign {
	return domain.Campaign{
		ID:                 "c-1",
		Type:               "AUDIO",
		Scripted:           true,
		SupportedLanguages: []string{"en"},
	}
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errBoom = errors.New("boom")
