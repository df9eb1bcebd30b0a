package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseidon-tools/farmer/internal/domain"
)

func newTestProcessor(t *testing.T, factory GatewayFactory, clock *fakeClock) *AccountProcessor {
	t.Helper()
	runner := NewCampaignRunner(&stubSynth{}, clock, testLogger(t), 3, 0)
	return NewAccountProcessor(factory, runner, clock, testLogger(t), ProcessorConfig{
		InterAccountDelay: 5 * time.Second,
		CooldownMin:       time.Minute,
		CooldownMax:       time.Minute,
	})
}

func TestAccountProcessor_RunCycle(t *testing.T) {
	t.Parallel()

	t.Run("processes every account and assigns proxies round-robin", func(t *testing.T) {
		t.Parallel()

		var proxies []string
		factory := func(token, proxyURI string) (Gateway, error) {
			proxies = append(proxies, proxyURI)
			return &mockGateway{}, nil
		}

		clock := newFakeClock()
		processor := newTestProcessor(t, factory, clock)
		tokens := []string{"t1", "t2", "t3", "t4", "t5"}
		summaries := processor.RunCycle(context.Background(), tokens, []string{"http://p1:8080", "http://p2:8080"})

		require.Len(t, summaries, 5)
		assert.Equal(t, []string{
			"http://p1:8080", "http://p2:8080",
			"http://p1:8080", "http://p2:8080",
			"http://p1:8080",
		}, proxies)

		for i, summary := range summaries {
			assert.Equal(t, i+1, summary.Index)
			assert.True(t, summary.Authenticated)
			assert.Equal(t, 1, summary.Campaigns)
		}

		// Inter-account delays between accounts, none after the last.
		sleeps := clock.recorded()
		delays := 0
		for _, d := range sleeps {
			if d == 5*time.Second {
				delays++
			}
		}
		assert.Equal(t, 4, delays)
	})

	t.Run("no proxies means direct connections and no IP lookup", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{}
		factory := func(token, proxyURI string) (Gateway, error) {
			assert.Empty(t, proxyURI)
			return gw, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1"}, nil)

		require.Len(t, summaries, 1)
		assert.Zero(t, gw.callCount("PublicIP"))
		assert.Empty(t, summaries[0].PublicIP)
	})

	t.Run("proxied accounts report their egress IP", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{
			PublicIPFn: func(ctx context.Context) (string, error) {
				return "198.51.100.4", nil
			},
		}
		factory := func(token, proxyURI string) (Gateway, error) {
			return gw, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1"}, []string{"socks5://127.0.0.1:1080"})

		require.Len(t, summaries, 1)
		assert.Equal(t, "198.51.100.4", summaries[0].PublicIP)
	})

	t.Run("authentication failure yields a summary with no campaign work", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{
			ProfileFn: func(ctx context.Context) (domain.Profile, error) {
				return domain.UnknownProfile(), errBoom
			},
		}
		factory := func(token, proxyURI string) (Gateway, error) {
			return gw, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1"}, nil)

		require.Len(t, summaries, 1)
		assert.False(t, summaries[0].Authenticated)
		assert.NotEmpty(t, summaries[0].AuthError)
		assert.Zero(t, summaries[0].Campaigns)
		assert.Zero(t, gw.callCount("Campaigns"))
	})

	t.Run("gateway construction failure does not stop the batch", func(t *testing.T) {
		t.Parallel()

		built := 0
		factory := func(token, proxyURI string) (Gateway, error) {
			built++
			if built == 1 {
				return nil, errBoom
			}
			return &mockGateway{}, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1", "t2"}, nil)

		require.Len(t, summaries, 2)
		assert.False(t, summaries[0].Authenticated)
		assert.NotEmpty(t, summaries[0].AuthError)
		assert.True(t, summaries[1].Authenticated)
	})

	t.Run("campaign fetch failure keeps the authenticated summary", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{
			CampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
				return nil, errBoom
			},
		}
		factory := func(token, proxyURI string) (Gateway, error) {
			return gw, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1"}, nil)

		require.Len(t, summaries, 1)
		assert.True(t, summaries[0].Authenticated)
		assert.Zero(t, summaries[0].Campaigns)
		assert.Zero(t, summaries[0].Counters.Attempted)
	})

	t.Run("a panicking account is absorbed and the batch continues", func(t *testing.T) {
		t.Parallel()

		built := 0
		factory := func(token, proxyURI string) (Gateway, error) {
			built++
			if built == 1 {
				panic("account blew up")
			}
			return &mockGateway{}, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		summaries := processor.RunCycle(context.Background(), []string{"t1", "t2"}, nil)

		require.Len(t, summaries, 2)
		assert.False(t, summaries[0].Authenticated)
		assert.True(t, summaries[1].Authenticated)
	})

	t.Run("cooldown runs between campaigns but not after the last", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{
			CampaignsFn: func(ctx context.Context) ([]domain.Campaign, error) {
				c1 := testCampaign()
				c2 := testCampaign()
				c2.ID = "c-2"
				return []domain.Campaign{c1, c2}, nil
			},
			QuotaFn: func(ctx context.Context, campaignID string) (domain.Quota, error) {
				return domain.Quota{}, nil // both campaigns skip immediately
			},
		}
		factory := func(token, proxyURI string) (Gateway, error) {
			return gw, nil
		}

		clock := newFakeClock()
		processor := newTestProcessor(t, factory, clock)
		summaries := processor.RunCycle(context.Background(), []string{"t1"}, nil)

		require.Len(t, summaries, 1)
		assert.Equal(t, 2, summaries[0].Counters.Skipped)

		// Fixed min==max cooldown of one minute, logged in 30s steps.
		assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, clock.recorded())
	})

	t.Run("account hook receives every summary", func(t *testing.T) {
		t.Parallel()

		factory := func(token, proxyURI string) (Gateway, error) {
			return &mockGateway{}, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		var seen []int
		processor.OnAccountDone = func(s domain.AccountSummary) {
			seen = append(seen, s.Index)
		}

		processor.RunCycle(context.Background(), []string{"t1", "t2"}, nil)
		assert.Equal(t, []int{1, 2}, seen)
	})

	t.Run("expired token still attempts authentication", func(t *testing.T) {
		t.Parallel()

		gw := &mockGateway{}
		factory := func(token, proxyURI string) (Gateway, error) {
			return gw, nil
		}

		processor := newTestProcessor(t, factory, newFakeClock())
		// Opaque token; expiry inspection fails silently and the flow
		// proceeds to the profile call.
		summaries := processor.RunCycle(context.Background(), []string{"not-a-jwt"}, nil)

		require.Len(t, summaries, 1)
		assert.Equal(t, 1, gw.callCount("Profile"))
		assert.True(t, summaries[0].Authenticated)
	})
}
