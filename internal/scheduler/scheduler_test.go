package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"TradeAdvisor/internal/advisor"
	"TradeAdvisor/internal/collector"
	"TradeAdvisor/internal/notifier"
	"TradeAdvisor/internal/recorder"
	"TradeAdvisor/internal/strategy"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

func newScheduler(t *testing.T, fetcher collector.Fetcher) (*Scheduler, *fakeSender, *recorder.MemoryStore) {
	t.Helper()
	store := recorder.NewMemoryStore()
	adv := advisor.New(collector.NewCollector(fetcher, 120), &strategy.Generator{Rand: fixedSource(0)}, store, nil)
	sender := &fakeSender{}
	defaults := advisor.Request{Symbol: "BTC-USDT", Timeframe: "1h", Params: strategy.DefaultParams(5000, 10)}
	return NewScheduler(context.Background(), adv, store, sender, defaults), sender, store
}

func TestRunNow_SendsReport(t *testing.T) {
	s, sender, store := newScheduler(t, &collector.MockFetcher{Price: 30000})
	s.RunNow()

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], "<b>BTC-USDT Market Analysis</b>") {
		t.Errorf("unexpected report:\n%s", sender.sent[0])
	}
	if entries, _ := store.ReadAll(); len(entries) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(entries))
	}
}

func TestRunNow_FailureIsGeneric(t *testing.T) {
	s, sender, store := newScheduler(t, &collector.MockFetcher{Err: errors.New("dial tcp: i/o timeout")})
	s.RunNow()

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], notifier.Failure) {
		t.Fatalf("expected the generic failure message, got %v", sender.sent)
	}
	if strings.Contains(sender.sent[0], "timeout") {
		t.Error("failure details should not reach the user")
	}
	if entries, _ := store.ReadAll(); len(entries) != 0 {
		t.Errorf("failed run must not be logged, got %d entries", len(entries))
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, store := newScheduler(t, &collector.MockFetcher{Price: 150})
	ctx := context.Background()

	if out := s.HandleCommand(ctx, "/history"); !strings.Contains(out, "No signals recorded yet") {
		t.Errorf("unexpected empty history: %s", out)
	}

	out := s.HandleCommand(ctx, "/analyze sol-usdt 15M")
	if !strings.Contains(out, "SOL-USDT Market Analysis") || !strings.Contains(out, "15m") {
		t.Errorf("unexpected analyze reply:\n%s", out)
	}
	entries, _ := store.ReadAll()
	if len(entries) != 1 || entries[0].Symbol != "SOL-USDT" || entries[0].Timeframe != "15m" {
		t.Fatalf("expected one SOL-USDT 15m entry, got %+v", entries)
	}

	if out := s.HandleCommand(ctx, "/analyze"); !strings.Contains(out, "BTC-USDT") {
		t.Errorf("/analyze without arguments should use the defaults:\n%s", out)
	}
	if out := s.HandleCommand(ctx, "/history"); !strings.Contains(out, "SOL-USDT") {
		t.Errorf("history should list the logged run:\n%s", out)
	}
	if out := s.HandleCommand(ctx, "/stats"); !strings.Contains(out, "Total signals: 2") {
		t.Errorf("unexpected stats:\n%s", out)
	}

	if out := s.HandleCommand(ctx, "/analyze PEPE-USDT"); !strings.Contains(out, "Unsupported symbol") {
		t.Errorf("expected symbol rejection, got %s", out)
	}
	if out := s.HandleCommand(ctx, "/analyze BTC-USDT 2h"); !strings.Contains(out, "Unsupported timeframe") {
		t.Errorf("expected timeframe rejection, got %s", out)
	}
	if out := s.HandleCommand(ctx, "hello"); !strings.Contains(out, "/analyze") {
		t.Errorf("expected usage, got %s", out)
	}
	if entries, _ := store.ReadAll(); len(entries) != 2 {
		t.Errorf("rejected commands must not run an analysis, got %d entries", len(entries))
	}
}

func TestRegister(t *testing.T) {
	s, _, _ := newScheduler(t, &collector.MockFetcher{Price: 1})
	if err := s.Register(""); err != nil {
		t.Errorf("empty schedule should be accepted: %v", err)
	}
	if len(s.Cron.Entries()) != 0 {
		t.Errorf("empty schedule should register nothing")
	}
	if err := s.Register("0 */15 * * * *"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(s.Cron.Entries()))
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid spec")
	}
}
