package scheduler

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"TradeAdvisor/internal/advisor"
	"TradeAdvisor/internal/config"
	"TradeAdvisor/internal/notifier"
	"TradeAdvisor/internal/recorder"
)

// historyRows is the number of log entries shown by /history.
const historyRows = 10

// Sender delivers a report to the user.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs analysis passes on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Advisor  *advisor.Advisor
	Store    recorder.Store
	Notifier Sender
	Defaults advisor.Request
	Ctx      context.Context

	format notifier.Formatter
	mu     sync.Mutex // one pass at a time
}

// NewScheduler creates a new Scheduler. tn may be nil, in which case reports are only logged.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, store recorder.Store, tn Sender, defaults advisor.Request) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Advisor:  adv,
		Store:    store,
		Notifier: tn,
		Defaults: defaults,
		Ctx:      ctx,
		format:   notifier.Formatter{Format: notifier.HTML},
	}
}

// Register schedules the default analysis. An empty spec leaves the schedule disabled.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		log.Println("[INFO] no analysis schedule configured")
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.scheduledTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	log.Printf("[INFO] analysis scheduled: %s", spec)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the scheduled task immediately.
func (s *Scheduler) RunNow() {
	s.scheduledTask()
}

func (s *Scheduler) scheduledTask() {
	log.Printf("[INFO] running scheduled analysis for %s %s", s.Defaults.Symbol, s.Defaults.Timeframe)
	s.trySend(s.analyze(s.Ctx, s.Defaults))
}

// analyze runs one pass and renders the report, or the generic failure message.
func (s *Scheduler) analyze(ctx context.Context, req advisor.Request) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Advisor.Run(ctx, req)
	if err != nil {
		log.Printf("[ERROR] analysis %s %s: %v", req.Symbol, req.Timeframe, err)
		return "❌ " + notifier.Failure
	}
	log.Printf("[INFO] %s", res)
	return s.format.SignalReport(res.Entry, res.Signal)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage()
	}
	switch strings.ToLower(fields[0]) {
	case "/analyze":
		req := s.Defaults
		if len(fields) > 1 {
			req.Symbol = strings.ToUpper(fields[1])
		}
		if len(fields) > 2 {
			req.Timeframe = strings.ToLower(fields[2])
		}
		if !slices.Contains(config.Symbols, req.Symbol) {
			return fmt.Sprintf("Unsupported symbol %s. Choose one of: %s", req.Symbol, strings.Join(config.Symbols, ", "))
		}
		if !slices.Contains(config.Timeframes, req.Timeframe) {
			return fmt.Sprintf("Unsupported timeframe %s. Choose one of: %s", req.Timeframe, strings.Join(config.Timeframes, ", "))
		}
		return s.analyze(ctx, req)
	case "/history":
		entries, err := s.Store.ReadAll()
		if err != nil {
			log.Printf("[ERROR] read log: %v", err)
			return "❌ could not read the signal log"
		}
		return s.format.History(entries, historyRows)
	case "/stats":
		entries, err := s.Store.ReadAll()
		if err != nil {
			log.Printf("[ERROR] read log: %v", err)
			return "❌ could not read the signal log"
		}
		return s.format.Summary(recorder.Summarize(entries))
	default:
		return usage()
	}
}

func usage() string {
	return "Available commands:\n• /analyze [SYMBOL] [TIMEFRAME]\n• /history\n• /stats"
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] report:\n%s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
