package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// State is the scheduler's position in its polling cycle.
type State int

const (
	Idle State = iota
	Checking
	Sending
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Sending:
		return "sending"
	default:
		return "idle"
	}
}

// Job is the pipeline run when a send hour comes up.
type Job func(ctx context.Context) error

// FixedZone returns a location at a whole-hour offset from UTC, named like "UTC+5".
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Scheduler polls the clock on a fixed interval and runs its job at most once
// per designated hour. Missed hours are never caught up.
type Scheduler struct {
	cron      *cron.Cron
	location  *time.Location
	interval  time.Duration
	sendHours map[int]bool
	job       Job

	// run serializes ticks so a slow job can never overlap the next one.
	run sync.Mutex

	mu        sync.Mutex
	state     State
	lastFired time.Time
	entryID   cron.EntryID
	started   bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets how often the clock is polled.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// NewScheduler creates a scheduler that runs job during each of sendHours,
// evaluated in loc.
func NewScheduler(loc *time.Location, sendHours []int, job Job, opts ...Option) (*Scheduler, error) {
	if loc == nil {
		return nil, fmt.Errorf("location is required")
	}
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}

	hours := make(map[int]bool, len(sendHours))
	for _, h := range sendHours {
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("invalid send hour %d (expected 0-23)", h)
		}
		hours[h] = true
	}

	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.SkipIfStillRunning(logger)),
		),
		location:  loc,
		interval:  time.Minute,
		sendHours: hours,
		job:       job,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval < time.Second {
		return nil, fmt.Errorf("poll interval must be at least 1s, got %s", s.interval)
	}
	return s, nil
}

// Tick checks the clock once and runs the job if now falls in a send hour
// that has not fired yet. It reports whether the job ran.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) bool {
	s.run.Lock()
	defer s.run.Unlock()

	local := now.In(s.location)
	slot := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, s.location)

	s.mu.Lock()
	s.state = Checking
	due := s.sendHours[local.Hour()] && !slot.Equal(s.lastFired)
	if !due {
		s.state = Idle
		s.mu.Unlock()
		return false
	}
	s.state = Sending
	s.mu.Unlock()

	slog.Info("send hour reached", "hour", local.Hour(), "time", local.Format(time.RFC3339))
	if err := s.job(ctx); err != nil {
		slog.Warn("scheduled send failed", "hour", local.Hour(), "error", err)
	}

	s.mu.Lock()
	s.lastFired = slot
	s.state = Idle
	s.mu.Unlock()

	return true
}

// State returns the current cycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastFiredHour returns the hour of the most recent send attempt, if any.
func (s *Scheduler) LastFiredHour() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFired.IsZero() {
		return 0, false
	}
	return s.lastFired.Hour(), true
}

// Start begins polling. Ticks run with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.entryID == 0 {
		entryID, err := s.cron.AddFunc(buildCronSpec(s.interval), func() {
			s.Tick(ctx, time.Now())
		})
		if err != nil {
			return fmt.Errorf("add cron job: %w", err)
		}
		s.entryID = entryID
	}

	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts polling. The returned context is done once a running tick finishes.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.started = false
	return s.cron.Stop()
}

func buildCronSpec(interval time.Duration) string {
	return "@every " + interval.String()
}
