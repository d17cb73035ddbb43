package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"macro-radar-bot/classify"
	"macro-radar-bot/market"
	"macro-radar-bot/news"
)

// QuoteSource fetches market quotes.
type QuoteSource interface {
	Crypto(ctx context.Context, symbol string) market.Result
	Indices(ctx context.Context, symbols ...string) map[string]market.Result
}

// HeadlineSource fetches news headlines.
type HeadlineSource interface {
	Headlines(ctx context.Context) []news.Headline
}

// Translator translates text, returning the input when it cannot.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, text string, html bool) (int64, error)
}

// Runner fetches, composes and delivers one digest per Run.
type Runner struct {
	quotes         QuoteSource
	headlines      HeadlineSource
	translator     Translator
	sender         Sender
	btcSymbol      string
	equitySymbol   string
	currencySymbol string
	location       *time.Location
	now            func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithSymbols sets the BTC, equity index and currency index symbols.
func WithSymbols(btc, equity, currency string) Option {
	return func(r *Runner) {
		r.btcSymbol = btc
		r.equitySymbol = equity
		r.currencySymbol = currency
	}
}

// WithLocation sets the zone the timestamp line is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) {
		r.location = loc
	}
}

// WithTranslator enables headline translation.
func WithTranslator(t Translator) Option {
	return func(r *Runner) {
		r.translator = t
	}
}

// WithClock overrides time.Now (for testing).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a new digest runner.
func NewRunner(quotes QuoteSource, headlines HeadlineSource, sender Sender, opts ...Option) *Runner {
	r := &Runner{
		quotes:         quotes,
		headlines:      headlines,
		sender:         sender,
		btcSymbol:      "BTCUSDT",
		equitySymbol:   "^IXIC",
		currencySymbol: "DX-Y.NYB",
		location:       time.FixedZone("UTC+5", 5*3600),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collect gathers quotes and headlines into a Report. It never fails: every
// source degrades to an empty or unavailable value on its own.
func (r *Runner) Collect(ctx context.Context) *Report {
	btc := r.quotes.Crypto(ctx, r.btcSymbol)
	indices := r.quotes.Indices(ctx, r.equitySymbol, r.currencySymbol)
	equity := indices[r.equitySymbol]
	currency := indices[r.currencySymbol]

	var items []Item
	for _, h := range r.headlines.Headlines(ctx) {
		item := Item{
			Title:    h.Title,
			Category: classify.Classify(h.Title),
		}
		if r.translator != nil {
			item.Translation = r.translator.Translate(ctx, h.Title)
		}
		items = append(items, item)
	}

	return &Report{
		Quotes: []QuoteLine{
			{Icon: "₿", Label: "BTC", Prefix: "$", Result: btc},
			{Icon: "📈", Label: "Nasdaq", Result: equity},
			{Icon: "💵", Label: "DXY", Result: currency},
		},
		Mode:  market.Evaluate(btc, equity, currency),
		Items: items,
		At:    r.now().In(r.location),
	}
}

// Run composes a digest and sends it once. A delivery error is returned for
// the caller to log; it is never retried.
func (r *Runner) Run(ctx context.Context) error {
	report := r.Collect(ctx)
	text := Format(report)

	slog.Info("sending digest", "headlines", len(report.Items), "mode", report.Mode.String())

	msgID, err := r.sender.Send(ctx, text, true)
	if err != nil {
		return fmt.Errorf("deliver digest: %w", err)
	}

	slog.Info("digest sent", "message_id", msgID)
	return nil
}
