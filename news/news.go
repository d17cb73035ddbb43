package news

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultPerFeed = 3
	defaultMax     = 5
)

// Headline is a single feed entry title.
type Headline struct {
	Title string
}

// Fetcher reads headlines from a fixed list of syndication feeds.
type Fetcher struct {
	parser  *gofeed.Parser
	feeds   []string
	perFeed int
	max     int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.parser.Client.Timeout = d
	}
}

// WithPerFeedLimit sets how many entries are taken from each feed.
func WithPerFeedLimit(n int) Option {
	return func(f *Fetcher) {
		f.perFeed = n
	}
}

// WithMaxHeadlines caps the combined headline count.
func WithMaxHeadlines(n int) Option {
	return func(f *Fetcher) {
		f.max = n
	}
}

// NewFetcher creates a fetcher over the given feed URLs, polled in order.
func NewFetcher(feeds []string, opts ...Option) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}
	parser.UserAgent = "Mozilla/5.0 (compatible; MacroRadar/1.0)"

	f := &Fetcher{
		parser:  parser,
		feeds:   append([]string(nil), feeds...),
		perFeed: defaultPerFeed,
		max:     defaultMax,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Headlines takes the first entries of each feed in configured order and
// truncates the combined list. A feed that fails to load contributes nothing.
func (f *Fetcher) Headlines(ctx context.Context) []Headline {
	var out []Headline
	for _, u := range f.feeds {
		if len(out) >= f.max {
			break
		}
		out = append(out, f.fromFeed(ctx, u)...)
	}
	if len(out) > f.max {
		out = out[:f.max]
	}
	return out
}

func (f *Fetcher) fromFeed(ctx context.Context, u string) []Headline {
	feed, err := f.parser.ParseURLWithContext(u, ctx)
	if err != nil {
		slog.Warn("feed unavailable", "url", u, "error", err)
		return nil
	}

	var out []Headline
	for _, item := range feed.Items {
		if len(out) >= f.perFeed {
			break
		}
		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" {
			continue
		}
		out = append(out, Headline{Title: title})
	}
	return out
}
