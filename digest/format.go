package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"macro-radar-bot/classify"
	"macro-radar-bot/market"
)

const (
	title     = "📡 <b>Macro Radar</b>"
	separator = "━━━━━━━━━━━━━━━"
)

// QuoteLine is one instrument shown in the market block.
type QuoteLine struct {
	Icon   string
	Label  string
	Prefix string
	Result market.Result
}

// Item is a headline with its category and optional translation.
type Item struct {
	Title       string
	Category    classify.Category
	Translation string
}

// Report is everything a digest message shows.
type Report struct {
	Quotes []QuoteLine
	Mode   market.Mode
	Items  []Item
	At     time.Time
}

// Format renders a report as an HTML Telegram message. Unavailable quotes are
// left out entirely; the title and timestamp lines are always present.
func Format(r *Report) string {
	var sb strings.Builder

	sb.WriteString(title)
	sb.WriteString("\n\n")

	for _, q := range r.Quotes {
		if line, ok := formatQuote(q); ok {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(fmt.Sprintf("🧭 Market mode: <b>%s</b>\n", modeLabel(r.Mode)))
	sb.WriteString(separator)
	sb.WriteString("\n")

	if len(r.Items) == 0 {
		sb.WriteString("📰 <i>No fresh headlines</i>\n")
	}
	for _, item := range r.Items {
		sb.WriteString(formatItem(item))
	}

	sb.WriteString(separator)
	sb.WriteString("\n")
	sb.WriteString(formatTimestamp(r.At))

	return sb.String()
}

func formatQuote(q QuoteLine) (string, bool) {
	quote, ok := q.Result.Get()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s %s: %s%s %s %s",
		q.Icon,
		html.EscapeString(q.Label),
		q.Prefix,
		formatPrice(quote.Price),
		direction(quote.PercentChange),
		formatPercent(quote.PercentChange),
	), true
}

func formatItem(item Item) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <i>%s</i>\n", item.Category.Emoji(), item.Category))
	sb.WriteString(html.EscapeString(item.Title))
	sb.WriteString("\n")
	if t := strings.TrimSpace(item.Translation); t != "" && !strings.EqualFold(t, strings.TrimSpace(item.Title)) {
		sb.WriteString("↳ ")
		sb.WriteString(html.EscapeString(t))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatTimestamp(at time.Time) string {
	name, _ := at.Zone()
	return fmt.Sprintf("🕒 %s (%s)", at.Format("02.01.2006 15:04"), name)
}

func modeLabel(m market.Mode) string {
	if m == market.RiskOn {
		return "🟢 Risk-On"
	}
	return "🔴 Risk-Off"
}

func direction(pct float64) string {
	switch {
	case pct > 0:
		return "▲"
	case pct < 0:
		return "▼"
	default:
		return "▬"
	}
}

func formatPercent(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// formatPrice renders a price with two decimals and comma thousands separators.
func formatPrice(price float64) string {
	s := decimal.NewFromFloat(price).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}
