// Package classify assigns a headline to a fixed market category by keyword.
package classify

import "strings"

// Category is a headline topic bucket.
type Category int

const (
	CryptoMarket Category = iota
	MonetaryPolicy
	InstitutionalETF
	TechMarket
	DollarBonds
	Geopolitics
)

var labels = map[Category]string{
	CryptoMarket:     "Crypto market",
	MonetaryPolicy:   "Monetary policy",
	InstitutionalETF: "Institutional / ETF",
	TechMarket:       "Tech / Nasdaq",
	DollarBonds:      "Dollar / bonds",
	Geopolitics:      "Geopolitics",
}

var emojis = map[Category]string{
	CryptoMarket:     "🪙",
	MonetaryPolicy:   "🏦",
	InstitutionalETF: "🏛",
	TechMarket:       "💻",
	DollarBonds:      "💵",
	Geopolitics:      "🌍",
}

func (c Category) String() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return labels[CryptoMarket]
}

// Emoji returns the marker shown next to the category in messages.
func (c Category) Emoji() string {
	if e, ok := emojis[c]; ok {
		return e
	}
	return emojis[CryptoMarket]
}

type rule struct {
	keywords []string
	category Category
}

// Order matters: several keywords can appear in one headline and the first
// matching rule wins.
var rules = []rule{
	{[]string{"rate", "inflation"}, MonetaryPolicy},
	{[]string{"etf"}, InstitutionalETF},
	{[]string{"nasdaq", "tech"}, TechMarket},
	{[]string{"dollar", "yield"}, DollarBonds},
	{[]string{"war", "sanction"}, Geopolitics},
}

// Classify returns the category of a headline, CryptoMarket when nothing matches.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CryptoMarket
}
