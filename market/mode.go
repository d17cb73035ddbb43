package market

// Mode is the aggregate risk sentiment derived from the three quotes.
type Mode int

const (
	RiskOff Mode = iota
	RiskOn
)

func (m Mode) String() string {
	if m == RiskOn {
		return "risk-on"
	}
	return "risk-off"
}

// Evaluate scores one point each for BTC up, equities up and the currency
// index down. Two or more points is risk-on. Unavailable quotes score nothing.
func Evaluate(btc, equity, currency Result) Mode {
	score := 0
	if q, ok := btc.Get(); ok && q.PercentChange > 0 {
		score++
	}
	if q, ok := equity.Get(); ok && q.PercentChange > 0 {
		score++
	}
	if q, ok := currency.Get(); ok && q.PercentChange < 0 {
		score++
	}
	if score >= 2 {
		return RiskOn
	}
	return RiskOff
}
