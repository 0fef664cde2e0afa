package carstore

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	lakh  = decimal.NewFromInt(100000)
	crore = decimal.NewFromInt(10000000)

	leadingNumber = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)`)
	leadingInt    = regexp.MustCompile(`^\s*([0-9]+)`)
	priceNoise    = strings.NewReplacer("Rs.", "", "₹", "", ",", "", " ", "", "\t", "", "\u00a0", "")
)

// ParsePrice converts an ex-showroom price label into rupees. "NA", "To be
// Announced" and anything unparseable report false.
func ParsePrice(text string) (decimal.Decimal, bool) {
	t := strings.TrimSpace(text)
	if t == "" || strings.EqualFold(t, "NA") || strings.EqualFold(t, "To be Announced") {
		return decimal.Zero, false
	}

	multiplier := decimal.NewFromInt(1)
	lower := strings.ToLower(t)
	switch {
	case strings.Contains(lower, "lakh"):
		multiplier = lakh
		t = t[:strings.Index(lower, "lakh")]
	case strings.Contains(lower, "crore"):
		multiplier = crore
		t = t[:strings.Index(lower, "crore")]
	}

	amount, err := decimal.NewFromString(priceNoise.Replace(t))
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount.Mul(multiplier), true
}

// MinPrice returns the smallest parseable price among labels.
func MinPrice(labels []string) (decimal.Decimal, bool) {
	var (
		lowest decimal.Decimal
		found  bool
	)
	for _, l := range labels {
		p, ok := ParsePrice(l)
		if !ok {
			continue
		}
		if !found || p.LessThan(lowest) {
			lowest, found = p, true
		}
	}
	return lowest, found
}

// parseHorsepower reads the leading number of a power label such as
// "118.35bhp@6000rpm".
func parseHorsepower(text string) *float64 {
	m := leadingNumber.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	hp, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &hp
}

// parseLeadingInt handles "5", "5 Seater" and "433 Litres".
func parseLeadingInt(text string) *int {
	m := leadingInt.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// parseAirbags accepts only a bare integer. ok is false when the text is
// present but malformed.
func parseAirbags(text string) (count *int, ok bool) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, false
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 0 {
		return nil, false
	}
	return &n, true
}

// parseNCAP turns "5 Star" into 5. Unrated labels give nil.
func parseNCAP(text string) *int {
	if !strings.Contains(strings.ToLower(text), "star") {
		return nil
	}
	return parseLeadingInt(text)
}

func isYes(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "yes")
}
