package models

import "strings"

// ParseTickerList extracts ticker symbols from free-form comma-separated
// input such as "aapl, MSFT,, googl". Symbols are trimmed, upper-cased and
// de-duplicated while preserving first-seen order.
func ParseTickerList(input string) []string {
	parts := strings.Split(input, ",")

	var tickers []string
	seen := make(map[string]struct{}, len(parts))

	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		tickers = append(tickers, symbol)
	}

	return tickers
}
