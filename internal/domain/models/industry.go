package models

import "sort"

// Industries maps each built-in industry to its benchmark peer tickers.
// These feed the /industries endpoint and the scheduled cache warmer.
var Industries = map[string][]string{
	"Manufacturing":      {"F", "GM", "CAT", "DE", "BA", "GE", "MMM", "HON"},
	"Retail":             {"WMT", "TGT", "COST", "HD", "LOW", "AMZN", "EBAY"},
	"Technology":         {"AAPL", "MSFT", "GOOGL", "META", "NVDA", "AMD", "INTC", "ORCL"},
	"Healthcare":         {"JNJ", "UNH", "PFE", "ABBV", "TMO", "ABT", "DHR", "BMY"},
	"Food & Beverage":    {"KO", "PEP", "MCD", "SBUX", "KHC", "GIS", "K", "HSY"},
	"Transportation":     {"UPS", "FDX", "UAL", "DAL", "AAL", "LUV", "NSC", "UNP"},
	"Energy":             {"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "VLO"},
	"Finance":            {"JPM", "BAC", "WFC", "C", "GS", "MS", "BLK", "SCHW"},
	"Consumer Goods":     {"PG", "KMB", "CL", "EL", "NKE", "LULU", "TJX", "ROST"},
	"Automotive":         {"TSLA", "F", "GM", "TM", "HMC", "STLA", "RIVN"},
	"Telecommunications": {"T", "VZ", "TMUS", "CMCSA", "DIS", "NFLX"},
}

// IndustryNames returns the known industries in alphabetical order.
func IndustryNames() []string {
	names := make([]string, 0, len(Industries))
	for name := range Industries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndustryTickers returns the peer tickers for an industry and whether the
// industry is known.
func IndustryTickers(name string) ([]string, bool) {
	tickers, ok := Industries[name]
	return tickers, ok
}
