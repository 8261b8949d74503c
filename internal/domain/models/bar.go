package models

import "time"

// Bar is a daily OHLCV record for one listed share. Prices are in rand
// (the provider's cent quotes are rescaled at the client boundary).
type Bar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Quote is a single intraday tick from the streaming feed.
type Quote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp int64 // unix ms
}

// Fundamentals is the provider's metrics map. Absent keys read as zero,
// which every consumer treats as neutral.
type Fundamentals map[string]float64

// Well-known fundamentals keys.
const (
	KeyPERatio       = "pe_ratio"
	KeyDividendYield = "dividend_yield"
)

// SanitizeBars returns bars ordered as given with non-positive closes
// forward-filled from the previous valid close. Leading invalid bars are
// dropped. The input slice is not modified.
func SanitizeBars(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	last := 0.0
	for _, b := range bars {
		if b.Close <= 0 {
			if last <= 0 {
				continue
			}
			b.Close = last
		}
		last = b.Close
		out = append(out, b)
	}
	return out
}

// Closes extracts the close column.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
