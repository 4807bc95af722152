package types

import "time"

// SymbolType classifies what kind of instrument a symbol refers to. The bar
// provider uses it to locate the right data set.
type SymbolType string

const (
	SymbolStock SymbolType = "stock"
	SymbolETF   SymbolType = "etf"
	SymbolIndex SymbolType = "index"
)

// Bar is one trading day's OHLCV record for a single symbol. Amount is the
// day's turnover value in currency. Bars are immutable once loaded; within one
// symbol's series dates are strictly increasing and unique.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
}
