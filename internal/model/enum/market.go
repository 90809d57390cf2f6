package enum

// Market HK, US, CN, SG
type Market uint8

const (
	_market_beg Market = iota
	MarketHK
	MarketUS
	MarketCN
	MarketSG
	_market_end
)

func (m Market) IsAvailable() bool {
	return m > _market_beg && m < _market_end
}

func (m Market) String() string {
	switch m {
	case MarketHK:
		return "HK"
	case MarketUS:
		return "US"
	case MarketCN:
		return "CN"
	case MarketSG:
		return "SG"
	default:
		return ""
	}
}

// ParseMarket maps a wire market code to Market. Unknown codes return false.
func ParseMarket(s string) (Market, bool) {
	switch s {
	case "HK":
		return MarketHK, true
	case "US":
		return MarketUS, true
	case "CN", "SH", "SZ":
		return MarketCN, true
	case "SG":
		return MarketSG, true
	default:
		return 0, false
	}
}

// MarketOfSymbol returns the market of a "CODE.MARKET" symbol.
func MarketOfSymbol(symbol string) (Market, bool) {
	for i := len(symbol) - 1; i >= 0; i-- {
		if symbol[i] == '.' {
			return ParseMarket(symbol[i+1:])
		}
	}
	return 0, false
}
