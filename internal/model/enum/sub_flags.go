package enum

import "strings"

// SubFlags is a bit set of real-time channels for a symbol.
type SubFlags uint8

const (
	SubFlagQuote SubFlags = 1 << iota
	SubFlagDepth
	SubFlagBrokers
	SubFlagTrade

	SubFlagNone SubFlags = 0
	SubFlagAll           = SubFlagQuote | SubFlagDepth | SubFlagBrokers | SubFlagTrade
)

func (f SubFlags) Has(other SubFlags) bool {
	return f&other == other
}

func (f SubFlags) IsEmpty() bool {
	return f&SubFlagAll == 0
}

// Wire returns the channel names in the order the venue expects.
func (f SubFlags) Wire() []string {
	out := make([]string, 0, 4)
	if f.Has(SubFlagQuote) {
		out = append(out, "quote")
	}
	if f.Has(SubFlagDepth) {
		out = append(out, "depth")
	}
	if f.Has(SubFlagBrokers) {
		out = append(out, "brokers")
	}
	if f.Has(SubFlagTrade) {
		out = append(out, "trade")
	}
	return out
}

func (f SubFlags) String() string {
	return strings.Join(f.Wire(), "|")
}

// SubFlagsFromWire folds channel names back into a bit set; unknown names are ignored.
func SubFlagsFromWire(names []string) SubFlags {
	var f SubFlags
	for _, name := range names {
		switch name {
		case "quote":
			f |= SubFlagQuote
		case "depth":
			f |= SubFlagDepth
		case "brokers":
			f |= SubFlagBrokers
		case "trade":
			f |= SubFlagTrade
		}
	}
	return f
}
