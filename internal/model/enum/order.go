package enum

import "fmt"

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

var orderSideNames = [...]string{OrderSideBuy: "Buy", OrderSideSell: "Sell"}

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	if !s.IsAvailable() {
		return ""
	}
	return orderSideNames[s]
}

func (s OrderSide) MarshalText() ([]byte, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("invalid order side: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *OrderSide) UnmarshalText(b []byte) error {
	return parseName(orderSideNames[:], string(b), "order side", (*uint8)(s))
}

// OrderType LO, ELO, MO, AO, ALO, ODD, LIT, MIT, TSLPAMT, TSLPPCT, SLO
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeLO
	OrderTypeELO
	OrderTypeMO
	OrderTypeAO
	OrderTypeALO
	OrderTypeODD
	OrderTypeLIT
	OrderTypeMIT
	OrderTypeTSLPAMT
	OrderTypeTSLPPCT
	OrderTypeSLO
	_order_type_end
)

var orderTypeNames = [...]string{
	OrderTypeLO:      "LO",
	OrderTypeELO:     "ELO",
	OrderTypeMO:      "MO",
	OrderTypeAO:      "AO",
	OrderTypeALO:     "ALO",
	OrderTypeODD:     "ODD",
	OrderTypeLIT:     "LIT",
	OrderTypeMIT:     "MIT",
	OrderTypeTSLPAMT: "TSLPAMT",
	OrderTypeTSLPPCT: "TSLPPCT",
	OrderTypeSLO:     "SLO",
}

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

// HasPrice reports whether the type requires a submitted price.
func (t OrderType) HasPrice() bool {
	switch t {
	case OrderTypeLO, OrderTypeELO, OrderTypeALO, OrderTypeODD, OrderTypeLIT, OrderTypeSLO:
		return true
	default:
		return false
	}
}

// HasTrigger reports whether the type requires a trigger price.
func (t OrderType) HasTrigger() bool {
	return t == OrderTypeLIT || t == OrderTypeMIT
}

func (t OrderType) String() string {
	if !t.IsAvailable() {
		return ""
	}
	return orderTypeNames[t]
}

func (t OrderType) MarshalText() ([]byte, error) {
	if !t.IsAvailable() {
		return nil, fmt.Errorf("invalid order type: %d", t)
	}
	return []byte(t.String()), nil
}

func (t *OrderType) UnmarshalText(b []byte) error {
	return parseName(orderTypeNames[:], string(b), "order type", (*uint8)(t))
}

// OrderStatus not reported, new, partial filled, filled, canceled, rejected, expired ...
type OrderStatus uint8

const (
	_order_status_beg OrderStatus = iota
	OrderStatusNotReported
	OrderStatusReplacedNotReported
	OrderStatusProtectedNotReported
	OrderStatusVarietiesNotReported
	OrderStatusWaitToNew
	OrderStatusNew
	OrderStatusWaitToReplace
	OrderStatusPendingReplace
	OrderStatusReplaced
	OrderStatusPartialFilled
	OrderStatusFilled
	OrderStatusWaitToCancel
	OrderStatusPendingCancel
	OrderStatusRejected
	OrderStatusCanceled
	OrderStatusExpired
	OrderStatusPartialWithdrawal
	_order_status_end
)

var orderStatusNames = [...]string{
	OrderStatusNotReported:          "NotReported",
	OrderStatusReplacedNotReported:  "ReplacedNotReported",
	OrderStatusProtectedNotReported: "ProtectedNotReported",
	OrderStatusVarietiesNotReported: "VarietiesNotReported",
	OrderStatusWaitToNew:            "WaitToNew",
	OrderStatusNew:                  "NewStatus",
	OrderStatusWaitToReplace:        "WaitToReplace",
	OrderStatusPendingReplace:       "PendingReplaceStatus",
	OrderStatusReplaced:             "ReplacedStatus",
	OrderStatusPartialFilled:        "PartialFilledStatus",
	OrderStatusFilled:               "FilledStatus",
	OrderStatusWaitToCancel:         "WaitToCancel",
	OrderStatusPendingCancel:        "PendingCancelStatus",
	OrderStatusRejected:             "RejectedStatus",
	OrderStatusCanceled:             "CanceledStatus",
	OrderStatusExpired:              "ExpiredStatus",
	OrderStatusPartialWithdrawal:    "PartialWithdrawal",
}

func (s OrderStatus) IsAvailable() bool {
	return s > _order_status_beg && s < _order_status_end
}

// IsFinal reports whether no further transition is expected.
func (s OrderStatus) IsFinal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusRejected, OrderStatusCanceled, OrderStatusExpired, OrderStatusPartialWithdrawal:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	if !s.IsAvailable() {
		return ""
	}
	return orderStatusNames[s]
}

func (s OrderStatus) MarshalText() ([]byte, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("invalid order status: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *OrderStatus) UnmarshalText(b []byte) error {
	return parseName(orderStatusNames[:], string(b), "order status", (*uint8)(s))
}

// TimeInForce Day, GTC, GTD
type TimeInForce uint8

const (
	_time_in_force_beg TimeInForce = iota
	TimeInForceDay
	TimeInForceGTC
	TimeInForceGTD
	_time_in_force_end
)

var timeInForceNames = [...]string{
	TimeInForceDay: "Day",
	TimeInForceGTC: "GTC",
	TimeInForceGTD: "GTD",
}

func (t TimeInForce) IsAvailable() bool {
	return t > _time_in_force_beg && t < _time_in_force_end
}

func (t TimeInForce) String() string {
	if !t.IsAvailable() {
		return ""
	}
	return timeInForceNames[t]
}

func (t TimeInForce) MarshalText() ([]byte, error) {
	if !t.IsAvailable() {
		return nil, fmt.Errorf("invalid time in force: %d", t)
	}
	return []byte(t.String()), nil
}

func (t *TimeInForce) UnmarshalText(b []byte) error {
	return parseName(timeInForceNames[:], string(b), "time in force", (*uint8)(t))
}

// OutsideRTH RTH only, any time, overnight
type OutsideRTH uint8

const (
	OutsideRTHUnknown OutsideRTH = iota
	OutsideRTHOnly
	OutsideRTHAnyTime
	OutsideRTHOvernight
)

func (o OutsideRTH) String() string {
	switch o {
	case OutsideRTHOnly:
		return "RTH_ONLY"
	case OutsideRTHAnyTime:
		return "ANY_TIME"
	case OutsideRTHOvernight:
		return "OVERNIGHT"
	default:
		return ""
	}
}

func (o OutsideRTH) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// TopicType is a private push topic on the trade stream.
type TopicType uint8

const (
	_topic_type_beg TopicType = iota
	TopicTypePrivate
	_topic_type_end
)

func (t TopicType) IsAvailable() bool {
	return t > _topic_type_beg && t < _topic_type_end
}

func (t TopicType) String() string {
	if t == TopicTypePrivate {
		return "private"
	}
	return ""
}

func parseName(names []string, s, what string, dst *uint8) error {
	for i, name := range names {
		if i != 0 && name == s {
			*dst = uint8(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s: %q", what, s)
}
