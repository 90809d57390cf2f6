package exception

import "errors"

var (
	ErrOrderInvalidRequest  = errors.New("order: invalid request")
	ErrOrderUnsupportedType = errors.New("order: unsupported type")
	ErrOrderEmptyOrderID    = errors.New("order: empty order id")
)

var (
	ErrQuoteInvalidSymbol = errors.New("quote: invalid symbol")
	ErrQuoteInvalidPeriod = errors.New("quote: invalid period")
)
