package codec

import (
	"strconv"

	"marketlink/internal/model"
)

type WireWatchlistSecurity struct {
	Symbol       string `json:"symbol"`
	Market       string `json:"market"`
	Name         string `json:"name"`
	WatchedPrice string `json:"watched_price"`
	WatchedAt    string `json:"watched_at"`
}

type WireWatchlistGroup struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Securities []WireWatchlistSecurity `json:"securities"`
}

type WatchlistGroupList struct {
	Groups []WireWatchlistGroup `json:"groups"`
}

func (l WatchlistGroupList) Model() ([]model.WatchlistGroup, error) {
	return convertAll(l.Groups, func(g WireWatchlistGroup) (model.WatchlistGroup, error) {
		id, err := strconv.ParseInt(g.ID, 10, 64)
		if err != nil {
			return model.WatchlistGroup{}, parseErr("id", g.ID, err)
		}
		securities, err := convertAll(g.Securities, func(w WireWatchlistSecurity) (model.WatchlistSecurity, error) {
			market, err := Market("market", w.Market)
			if err != nil {
				return model.WatchlistSecurity{}, err
			}
			at, err := OptionalTimestamp("watched_at", w.WatchedAt)
			if err != nil {
				return model.WatchlistSecurity{}, err
			}
			return model.WatchlistSecurity{
				Symbol:       w.Symbol,
				Market:       market,
				Name:         w.Name,
				WatchedPrice: Decimal(w.WatchedPrice),
				WatchedAt:    at,
			}, nil
		})
		if err != nil {
			return model.WatchlistGroup{}, err
		}
		return model.WatchlistGroup{ID: id, Name: g.Name, Securities: securities}, nil
	})
}

type CreateWatchlistGroupBody struct {
	Name       string   `json:"name"`
	Securities []string `json:"securities,omitempty"`
}

type WireCreateWatchlistGroup struct {
	ID string `json:"id"`
}

func (w WireCreateWatchlistGroup) Model() (int64, error) {
	id, err := strconv.ParseInt(w.ID, 10, 64)
	if err != nil {
		return 0, parseErr("id", w.ID, err)
	}
	return id, nil
}

type UpdateWatchlistGroupBody struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name,omitempty"`
	Securities []string `json:"securities,omitempty"`
	Mode       string   `json:"mode,omitempty"`
}

type DeleteWatchlistGroupQuery struct {
	ID    int64 `url:"id"`
	Purge bool  `url:"purge,omitempty"`
}
