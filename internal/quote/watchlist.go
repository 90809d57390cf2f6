package quote

import (
	"context"
	"net/http"

	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/pkg/exception"
	"marketlink/pkg/rest"

	"github.com/yanun0323/errors"
)

const pathWatchlistGroups = "/v1/watchlist/groups"

// WatchlistUpdateMode says how UpdateWatchlistGroup treats the securities.
type WatchlistUpdateMode string

const (
	WatchlistAdd     WatchlistUpdateMode = "add"
	WatchlistRemove  WatchlistUpdateMode = "remove"
	WatchlistReplace WatchlistUpdateMode = "replace"
)

// UpdateWatchlistGroup changes a group. Empty Name keeps the name; nil
// Securities keeps the members.
type UpdateWatchlistGroup struct {
	ID         int64
	Name       string
	Securities []string
	Mode       WatchlistUpdateMode
}

func (q *QuoteContext) restClient() (*rest.Client, error) {
	if q.http == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "quote rest client")
	}
	return q.http, nil
}

func (q *QuoteContext) Watchlist(ctx context.Context) ([]model.WatchlistGroup, error) {
	c, err := q.restClient()
	if err != nil {
		return nil, err
	}
	list, err := rest.Do[codec.WatchlistGroupList](ctx, c.Request(http.MethodGet, pathWatchlistGroups))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

// CreateWatchlistGroup returns the id of the new group.
func (q *QuoteContext) CreateWatchlistGroup(ctx context.Context, name string, securities []string) (int64, error) {
	c, err := q.restClient()
	if err != nil {
		return 0, err
	}
	if name == "" {
		return 0, errors.Wrap(exception.ErrInvalidArgument, "empty watchlist group name")
	}
	resp, err := rest.Do[codec.WireCreateWatchlistGroup](ctx, c.Request(http.MethodPost, pathWatchlistGroups).
		Body(codec.CreateWatchlistGroupBody{Name: name, Securities: securities}))
	if err != nil {
		return 0, err
	}
	return resp.Model()
}

func (q *QuoteContext) UpdateWatchlistGroup(ctx context.Context, req UpdateWatchlistGroup) error {
	c, err := q.restClient()
	if err != nil {
		return err
	}
	_, err = rest.Do[rest.Empty](ctx, c.Request(http.MethodPut, pathWatchlistGroups).
		Body(codec.UpdateWatchlistGroupBody{
			ID:         req.ID,
			Name:       req.Name,
			Securities: req.Securities,
			Mode:       string(req.Mode),
		}))
	return err
}

// DeleteWatchlistGroup removes a group. With purge its securities are also
// removed from every other group.
func (q *QuoteContext) DeleteWatchlistGroup(ctx context.Context, id int64, purge bool) error {
	c, err := q.restClient()
	if err != nil {
		return err
	}
	_, err = rest.Do[rest.Empty](ctx, c.Request(http.MethodDelete, pathWatchlistGroups).
		QueryParams(codec.DeleteWatchlistGroupQuery{ID: id, Purge: purge}))
	return err
}
