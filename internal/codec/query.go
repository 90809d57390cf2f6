package codec

import (
	"net/url"

	"github.com/google/go-querystring/query"
	"github.com/yanun0323/errors"
)

// EncodeQuery renders a struct tagged with `url:"name,omitempty"` as a query
// string. Slices emit the name once per element in order; spaces become '+'.
func EncodeQuery(v any) (string, error) {
	values, err := QueryValues(v)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}

// QueryValues is EncodeQuery before rendering. A nil v yields no values.
func QueryValues(v any) (url.Values, error) {
	if v == nil {
		return url.Values{}, nil
	}
	values, err := query.Values(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode query")
	}
	return values, nil
}
