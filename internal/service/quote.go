package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/sirupsen/logrus"
)

// QuoteClient reads the last price of a symbol from a JSON quote endpoint.
//
// The URL template carries a {symbol} placeholder, and path is a jsonpath
// expression locating the price in the response body, e.g. "$.quote.last".
type QuoteClient struct {
	client      *http.Client
	urlTemplate string
	path        string
	log         *logrus.Logger
}

func NewQuoteClient(client *http.Client, urlTemplate, path string, log *logrus.Logger) *QuoteClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &QuoteClient{client: client, urlTemplate: urlTemplate, path: path, log: log}
}

func (q *QuoteClient) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, fmt.Errorf("%w: empty symbol", ErrInvalidSymbol)
	}
	addr := strings.ReplaceAll(q.urlTemplate, "{symbol}", url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: building request for %s: %v", ErrFeedUnavailable, symbol, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := q.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFeedUnavailable, symbol, err)
	}
	defer resp.Body.Close()
	q.log.Debugf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", ErrInvalidSymbol, symbol)
	case resp.StatusCode >= 300:
		return 0, fmt.Errorf("%w: %s: status %s", ErrFeedUnavailable, symbol, resp.Status)
	}

	var jobj any
	if err := json.NewDecoder(resp.Body).Decode(&jobj); err != nil {
		return 0, fmt.Errorf("%w: decoding quote for %s: %v", ErrFeedUnavailable, symbol, err)
	}
	jval, err := jsonpath.Get(q.path, jobj)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: no value at %q", ErrInvalidSymbol, symbol, q.path)
	}
	// jsonpath may answer with a list of one element or with the element itself.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return 0, fmt.Errorf("%w: %s: no value at %q", ErrInvalidSymbol, symbol, q.path)
		}
		jval = jlist[0]
	}

	var price float64
	switch v := jval.(type) {
	case float64:
		price = v
	case string:
		// feeds report unknown tickers as "N/A" or "./."
		price, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q is not a price", ErrInvalidSymbol, symbol, v)
		}
	default:
		return 0, fmt.Errorf("%w: %s: unexpected %T at %q", ErrInvalidSymbol, symbol, jval, q.path)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: %s: price %v", ErrInvalidSymbol, symbol, price)
	}
	return price, nil
}
