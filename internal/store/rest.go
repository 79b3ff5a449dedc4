package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/vc-data/internal/resilience"
)

// DefaultPageSize is the PostgREST default max-rows.
const DefaultPageSize = 1000

// RESTOption configures a RESTStore.
type RESTOption func(*RESTStore)

// WithPageSize sets the number of rows requested per page.
func WithPageSize(n int) RESTOption {
	return func(s *RESTStore) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRequestRate caps outgoing requests per second. A non-positive value
// disables throttling.
func WithRequestRate(rps float64) RESTOption {
	return func(s *RESTStore) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// WithOrder sets the columns every page is sorted by. Without a total order
// PostgREST may return rows in a different order for each page, so offset
// paging can skip or repeat rows.
func WithOrder(columns ...string) RESTOption {
	return func(s *RESTStore) {
		s.order = s.order[:0]
		for _, c := range columns {
			if c = strings.TrimSpace(c); c != "" {
				s.order = append(s.order, c)
			}
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) RESTOption {
	return func(s *RESTStore) {
		s.http = hc
	}
}

// RESTStore reads investor rows through the Supabase PostgREST endpoint.
type RESTStore struct {
	baseURL  string
	apiKey   string
	pageSize int
	order    []string
	limiter  *rate.Limiter
	http     *http.Client
}

// NewREST creates a store for the project at baseURL (for example
// https://xyz.supabase.co) authenticated with apiKey.
func NewREST(baseURL, apiKey string, opts ...RESTOption) *RESTStore {
	s := &RESTStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		pageSize: DefaultPageSize,
		limiter:  rate.NewLimiter(10, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll implements RecordStore.
func (s *RESTStore) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return s.FetchFiltered(ctx, table, nil)
}

// FetchFiltered implements RecordStore with ilike filters, reading pages
// until a short page is returned.
func (s *RESTStore) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	var out []map[string]string
	for offset := 0; ; offset += s.pageSize {
		page, err := s.fetchPage(ctx, table, p, offset)
		if err != nil {
			return nil, fetchErr("rest", table, err)
		}
		out = append(out, page...)
		if len(page) < s.pageSize {
			return out, nil
		}
	}
}

// Close implements RecordStore.
func (s *RESTStore) Close() error {
	s.http.CloseIdleConnections()
	return nil
}

func (s *RESTStore) pageURL(table string, p Predicate, offset int) string {
	q := url.Values{}
	q.Set("select", "*")
	for _, col := range p.sortedColumns() {
		q.Set(col, "ilike.*"+p[col]+"*")
	}
	if len(s.order) > 0 {
		keys := make([]string, len(s.order))
		for i, c := range s.order {
			keys[i] = `"` + c + `".asc`
		}
		q.Set("order", strings.Join(keys, ","))
	}
	q.Set("limit", strconv.Itoa(s.pageSize))
	q.Set("offset", strconv.Itoa(offset))
	return s.baseURL + "/rest/v1/" + url.PathEscape(table) + "?" + q.Encode()
}

func (s *RESTStore) fetchPage(ctx context.Context, table string, p Predicate, offset int) ([]map[string]string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rest: rate limit")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL(table, p, offset), nil)
	if err != nil {
		return nil, eris.Wrap(err, "rest: create request")
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "rest: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "rest: read body")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		err := eris.Errorf("rest: status %d: %s", resp.StatusCode, truncateBody(body))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, eris.Wrap(err, "rest: decode rows")
	}
	rows := make([]map[string]string, 0, len(raw))
	for _, r := range raw {
		row := make(map[string]string, len(r))
		for k, v := range r {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func truncateBody(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
