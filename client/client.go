// Package client issues flux queries against an InfluxDB 2.x server and
// exposes the decoded results as a stream of records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"influxstream/lib/flux"
	"influxstream/lib/timer"
	"influxstream/parser"
)

var (
	queriesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "influxstream_queries_total",
		Help: "Flux queries issued",
	})
	recordsStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "influxstream_query_records_total",
		Help: "Records decoded from query responses",
	})
	decodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "influxstream_decode_errors_total",
		Help: "Query streams terminated by a decode error",
	})
)

const queryPath = "/api/v2/query"

type Client struct {
	httpclient *http.Client
	url        *url.URL
	org        string
	token      string
	logger     *zap.Logger
}

// NewClient creates a client against the given server with the default HTTP
// client and no logging.
func NewClient(hostport, org, token string) (*Client, error) {
	return NewClientWith(hostport, org, token, http.DefaultClient, zap.NewNop())
}

// NewClientWith creates a client with a caller-supplied HTTP client (for
// timeouts, proxies, TLS) and logger. Nil arguments fall back to the
// defaults.
func NewClientWith(hostport, org, token string, httpclient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(hostport)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hostport [%s]: %w", hostport, err)
	}
	if httpclient == nil {
		httpclient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpclient: httpclient,
		url:        u,
		org:        org,
		token:      token,
		logger:     logger,
	}, nil
}

func (c *Client) queryURL() string {
	u := *c.url
	u.Path = queryPath
	q := u.Query()
	q.Set("org", c.org)
	u.RawQuery = q.Encode()
	return u.String()
}

// queryPayload is the request body for /api/v2/query. The dialect pins the
// response shape the parser expects: all three annotations, a header row,
// comma delimiting, RFC3339 datetimes.
type queryPayload struct {
	Query   string       `json:"query"`
	Type    string       `json:"type"`
	Dialect queryDialect `json:"dialect"`
}

type queryDialect struct {
	Annotations    []string `json:"annotations"`
	CommentPrefix  string   `json:"commentPrefix"`
	DateTimeFormat string   `json:"dateTimeFormat"`
	Delimiter      string   `json:"delimiter"`
	Header         bool     `json:"header"`
}

func newQueryPayload(query string) queryPayload {
	return queryPayload{
		Query: query,
		Type:  "flux",
		Dialect: queryDialect{
			Annotations:    []string{"datatype", "group", "default"},
			CommentPrefix:  "#",
			DateTimeFormat: "RFC3339",
			Delimiter:      ",",
			Header:         true,
		},
	}
}

// Query executes a flux query and returns a lazy, single-pass stream of
// records. The response body is decoded on demand, one record per Next call,
// so result sets of any size are processed in constant memory. The caller
// must either drain the stream or Close it.
func (c *Client) Query(ctx context.Context, query string) (*RecordStream, error) {
	defer timer.Start("query").Stop()
	payload, err := json.Marshal(newQueryPayload(query))
	if err != nil {
		return nil, fmt.Errorf("could not serialize query payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("could not build query request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/csv")

	queriesIssued.Inc()
	c.logger.Debug("issuing flux query", zap.String("org", c.org), zap.Int("query_bytes", len(query)))

	response, err := c.httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server error: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(response.Body)
		response.Body.Close()
		return nil, fmt.Errorf("%s: %s", http.StatusText(response.StatusCode), string(body))
	}

	return &RecordStream{
		parser: parser.NewParser(response.Body),
		body:   response.Body,
	}, nil
}

// QueryAll executes a flux query and collects every record into a slice.
//
// This loads the entire result set into memory and so gives up the bounded
// memory guarantee of Query; it exists for convenience with small results.
func (c *Client) QueryAll(ctx context.Context, query string) ([]flux.Record, error) {
	defer timer.Start("query_all").Stop()
	stream, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var out []flux.Record
	for {
		rec, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return out, nil
		}
		out = append(out, *rec)
	}
}

// RecordStream is a lazy, single-pass, non-restartable sequence of records
// decoded from one query response.
type RecordStream struct {
	parser *parser.Parser
	body   io.ReadCloser
	err    error
	done   bool
}

// Next returns the next record, (nil, nil) at clean end of stream, or the
// terminal decode error. Once the stream ends or fails the body is released
// and Next keeps returning the same outcome.
func (s *RecordStream) Next() (*flux.Record, error) {
	if s.done {
		return nil, s.err
	}
	rec, err := s.parser.Next()
	if err != nil {
		decodeErrors.Inc()
		s.err = err
		s.finish()
		return nil, err
	}
	if rec == nil {
		s.finish()
		return nil, nil
	}
	recordsStreamed.Inc()
	return rec, nil
}

// Close releases the underlying response body. It is safe to call at any
// point; abandoning a stream without draining it must go through Close.
func (s *RecordStream) Close() error {
	if s.done {
		return nil
	}
	s.finish()
	return nil
}

func (s *RecordStream) finish() {
	s.done = true
	s.body.Close()
}
