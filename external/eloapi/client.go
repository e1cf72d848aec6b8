package eloapi

import (
	"context"
	"errors"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/football-elo/internal/platform/logging"
	"github.com/riskibarqy/football-elo/internal/platform/resilience"
)

const defaultTimeout = 10 * time.Second

var ErrCircuitOpen = resilience.ErrCircuitOpen

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	CircuitBreaker resilience.Config
	Logger         *logging.Logger
}

// Client talks to the football-elo REST API over fasthttp.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *logging.Logger
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, crerr.New("elo api base url is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, crerr.Newf("elo api base url must be http(s), got %q", baseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.Breaker
	if cfg.CircuitBreaker.Enabled {
		breaker = resilience.NewBreaker(cfg.CircuitBreaker)
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "eloctl",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL: baseURL,
		timeout: timeout,
		breaker: breaker,
		logger:  logger.Named("eloapi"),
	}, nil
}

func (c *Client) ListPlayers(ctx context.Context) ([]Player, error) {
	var out []Player
	if err := c.do(ctx, fasthttp.MethodGet, "/api/players", nil, &out); err != nil {
		return nil, crerr.Wrap(err, "list players")
	}
	return out, nil
}

func (c *Client) AddPlayer(ctx context.Context, name string) (Player, error) {
	var out Player
	if err := c.do(ctx, fasthttp.MethodPost, "/api/players", addPlayerRequest{Name: name}, &out); err != nil {
		return Player{}, crerr.Wrapf(err, "add player %q", name)
	}
	return out, nil
}

func (c *Client) ListMatches(ctx context.Context) ([]Match, error) {
	var out []Match
	if err := c.do(ctx, fasthttp.MethodGet, "/api/matches", nil, &out); err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}
	return out, nil
}

func (c *Client) RecordMatch(ctx context.Context, in RecordMatchRequest) (Match, error) {
	var out Match
	if err := c.do(ctx, fasthttp.MethodPost, "/api/matches", in, &out); err != nil {
		return Match{}, crerr.Wrap(err, "record match")
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.breaker.Execute(func() error {
		return c.roundTrip(ctx, method, path, payload, out)
	}, countsAsFailure)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")

	if payload != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
			return crerr.Wrap(err, "encode request body")
		}
		req.Header.SetContentType("application/json")
		req.SetBody(buf.B)
	}

	started := time.Now()
	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		c.logger.WarnContext(ctx, "elo api request failed", "method", method, "path", path, "error", err)
		return &TransportError{Method: method, Path: path, Err: err}
	}

	status := resp.StatusCode()
	c.logger.DebugContext(ctx, "elo api request",
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	body := resp.Body()
	if status < 200 || status > 299 {
		transportErr := &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: status,
			Body:       truncate(body),
		}
		var envelope errorEnvelope
		if sonic.Unmarshal(body, &envelope) == nil {
			transportErr.Message = envelope.Error.Message
			transportErr.Status = envelope.Error.Status
		}
		return transportErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return crerr.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}

func countsAsFailure(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Temporary()
	}
	return false
}
