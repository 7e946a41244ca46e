package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeader = "X-Request-Id"

	maxErrorBody = 512
)

// Config - параметры подключения к REST API
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // 0 - без ограничения
	Burst         int
}

// Client - клиент REST API агендамента
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenStore
	logger     *zap.Logger
}

// NewClient создаёт клиента API. tokens может быть nil.
func NewClient(cfg Config, tokens TokenStore, logger *zap.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: limiter,
		tokens:  tokens,
		logger:  logger,
	}
}

// token ищет токен сначала в контексте, затем в локальном хранилище, если оно разрешено
func (c *Client) token(ctx context.Context) (string, error) {
	if token, ok := TokenFromContext(ctx); ok {
		return token, nil
	}
	if c.tokens == nil || !StoredTokenAllowed(ctx) {
		return "", nil
	}
	return c.tokens.Token(ctx)
}

// getList выполняет GET списка. Возвращает false, если запрос не выполнялся
// (нет токена) или сервер ответил 404 при notFoundEmpty.
func (c *Client) getList(ctx context.Context, op, path string, query url.Values, out any, notFoundEmpty bool) (bool, error) {
	token, err := c.token(ctx)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		c.logger.Debug("No auth token, treating as empty list", zap.String("op", op))
		return false, nil
	}

	err = c.do(ctx, op, token, http.MethodGet, path, query, nil, out)
	if notFoundEmpty && IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// mutate выполняет POST/PUT/DELETE; без токена возвращает ErrNoToken
func (c *Client) mutate(ctx context.Context, op, method, path string, body, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		return fmt.Errorf("%s: %w", op, ErrNoToken)
	}
	return c.do(ctx, op, token, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, op, token, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, query, token, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get(RequestIDHeader)),
		zap.Duration("duration", time.Since(start)),
	)

	if err := statusError(op, resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Op: op}
	case resp.StatusCode >= 500:
		return &ServerError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	default:
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}

// newRequest создаёт запрос с авторизацией
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, token string, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func companyQuery(companyID int64) url.Values {
	return url.Values{"empresaId": []string{strconv.FormatInt(companyID, 10)}}
}

func companyDateQuery(companyID int64, date civil.Date) url.Values {
	q := companyQuery(companyID)
	q.Set("data", date.String())
	return q
}
