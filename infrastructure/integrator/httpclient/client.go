package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/internal/config"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultBaseWait = 200 * time.Millisecond
	defaultMaxWait  = 5 * time.Second
)

// Response é a resposta HTTP já lida, para que o corpo seja fechado em toda tentativa
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RequestBuilder monta uma nova requisição a cada tentativa
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// Client executa requisições com política de retry para falhas de rede, 5xx e 429
type Client struct {
	http     *http.Client
	executor failsafe.Executor[*Response]
}

func New(cfg config.HTTPClient) *Client {
	return NewWithBackoff(cfg, defaultBaseWait, defaultMaxWait)
}

func NewWithBackoff(cfg config.HTTPClient, baseWait, maxWait time.Duration) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	maxRetries := cfg.RetryMax
	if maxRetries < 0 {
		maxRetries = 0
	}

	retry := retrypolicy.NewBuilder[*Response]().
		WithBackoff(baseWait, maxWait).
		WithMaxRetries(maxRetries).
		HandleIf(ShouldRetry).
		OnRetry(func(e failsafe.ExecutionEvent[*Response]) {
			logrus.WithFields(logrus.Fields{
				"attempt": e.Attempts(),
			}).Warn("Requisição HTTP falhou, tentando novamente")
		}).
		ReturnLastFailure().
		Build()

	return &Client{
		http:     &http.Client{Timeout: timeout},
		executor: failsafe.With[*Response](retry),
	}
}

// ShouldRetry indica se a tentativa deve ser repetida
func ShouldRetry(resp *Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return true
	}

	switch resp.StatusCode {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests:
		return true
	default:
		return false
	}
}

// Do executa a requisição. Respostas com status de erro retornam sem erro; cabe ao chamador interpretá-las.
func (c *Client) Do(ctx context.Context, build RequestBuilder) (*Response, error) {
	resp, err := c.executor.WithContext(ctx).Get(func() (*Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler resposta: %w", err)
		}

		return &Response{StatusCode: httpResp.StatusCode, Body: body}, nil
	})
	if resp != nil {
		return resp, nil
	}

	return nil, err
}
