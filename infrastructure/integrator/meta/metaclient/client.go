package metaclient

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/httpclient"
	metadomain "github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-budget-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrTokenExpired = errors.New("meta access token expired")
	ErrEmptyToken   = errors.New("token de acesso não pode ser vazio")
)

// APIError é uma resposta de erro da Graph API
type APIError struct {
	StatusCode int
	Response   *metadomain.ErrorResponse
	Body       string
}

func (e *APIError) Error() string {
	if e.Response != nil {
		return fmt.Sprintf("erro na API do Meta. Status: %d, Código: %d, Mensagem: %s",
			e.StatusCode, e.Response.Error.Code, e.Response.Error.Message)
	}
	return fmt.Sprintf("erro na API do Meta. Status: %d, Corpo: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Response != nil && e.Response.IsTokenExpired() {
		return ErrTokenExpired
	}
	return nil
}

type Client interface {
	ListAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error)
	GetAdAccount(ctx context.Context, accountID, accessToken string) (*metadomain.AdAccount, error)
	ExchangeToken(ctx context.Context, shortLivedToken string) (*TokenResponse, error)
}

type MetaClient struct {
	cfg  config.Meta
	http *httpclient.Client
}

func NewClient(cfg config.Meta, httpClient *httpclient.Client) Client {
	return &MetaClient{
		cfg:  cfg,
		http: httpClient,
	}
}

// getURL faz um GET na URL completa e trata a resposta da Graph API
func (c *MetaClient) getURL(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição para a API do Meta")
		return nil, err
	}

	return HandleResponse(resp)
}

func (c *MetaClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.getURL(ctx, fmt.Sprintf("%s/%s?%s", c.cfg.URL, path, params.Encode()))
}

// ParseErrorResponse tenta parsear um erro da API do Meta
func ParseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

// HandleResponse devolve o corpo das respostas de sucesso e converte as demais em *APIError
func HandleResponse(resp *httpclient.Response) ([]byte, error) {
	if resp.IsSuccess() {
		return resp.Body, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	if errorResp, err := ParseErrorResponse(resp.Body); err == nil && errorResp.Error.Message != "" {
		apiErr.Response = errorResp
	}

	if errors.Is(apiErr, ErrTokenExpired) {
		logrus.WithFields(logrus.Fields{
			"code":    apiErr.Response.Error.Code,
			"subcode": apiErr.Response.Error.ErrorSubcode,
		}).Warn("Token expirado detectado pela API Meta. É necessário reconectar a integração")
	}

	return nil, apiErr
}
