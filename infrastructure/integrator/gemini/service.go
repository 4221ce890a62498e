package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/httpclient"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrMissingAPIKey = errors.New("gemini api key not configured")
	ErrEmptyResponse = errors.New("gemini returned no content")
)

const promptTemplate = `Como especialista em mídia paga e gestão de orçamentos, analise os saldos e o gasto diário dos clientes abaixo.
Dados dos clientes: %s

Tarefas:
1. Identifique os clientes que precisam de atenção imediata (saldo acaba em menos de 3 dias).
2. Para cada cliente crítico, informe o motivo e uma ação recomendada curta.
3. Escreva um "Resumo Diário" em tom profissional e encorajador, em português do Brasil.

Use o campo "id" do cliente em clientId.`

type GeminiIntegrator struct {
	apiKey  string
	model   string
	baseURL string
	http    *httpclient.Client
}

func New(cfg config.Gemini, httpClient *httpclient.Client) *GeminiIntegrator {
	return &GeminiIntegrator{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

func (g *GeminiIntegrator) Summarize(ctx context.Context, clients []domain.Client) (*domain.BudgetInsights, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientsJSON, err := json.Marshal(clients)
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal clients: %w", err)
	}

	payload, err := json.Marshal(generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf(promptTemplate, clientsJSON)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   insightsSchema,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)

	resp, err := g.http.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", g.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}

	if !resp.IsSuccess() {
		var errResp errorResponse
		if json.Unmarshal(resp.Body, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	text, err := responseText(resp.Body)
	if err != nil {
		return nil, err
	}

	var insights domain.BudgetInsights
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return nil, fmt.Errorf("gemini: decode insights: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"model":            g.model,
		"critical_clients": len(insights.CriticalClients),
	}).Debug("gemini: insights gerados")

	return &insights, nil
}

func responseText(body []byte) (string, error) {
	var resp generateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}

	text := strings.TrimSpace(sb.String())
	// alguns modelos ainda cercam o JSON com ```json
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
