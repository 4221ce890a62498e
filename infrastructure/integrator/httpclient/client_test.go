package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/internal/config"
)

func newTestClient(retryMax int) *Client {
	return NewWithBackoff(config.HTTPClient{RetryMax: retryMax, Timeout: time.Second}, time.Millisecond, 5*time.Millisecond)
}

func get(url string) RequestBuilder {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestClient_Do(t *testing.T) {
	tests := []struct {
		name           string
		retryMax       int
		statuses       []int
		expectedStatus int
		expectedHits   int32
	}{
		{
			name:           "Sucesso na primeira tentativa",
			retryMax:       2,
			statuses:       []int{http.StatusOK},
			expectedStatus: http.StatusOK,
			expectedHits:   1,
		},
		{
			name:           "Repete após erro 500",
			retryMax:       2,
			statuses:       []int{http.StatusInternalServerError, http.StatusOK},
			expectedStatus: http.StatusOK,
			expectedHits:   2,
		},
		{
			name:           "Retorna a última falha ao esgotar tentativas",
			retryMax:       1,
			statuses:       []int{http.StatusServiceUnavailable, http.StatusServiceUnavailable, http.StatusOK},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHits:   2,
		},
		{
			name:           "Erro 400 não é repetido",
			retryMax:       2,
			statuses:       []int{http.StatusBadRequest, http.StatusOK},
			expectedStatus: http.StatusBadRequest,
			expectedHits:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := hits.Add(1)
				w.WriteHeader(tt.statuses[n-1])
				_, _ = w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			resp, err := newTestClient(tt.retryMax).Do(context.Background(), get(server.URL))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, `{"ok":true}`, string(resp.Body))
			assert.Equal(t, tt.expectedHits, hits.Load())
		})
	}
}

func TestClient_Do_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp, err := newTestClient(1).Do(context.Background(), get(url))

	assert.Error(t, err)
	assert.Nil(t, resp)
}
