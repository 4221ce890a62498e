package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/pkg/apiErrors"
)

type fakeMetaConnection struct {
	token       string
	connectErr  error
	connected   bool
	disconnects int
}

func (f *fakeMetaConnection) Connect(_ context.Context, accessToken string) error {
	if f.connectErr != nil {
		return f.connectErr
	}
	f.token = accessToken
	f.connected = true
	return nil
}

func (f *fakeMetaConnection) Disconnect() {
	f.disconnects++
	f.token = ""
	f.connected = false
}

func (f *fakeMetaConnection) Credentials() domain.MetaCredentials {
	return domain.MetaCredentials{AccessToken: f.token}
}

func (f *fakeMetaConnection) IsConnected() bool {
	return f.connected
}

func (f *fakeMetaConnection) GetStatus() map[string]any {
	return map[string]any{"connected": f.connected}
}

type fakeAvailability bool

func (f fakeAvailability) Available() bool {
	return bool(f)
}

func newRequest(method, target, body string, params ...httprouter.Param) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if len(params) > 0 {
		req = req.WithContext(context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params(params)))
	}
	return req
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	var apiErr apiErrors.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}
