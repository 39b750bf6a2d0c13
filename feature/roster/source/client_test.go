package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roster-sync/feature/roster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeBody = `{"result":[
 {"contrato":{"cargo":"Conductor","fechaingreso":"01/03/2020","fechatermino":""},
  "ficha":{"nombrecompleto":"Ana Rojas","rut":"11111111-1","email":"ana@x"},
  "ausentismo":"N/A",
  "vacaciones":{"solicitudes":[{"inicio":"05/01/2024","termino":"07/01/2024"}]}}
]}`

func testConfig(url string) Config {
	return Config{
		BaseURL:  url + "/",
		User:     "api",
		Password: "secret",
		RutTRN:   "76000000-1",
		RutTIR:   "77000000-2",
	}
}

func newSourceServer(t *testing.T, authStatus, dataStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Autenticar", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req authRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "api", req.User)
		assert.Equal(t, "secret", req.Password)

		w.WriteHeader(authStatus)
		_, _ = io.WriteString(w, `{"token":"tok-1"}`)
	})
	mux.HandleFunc("/auditeris/getemployee", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "tok-1", r.Header.Get("Authorization"))
		var req employeeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "76000000-1", req.CompanyRUT)
		assert.Equal(t, "S", req.Movements)

		w.WriteHeader(dataStatus)
		_, _ = io.WriteString(w, employeeBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch(t *testing.T) {
	srv := newSourceServer(t, http.StatusOK, http.StatusOK)
	client := NewClient(testConfig(srv.URL), srv.Client())
	client.now = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }

	payload, err := client.Fetch(context.Background(), models.CompanyTRN)
	require.NoError(t, err)

	assert.Equal(t, models.CompanyTRN, payload.Company)
	assert.Equal(t, employeeBody, string(payload.Body))
	assert.Equal(t, 2024, payload.FetchedAt.Year())
	require.Len(t, payload.Employees, 1)
	assert.Equal(t, "11111111-1", payload.Employees[0].Profile.RUT)
}

func TestClientFetch_AuthRejected(t *testing.T) {
	srv := newSourceServer(t, http.StatusUnauthorized, http.StatusOK)
	client := NewClient(testConfig(srv.URL), srv.Client())

	_, err := client.Fetch(context.Background(), models.CompanyTRN)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceAuth))

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
}

func TestClientFetch_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":""}`)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), srv.Client()).Fetch(context.Background(), models.CompanyTRN)
	assert.ErrorIs(t, err, ErrSourceAuth)
}

func TestClientFetch_DataFailure(t *testing.T) {
	srv := newSourceServer(t, http.StatusOK, http.StatusBadGateway)
	client := NewClient(testConfig(srv.URL), srv.Client())

	_, err := client.Fetch(context.Background(), models.CompanyTRN)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceFetch)
	assert.NotErrorIs(t, err, ErrSourceAuth)
}

func TestClientFetch_UndecodableBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Autenticar", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"tok-1"}`)
	})
	mux.HandleFunc("/auditeris/getemployee", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL), srv.Client()).Fetch(context.Background(), models.CompanyTRN)
	assert.ErrorIs(t, err, ErrSourceFetch)
}

func TestClientFetch_UnconfiguredCompany(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RutTIR = ""

	_, err := NewClient(cfg, nil).Fetch(context.Background(), models.CompanyTIR)
	assert.ErrorIs(t, err, ErrSourceFetch)
	assert.ErrorContains(t, err, "no tax id configured")
}

func TestClientFetch_ContextCanceled(t *testing.T) {
	srv := newSourceServer(t, http.StatusOK, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(testConfig(srv.URL), srv.Client()).Fetch(ctx, models.CompanyTRN)
	assert.ErrorIs(t, err, ErrSourceAuth)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEndpointAddsSlash(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.example.com/v1"}, nil)
	assert.Equal(t, "https://api.example.com/v1/Autenticar", c.endpoint(authPath))
}

func TestCompanyRUT(t *testing.T) {
	cfg := Config{RutTRN: "1-9", RutTIR: "2-7"}

	rut, err := cfg.CompanyRUT(models.CompanyTIR)
	require.NoError(t, err)
	assert.Equal(t, "2-7", rut)

	_, err = cfg.CompanyRUT(models.Company("XYZ"))
	assert.Error(t, err)
}
