package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ezalahmad/account-service/app/dto"
	appErrors "github.com/ezalahmad/account-service/app/errors"
	applogger "github.com/ezalahmad/account-service/app/logger"
)

/*
Request tracing test cases:

1. TestRequestIDTracing_SetsHeader            - existing request ID echoed in X-Request-ID
2. TestRequestIDTracing_GeneratesIDIfMissing  - ID generated when chi did not set one
3. TestRequestIDTracing_LoggerCarriesRequestID - context logger tags every line with the ID
4. TestMount_RequestScopedLogger              - a routed request hands the service an enabled
                                                context logger and returns X-Request-ID
5. TestHTTPLogger_LogsStatusAndPath           - one structured line per request
*/

func TestRequestIDTracing_SetsHeader(t *testing.T) {
	handler := requestIDTracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id-123"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "test-request-id-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDTracing_GeneratesIDIfMissing(t *testing.T) {
	handler := requestIDTracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDTracing_LoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	old := applogger.Logger
	applogger.Logger = zerolog.New(&buf)
	defer func() { applogger.Logger = old }()

	handler := requestIDTracing()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("handling")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id-456"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"request_id":"test-request-id-456"`)
	assert.Contains(t, buf.String(), "handling")
}

func TestMount_RequestScopedLogger(t *testing.T) {
	level := zerolog.Disabled
	mux := newTestApp(&mockAccountService{
		signupFunc: func(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, *appErrors.AppError) {
			level = zerolog.Ctx(ctx).GetLevel()
			return &dto.SignupResponse{Message: "ok"}, nil
		},
	})

	rec := postForm(t, mux, "/signup", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw123456"},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, zerolog.Disabled, level)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHTTPLogger_LogsStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})

	req := httptest.NewRequest(http.MethodGet, "/verify/abc", nil)
	req = req.WithContext(log.WithContext(req.Context()))
	rec := httptest.NewRecorder()

	httpLogger(inner).ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/verify/abc"`)
	assert.Contains(t, buf.String(), "http_request")
}
