package util

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRestyClientRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(RestyOptions{BaseURL: srv.URL, RetryCount: 2})
	var body struct {
		OK bool `json:"ok"`
	}
	resp, err := client.R().SetResult(&body).Get("/")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.True(t, body.OK)
	assert.Equal(t, int32(2), hits.Load())
}

func TestNewRestyClientWithoutRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewRestyClient(RestyOptions{BaseURL: srv.URL})
	resp, err := client.R().Get("/")

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetCounterVecReusesRegistered(t *testing.T) {
	first, err := GetCounterVec("util_test_counter_total", "test counter", "label")
	require.NoError(t, err)
	second, err := GetCounterVec("util_test_counter_total", "test counter", "label")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
