package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Zarinpal {
	return &Zarinpal{
		merchantID: "merchant-1",
		baseURL:    srv.URL,
		startURL:   srv.URL + "/StartPay",
		client:     &http.Client{Timeout: time.Second},
	}
}

func respond(w http.ResponseWriter, code int, authority string, refID int64) {
	var body apiResponse
	body.Data.Code = code
	body.Data.Authority = authority
	body.Data.RefID = refID
	_ = json.NewEncoder(w).Encode(body)
}

func TestRequestPayment(t *testing.T) {
	var got requestPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/request.json", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond(w, 100, "A000123", 0)
	}))
	defer srv.Close()

	authority, payURL, err := testClient(srv).RequestPayment(context.Background(), 250000, "Course purchase", "https://app.test/cb")
	require.NoError(t, err)
	assert.Equal(t, "A000123", authority)
	assert.Equal(t, srv.URL+"/StartPay/A000123", payURL)
	assert.Equal(t, "merchant-1", got.MerchantID)
	assert.Equal(t, int64(250000), got.Amount)
	assert.Equal(t, "https://app.test/cb", got.CallbackURL)
}

func TestRequestPaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body apiResponse
		body.Errors.Code = -9
		body.Errors.Message = "validation error"
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	_, _, err := testClient(srv).RequestPayment(context.Background(), 100, "x", "https://app.test/cb")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, -9, perr.Code)
}

func TestRequestPaymentRetriesTransportError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Kill the connection to force a transport error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		respond(w, 100, "A000999", 0)
	}))
	defer srv.Close()

	authority, _, err := testClient(srv).RequestPayment(context.Background(), 100, "x", "https://app.test/cb")
	require.NoError(t, err)
	assert.Equal(t, "A000999", authority)
	assert.Equal(t, 2, calls)
}

func TestVerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify.json", r.URL.Path)
		respond(w, 100, "", 777)
	}))
	defer srv.Close()

	res, err := testClient(srv).VerifyPayment(context.Background(), "A000123", 250000)
	require.NoError(t, err)
	assert.Equal(t, int64(777), res.RefID)
	assert.False(t, res.AlreadyVerified)
}

func TestVerifyPaymentAlreadyVerified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 101, "", 777)
	}))
	defer srv.Close()

	res, err := testClient(srv).VerifyPayment(context.Background(), "A000123", 250000)
	require.NoError(t, err)
	assert.True(t, res.AlreadyVerified)
}

func TestVerifyPaymentRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body apiResponse
		body.Errors.Code = -51
		body.Errors.Message = "session is not valid"
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	_, err := testClient(srv).VerifyPayment(context.Background(), "A000123", 250000)
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, -51, perr.Code)
}
