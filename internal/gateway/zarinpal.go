package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	productionBase  = "https://api.zarinpal.com/pg/v4/payment"
	sandboxBase     = "https://sandbox.zarinpal.com/pg/v4/payment"
	productionStart = "https://www.zarinpal.com/pg/StartPay"
	sandboxStart    = "https://sandbox.zarinpal.com/pg/StartPay"

	codeSuccess         = 100
	codeAlreadyVerified = 101
)

// ProviderError carries the gateway's own message so the controller boundary
// can surface something user-safe.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.Code, e.Message)
}

// Zarinpal implements Client against the ZarinPal v4 JSON API.
type Zarinpal struct {
	merchantID string
	baseURL    string
	startURL   string
	client     *http.Client
}

func NewZarinpal(merchantID string, sandbox bool, timeout time.Duration) *Zarinpal {
	base, start := productionBase, productionStart
	if sandbox {
		base, start = sandboxBase, sandboxStart
	}
	return &Zarinpal{
		merchantID: merchantID,
		baseURL:    base,
		startURL:   start,
		client:     &http.Client{Timeout: timeout},
	}
}

type requestPayload struct {
	MerchantID  string `json:"merchant_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CallbackURL string `json:"callback_url"`
}

type verifyPayload struct {
	MerchantID string `json:"merchant_id"`
	Authority  string `json:"authority"`
	Amount     int64  `json:"amount"`
}

type apiResponse struct {
	Data struct {
		Code      int    `json:"code"`
		Authority string `json:"authority"`
		RefID     int64  `json:"ref_id"`
		Message   string `json:"message"`
	} `json:"data"`
	Errors struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (z *Zarinpal) post(ctx context.Context, path string, payload any) (apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apiResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apiResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return apiResponse{}, fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("read gateway response: %w", err)
	}
	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return apiResponse{}, fmt.Errorf("parse gateway response: %w", err)
	}
	return out, nil
}

func (z *Zarinpal) RequestPayment(ctx context.Context, amount int64, description, callbackURL string) (string, string, error) {
	payload := requestPayload{
		MerchantID:  z.merchantID,
		Amount:      amount,
		Description: description,
		CallbackURL: callbackURL,
	}

	out, err := z.post(ctx, "/request.json", payload)
	if err != nil {
		// One retry on transport failure. Safe here: no money moved until
		// the payer visits the payment URL.
		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			out, err = z.post(ctx, "/request.json", payload)
		}
		if err != nil {
			return "", "", err
		}
	}

	if out.Data.Code != codeSuccess || out.Data.Authority == "" {
		msg := out.Errors.Message
		if msg == "" {
			msg = "payment request rejected"
		}
		return "", "", &ProviderError{Code: out.Errors.Code, Message: msg}
	}
	return out.Data.Authority, z.startURL + "/" + out.Data.Authority, nil
}

func (z *Zarinpal) VerifyPayment(ctx context.Context, authority string, amount int64) (VerifyResult, error) {
	out, err := z.post(ctx, "/verify.json", verifyPayload{
		MerchantID: z.merchantID,
		Authority:  authority,
		Amount:     amount,
	})
	if err != nil {
		return VerifyResult{}, err
	}

	switch out.Data.Code {
	case codeSuccess:
		return VerifyResult{RefID: out.Data.RefID}, nil
	case codeAlreadyVerified:
		return VerifyResult{RefID: out.Data.RefID, AlreadyVerified: true}, nil
	default:
		msg := out.Errors.Message
		if msg == "" {
			msg = "payment verification failed"
		}
		return VerifyResult{}, &ProviderError{Code: out.Errors.Code, Message: msg}
	}
}
