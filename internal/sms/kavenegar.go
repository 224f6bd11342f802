package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const kavenegarHost = "https://api.kavenegar.com"

// KavenegarSender sends SMS through the Kavenegar REST API.
type KavenegarSender struct {
	apiKey string
	sender string
	client *http.Client
}

func NewKavenegarSender(apiKey, sender string, timeout time.Duration) *KavenegarSender {
	return &KavenegarSender{
		apiKey: apiKey,
		sender: sender,
		client: &http.Client{Timeout: timeout},
	}
}

type kavenegarResponse struct {
	Return struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"return"`
}

func (s *KavenegarSender) SendText(ctx context.Context, phone, body string) error {
	params := url.Values{}
	params.Set("receptor", phone)
	params.Set("sender", s.sender)
	params.Set("message", body)

	endpoint := fmt.Sprintf("%s/v1/%s/sms/send.json?%s", kavenegarHost, s.apiKey, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sms response: %w", err)
	}

	var out kavenegarResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("parse sms response: %w", err)
	}
	if out.Return.Status != 200 {
		return fmt.Errorf("sms provider rejected send: %s", out.Return.Message)
	}
	return nil
}
