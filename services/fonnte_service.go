// services/fonnte_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Messenger is the narrow outbound-messaging contract the auth flow depends
// on: deliver one text message to a canonical phone number.
type Messenger interface {
	SendMessage(ctx context.Context, phone, message string) error
}

// FonnteService sends WhatsApp messages through the Fonnte REST API.
type FonnteService struct {
	Token  string
	APIURL string
	Client *http.Client
}

// FonnteResponse represents the response from the Fonnte send endpoint.
type FonnteResponse struct {
	Status bool     `json:"status"`
	Reason string   `json:"reason"`
	ID     []string `json:"id"`
	Detail string   `json:"detail"`
}

// NewFonnteService creates a Fonnte client from FONNTE_TOKEN/FONNTE_API_URL.
func NewFonnteService() *FonnteService {
	apiURL := os.Getenv("FONNTE_API_URL")
	if apiURL == "" {
		apiURL = "https://api.fonnte.com/send"
	}

	return &FonnteService{
		Token:  os.Getenv("FONNTE_TOKEN"),
		APIURL: apiURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage delivers a text message to the given canonical phone number.
func (s *FonnteService) SendMessage(ctx context.Context, phone, message string) error {
	if s.Token == "" {
		return fmt.Errorf("FONNTE_TOKEN is not configured")
	}

	form := url.Values{}
	form.Set("target", phone)
	form.Set("message", message)
	form.Set("countryCode", "62")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.Token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fonnte API returned status %d: %s", resp.StatusCode, string(body))
	}

	var fonnteResp FonnteResponse
	if err := json.Unmarshal(body, &fonnteResp); err != nil {
		return fmt.Errorf("failed to parse fonnte response: %w", err)
	}
	if !fonnteResp.Status {
		return fmt.Errorf("fonnte rejected message: %s", fonnteResp.Reason)
	}

	return nil
}
