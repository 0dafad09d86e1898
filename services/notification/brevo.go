package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"onetracker/models"
	"onetracker/utils"

	"go.uber.org/zap"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoService sends transactional email through the Brevo HTTP API.
type BrevoService struct {
	APIKey       string
	SenderEmail  string
	SenderName   string
	CompanyEmail string
	Client       *http.Client
}

func NewBrevoService(apiKey, senderEmail, senderName, companyEmail string) *BrevoService {
	return &BrevoService{
		APIKey:       apiKey,
		SenderEmail:  senderEmail,
		SenderName:   senderName,
		CompanyEmail: companyEmail,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// SendBookingConfirmation sends the booker confirmation and the operations
// notification. Both are attempted; the first failure is returned.
func (s *BrevoService) SendBookingConfirmation(ctx context.Context, b *models.Booking) error {
	logger := utils.GetLogger()

	userErr := s.send(ctx, b.WorkEmail, b.Name,
		"Your OneTracker demo is confirmed", userEmailHTML(b))
	if userErr != nil {
		logger.Error("failed to send booker confirmation", zap.Error(userErr),
			zap.String("booking_id", b.ID.String()))
	}

	opsErr := s.send(ctx, s.CompanyEmail, "OneTracker Team",
		"New demo booking received", opsEmailHTML(b))
	if opsErr != nil {
		logger.Error("failed to send ops notification", zap.Error(opsErr),
			zap.String("booking_id", b.ID.String()))
	}

	if userErr != nil {
		return userErr
	}
	return opsErr
}

func (s *BrevoService) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if s.APIKey == "" {
		return fmt.Errorf("email service not configured")
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": toName}},
		Subject:     subject,
		HTMLContent: html,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
