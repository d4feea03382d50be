package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hpenglish/course-portal/internal/dto"
)

func (s *Suite) deliverWebhook(payload []byte, signature string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/stripe/webhook", bytes.NewBuffer(payload))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func buyerMetadata() map[string]string {
	return map[string]string{
		"name":      "Ana Souza",
		"cpf":       "12345678909",
		"phone":     "11987654321",
		"email":     "ana@example.com",
		"priceTier": "lote1",
	}
}

func (s *Suite) TestWebhook_PaidSessionProvisionsAccount() {
	payload := s.checkoutCompletedPayload("cs_paid_1", "ana@example.com", buyerMetadata())

	resp := s.deliverWebhook(payload, s.signPayload(payload))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var webhookResp dto.WebhookResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&webhookResp))
	s.True(webhookResp.Received)

	var isActive, purchased bool
	var name, sessionID string
	err := s.Postgres.DB.QueryRow(
		`SELECT name, is_active, purchased_course, stripe_session_id FROM accounts WHERE email = $1`,
		"ana@example.com",
	).Scan(&name, &isActive, &purchased, &sessionID)
	s.Require().NoError(err)

	s.Equal("Ana Souza", name)
	s.True(isActive)
	s.True(purchased)
	s.Equal("cs_paid_1", sessionID)

	access := s.Mailer.AccessSent()
	s.Require().Len(access, 1)
	s.Equal("ana@example.com", access[0].To)
	s.Contains(access[0].SetPasswordURL, "https://curso.example.com/criar-senha?token=")
}

func (s *Suite) TestWebhook_DuplicateDeliveries() {
	payload := s.checkoutCompletedPayload("cs_dup_1", "ana@example.com", buyerMetadata())

	for i := 0; i < 3; i++ {
		resp := s.deliverWebhook(payload, s.signPayload(payload))
		s.Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var accountCount, tokenCount, paymentCount int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accountCount))
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM claim_tokens`).Scan(&tokenCount))
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM payments`).Scan(&paymentCount))

	s.Equal(1, accountCount)
	s.Equal(1, tokenCount)
	s.Equal(1, paymentCount)
	s.Len(s.Mailer.AccessSent(), 1)
}

func (s *Suite) TestWebhook_InvalidSignature() {
	payload := s.checkoutCompletedPayload("cs_bad_sig", "ana@example.com", buyerMetadata())

	resp := s.deliverWebhook(payload, "t=1,v1=deadbeef")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Assinatura inválida.", errResp.Error)

	var paymentCount int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM payments`).Scan(&paymentCount))
	s.Equal(0, paymentCount)
}

func (s *Suite) TestWebhook_MissingSignature() {
	payload := s.checkoutCompletedPayload("cs_no_sig", "ana@example.com", buyerMetadata())

	resp := s.deliverWebhook(payload, "")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Assinatura ausente.", errResp.Error)
}

func (s *Suite) TestWebhook_UnrecognizedEventType() {
	payload := s.checkoutCompletedPayload("cs_other_type", "ana@example.com", buyerMetadata())
	body := strings.Replace(string(payload), "checkout.session.completed", "payment_intent.created", 1)

	resp := s.deliverWebhook([]byte(body), s.signPayload([]byte(body)))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var accountCount int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accountCount))
	s.Equal(0, accountCount)
}

func (s *Suite) TestWebhook_UnpaidSessionAcknowledged() {
	payload := s.checkoutCompletedPayload("cs_unpaid_1", "ana@example.com", buyerMetadata())
	body := strings.Replace(string(payload), `"payment_status":"paid"`, `"payment_status":"unpaid"`, 1)

	resp := s.deliverWebhook([]byte(body), s.signPayload([]byte(body)))
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var accountCount int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&accountCount))
	s.Equal(0, accountCount)
}
