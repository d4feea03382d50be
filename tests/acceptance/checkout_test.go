package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/hpenglish/course-portal/internal/dto"
)

func (s *Suite) postJSON(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(payload))
	s.Require().NoError(err)
	return resp
}

func validCheckout() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Name:  "Ana Souza",
		Email: "ana@example.com",
		CPF:   "123.456.789-09",
		Phone: "(11) 98765-4321",
	}
}

func (s *Suite) TestCheckout_Success() {
	resp := s.postJSON("/api/v1/checkout/session", validCheckout())
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var checkoutResp dto.CheckoutResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&checkoutResp))
	s.Equal("https://checkout.stripe.com/pay/cs_test_acceptance", checkoutResp.URL)

	params := s.Payments.LastParams()
	s.Equal("price_lote1", params.PriceID)
	s.Equal("ana@example.com", params.Email)
	s.Equal("12345678909", params.Metadata["cpf"])
	s.Equal("11987654321", params.Metadata["phone"])
	s.Equal("lote1", params.Metadata["priceTier"])
}

func (s *Suite) TestCheckout_InvalidCPF() {
	req := validCheckout()
	req.CPF = "123.456.789"

	resp := s.postJSON("/api/v1/checkout/session", req)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Informe um CPF com 11 dígitos.", errResp.Error)
}

func (s *Suite) TestCheckout_ShortName() {
	req := validCheckout()
	req.Name = " ab "

	resp := s.postJSON("/api/v1/checkout/session", req)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Informe seu nome completo.", errResp.Error)
}

func (s *Suite) TestCheckout_ActivePurchaseConflict() {
	// Provision the buyer through a paid webhook first.
	payload := s.checkoutCompletedPayload("cs_conflict", "ana@example.com", map[string]string{
		"name": "Ana Souza", "cpf": "12345678909", "phone": "11987654321", "email": "ana@example.com",
	})
	resp := s.deliverWebhook(payload, s.signPayload(payload))
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.postJSON("/api/v1/checkout/session", validCheckout())
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Contains(errResp.Error, "Já existe um cadastro ativo")
}
