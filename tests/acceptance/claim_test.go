package acceptance

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hpenglish/course-portal/internal/dto"
)

// provisionBuyer runs a paid webhook delivery and returns the claim token
// from the recorded course access email.
func (s *Suite) provisionBuyer(sessionID string) string {
	payload := s.checkoutCompletedPayload(sessionID, "ana@example.com", buyerMetadata())
	resp := s.deliverWebhook(payload, s.signPayload(payload))
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	access := s.Mailer.AccessSent()
	s.Require().Len(access, 1)

	parts := strings.Split(access[0].SetPasswordURL, "token=")
	s.Require().Len(parts, 2)
	return parts[1]
}

func (s *Suite) TestSetPassword_Success() {
	token := s.provisionBuyer("cs_claim_1")

	resp := s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{
		Token:    token,
		Password: "Senha123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var claimResp dto.SetPasswordResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&claimResp))
	s.True(claimResp.OK)
	s.NotEmpty(claimResp.RequestID)

	var used bool
	var passwordHash string
	err := s.Postgres.DB.QueryRow(`SELECT used FROM claim_tokens WHERE token = $1`, token).Scan(&used)
	s.Require().NoError(err)
	s.True(used)

	err = s.Postgres.DB.QueryRow(`SELECT password_hash FROM accounts WHERE email = $1`, "ana@example.com").Scan(&passwordHash)
	s.Require().NoError(err)
	s.NotEmpty(passwordHash)
}

func (s *Suite) TestSetPassword_TokenClaimOnce() {
	token := s.provisionBuyer("cs_claim_2")

	resp := s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{Token: token, Password: "Senha123"})
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp = s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{Token: token, Password: "Outra456"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Token já utilizado.", errResp.Error)
	s.NotEmpty(errResp.RequestID)
}

func (s *Suite) TestSetPassword_UnknownToken() {
	resp := s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{
		Token:    strings.Repeat("ab", 32),
		Password: "Senha123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Token não encontrado.", errResp.Error)
}

func (s *Suite) TestSetPassword_WeakPassword() {
	token := s.provisionBuyer("cs_claim_3")

	resp := s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{Token: token, Password: "abcdefgh"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("A senha deve ter ao menos 8 caracteres, incluindo letras e números.", errResp.Error)
}

func (s *Suite) TestSetPassword_ExpiredToken() {
	token := s.provisionBuyer("cs_claim_4")

	_, err := s.Postgres.DB.Exec(
		`UPDATE claim_tokens SET expires_at = NOW() - INTERVAL '1 minute' WHERE token = $1`,
		token,
	)
	s.Require().NoError(err)

	resp := s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{Token: token, Password: "Senha123"})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Token expirado.", errResp.Error)
}

func (s *Suite) TestForgotPassword_Success() {
	s.provisionBuyer("cs_forgot_1")

	resp := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{Email: "ana@example.com"})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	reset := s.Mailer.ResetSent()
	s.Require().Len(reset, 1)
	s.Equal("ana@example.com", reset[0].To)
	s.Contains(reset[0].ResetURL, "https://curso.example.com/criar-senha?token=")

	// The reset token works through the same claim endpoint.
	parts := strings.Split(reset[0].ResetURL, "token=")
	s.Require().Len(parts, 2)

	resp = s.postJSON("/api/v1/auth/set-password", dto.SetPasswordRequest{Token: parts[1], Password: "NovaSenha1"})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestForgotPassword_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Não encontramos cadastro com este e-mail.", errResp.Error)
	s.Empty(s.Mailer.ResetSent())
}
