package acceptance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/dto"
)

const (
	mariaDocument = "45678912"
	mariaEmail    = "maria.lopez@example.com"
	mariaPassword = "secret123"
)

func mariaSignUp(code string) dto.SignUpRequest {
	return dto.SignUpRequest{
		Document: mariaDocument,
		Names:    "Maria Lopez",
		Email:    mariaEmail,
		Password: mariaPassword,
		Sector:   "restaurant",
		Plan:     "professional",
		Code:     code,
	}
}

func accessCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "accessToken" {
			return c
		}
	}
	return nil
}

func (s *Suite) decodeError(body []byte) dto.ErrorResponse {
	var errResp dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(body, &errResp))
	return errResp
}

func (s *Suite) insertPromoCode(code, plan string, days int) {
	_, err := s.Postgres.DB.Exec(
		`INSERT INTO plan_codes (id, code, plan, days_trial, status) VALUES ($1, $2, $3, $4, 'valid')`,
		uuid.New().String(), code, plan, days,
	)
	s.Require().NoError(err)
}

func (s *Suite) accountID(email string) string {
	var id string
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT id FROM accounts WHERE email = $1`, email).Scan(&id))
	return id
}

func (s *Suite) insertRecovery(accountID string, expiresAt time.Time) string {
	code := uuid.New().String()
	_, err := s.Postgres.DB.Exec(
		`INSERT INTO account_recoveries (id, account_id, code, expires_at, status) VALUES ($1, $2, $3, $4, 'active')`,
		uuid.New().String(), accountID, code, expiresAt,
	)
	s.Require().NoError(err)
	return code
}

func (s *Suite) TestHealthEndpoint() {
	resp, _ := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestSessionLifecycle() {
	s.insertPromoCode("PROMO1", "professional", 30)

	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp("PROMO1"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var profile dto.ProfileSummary
	s.Require().NoError(json.Unmarshal(body, &profile))
	s.Equal("Maria Lopez", profile.Names)
	s.Equal("business_account", profile.Type)
	s.Empty(profile.AccessToken)

	signUpCookie := accessCookie(resp)
	s.Require().NotNil(signUpCookie)
	s.True(signUpCookie.HttpOnly)

	var status, plan string
	s.Require().NoError(s.Postgres.DB.QueryRow(
		`SELECT s.status, s.plan FROM account_subscriptions s JOIN accounts a ON a.id = s.account_id WHERE a.email = $1`,
		mariaEmail,
	).Scan(&status, &plan))
	s.Equal("promo", status)
	s.Equal("professional", plan)

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-session", nil, signUpCookie)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaEmail, Password: mariaPassword})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("session already active", s.decodeError(body).Message)

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/logout", nil, signUpCookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-session", nil, signUpCookie)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaDocument, Password: mariaPassword})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	signInCookie := accessCookie(resp)
	s.Require().NotNil(signInCookie)

	resp, body = s.do(http.MethodGet, "/api/v1/auth/me", nil, signInCookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var actor map[string]any
	s.Require().NoError(json.Unmarshal(body, &actor))
	s.Equal(mariaEmail, actor["email"])
	s.Equal("business_account", actor["type"])

	var sessions int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM account_sessions`).Scan(&sessions))
	s.Equal(1, sessions)
}

func (s *Suite) TestSignUp_PromoCodeRedeemedOnce() {
	s.insertPromoCode("ONCE01", "basic", 14)

	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp("ONCE01"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	second := dto.SignUpRequest{
		Document: "11122233",
		Names:    "Jose Perez",
		Email:    "jose@example.com",
		Password: "secret456",
		Code:     "ONCE01",
	}
	resp, body = s.do(http.MethodPost, "/api/v1/auth/sign-up", second)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("code does not exist or already used", s.decodeError(body).Message)

	var accounts int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM accounts WHERE email = $1`, "jose@example.com").Scan(&accounts))
	s.Zero(accounts, "failed sign-up must leave no account behind")
}

func (s *Suite) TestSignUp_DuplicateEmail() {
	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp(""))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	again := mariaSignUp("")
	again.Document = "99988877"
	resp, body = s.do(http.MethodPost, "/api/v1/auth/sign-up", again)
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Contains(s.decodeError(body).Message, "email")
}

func (s *Suite) TestSignUp_ValidationError() {
	req := mariaSignUp("")
	req.Document = "12"

	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", req)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	errResp := s.decodeError(body)
	s.Require().NotEmpty(errResp.Errors)
	s.Equal("document", errResp.Errors[0].Field)
}

func (s *Suite) TestSignIn_WrongPassword() {
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp(""))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaEmail, Password: "wrongpass1"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("invalid credentials", s.decodeError(body).Message)
}

func (s *Suite) TestRecover_UnknownIdentifierIsSilent() {
	resp, body := s.do(http.MethodGet, "/api/v1/auth/recover/nobody@example.com", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var msg dto.MessageResponse
	s.Require().NoError(json.Unmarshal(body, &msg))
	s.NotEmpty(msg.Message)
}

func (s *Suite) TestPasswordReset() {
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp(""))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	oldCookie := accessCookie(resp)

	code := s.insertRecovery(s.accountID(mariaEmail), time.Now().Add(10*time.Minute))

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-code/"+code, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body := s.do(http.MethodPost, "/api/v1/auth/reset-password", dto.ResetPasswordRequest{Code: code, Password: "newsecret1"})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-session", nil, oldCookie)
	s.Equal(http.StatusUnauthorized, resp.StatusCode, "reset must drop existing sessions")

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-code/"+code, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode, "ticket is consumed")

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaEmail, Password: mariaPassword})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaEmail, Password: "newsecret1"})
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestValidateCode_Expired() {
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp(""))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	code := s.insertRecovery(s.accountID(mariaEmail), time.Now().Add(-time.Minute))

	resp, _ = s.do(http.MethodGet, "/api/v1/auth/validate-code/"+code, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RequiresCookie() {
	resp, _ := s.do(http.MethodPost, "/api/v1/auth/logout", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
