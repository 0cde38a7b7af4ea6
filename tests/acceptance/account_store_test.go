package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/dto"
)

// signedIn provisions Maria and returns her session cookie
func (s *Suite) signedIn() *http.Cookie {
	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", mariaSignUp(""))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	cookie := accessCookie(resp)
	s.Require().NotNil(cookie)
	return cookie
}

func (s *Suite) TestAccountProfileUpdate() {
	cookie := s.signedIn()

	resp, body := s.do(http.MethodPut, "/api/v1/account/update-profile", map[string]any{
		"paternalSurnames": "Lopez",
		"birthday":         "1990-05-17",
		"gender":           "female",
		"biography":        "Bakery owner",
	}, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do(http.MethodGet, "/api/v1/account/detail-profile", nil, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var detail dto.AccountDetail
	s.Require().NoError(json.Unmarshal(body, &detail))
	s.Equal(mariaDocument, detail.Document)
	s.Require().NotNil(detail.PaternalSurnames)
	s.Equal("Lopez", *detail.PaternalSurnames)
	s.Require().NotNil(detail.Birthday)
	s.Equal("1990-05-17", *detail.Birthday)
	s.Require().NotNil(detail.Biography)
	s.Equal("Bakery owner", *detail.Biography)
	s.Equal("UTC", detail.Timezone)
}

func (s *Suite) TestAccountEmailChangeConflict() {
	cookie := s.signedIn()

	other := mariaSignUp("")
	other.Document = "11223344"
	other.Email = "ana.torres@example.com"
	resp, body := s.do(http.MethodPost, "/api/v1/auth/sign-up", other)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(http.MethodPut, "/api/v1/account/update-email", dto.UpdateEmailRequest{Email: "ana.torres@example.com"}, cookie)
	s.Require().Equal(http.StatusConflict, resp.StatusCode, string(body))
	s.Equal("email already in use", s.decodeError(body).Message)

	resp, body = s.do(http.MethodPut, "/api/v1/account/update-email", dto.UpdateEmailRequest{Email: "maria.new@example.com"}, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.NotEmpty(s.accountID("maria.new@example.com"))
}

func (s *Suite) TestAccountPasswordChange() {
	cookie := s.signedIn()

	resp, body := s.do(http.MethodPut, "/api/v1/account/update-password",
		dto.UpdatePasswordRequest{CurrentPassword: "wrong123", NewPassword: "newsecret1"}, cookie)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = s.do(http.MethodPut, "/api/v1/account/update-password",
		dto.UpdatePasswordRequest{CurrentPassword: mariaPassword, NewPassword: "newsecret1"}, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.do(http.MethodPost, "/api/v1/auth/sign-in", dto.SignInRequest{Identifier: mariaEmail, Password: "newsecret1"})
	s.Equal(http.StatusOK, resp.StatusCode, string(body))
}

func (s *Suite) TestStoreDetailAndUpdate() {
	cookie := s.signedIn()

	resp, body := s.do(http.MethodGet, "/api/v1/store/detail-store", nil, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var detail dto.StoreDetail
	s.Require().NoError(json.Unmarshal(body, &detail))
	s.Equal("restaurant", detail.Sector)
	s.Equal(dto.StoreSettings{}, detail.Settings)

	resp, body = s.do(http.MethodPut, "/api/v1/store/update-store", map[string]any{
		"name":     "Panadería Maria",
		"address":  map[string]any{"city": "Lima", "zipCode": "15001"},
		"settings": map[string]any{"isPublic": true},
	}, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.do(http.MethodGet, "/api/v1/store/detail-store", nil, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Require().NoError(json.Unmarshal(body, &detail))
	s.Equal("Panadería Maria", detail.Name)
	s.Equal("15001", detail.Address.ZipCode)
	s.True(detail.Settings.IsPublic)
	s.False(detail.Settings.ShowStock)
}

func (s *Suite) TestStoreSectorChange() {
	cookie := s.signedIn()

	resp, body := s.do(http.MethodGet, "/api/v1/store/sectors", nil, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var sectors []catalog.Sector
	s.Require().NoError(json.Unmarshal(body, &sectors))
	s.NotEmpty(sectors)

	resp, body = s.do(http.MethodPut, "/api/v1/store/update-sector", dto.UpdateSectorRequest{Sector: "spaceport"}, cookie)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = s.do(http.MethodPut, "/api/v1/store/update-sector", dto.UpdateSectorRequest{Sector: "bakery"}, cookie)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var updated dto.SectorUpdated
	s.Require().NoError(json.Unmarshal(body, &updated))
	s.Equal("bakery", updated.Sector)
	s.Equal("vitrina", updated.Terminology.Space)
}
