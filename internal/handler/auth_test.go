package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/zizeomlab/film-warranty/internal/repository"
)

func TestRegisterNamesFirstMissingField(t *testing.T) {
	h := &AuthHandler{}

	cases := []struct {
		body string
		want string
	}{
		{`{}`, "accountName is required"},
		{`{"accountName":"kim01"}`, "accountType is required"},
		{`{"accountName":"kim01","accountType":"seller"}`, "name is required"},
		{`{"accountName":"kim01","accountType":"seller","name":"Kim"}`, "email is required"},
		{`{"accountName":"kim01","accountType":"seller","name":"Kim","email":"kim@example.com"}`, "password is required"},
		{`{"accountName":"kim01","accountType":"seller","name":"Kim","email":"kim@example.com","password":"pw"}`, "phone is required"},
		{`{"accountName":"kim01","accountType":"seller","name":"Kim","email":"kim@example.com","password":"pw","phone":"010"}`, "address is required"},
	}
	for _, tc := range cases {
		rec := postJSON(t, h.Register, tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", tc.body, rec.Code)
			continue
		}
		if got := errorMessage(t, rec); got != tc.want {
			t.Errorf("body %s: error = %q, want %q", tc.body, got, tc.want)
		}
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	h := &AuthHandler{}
	body := `{"accountName":"kim01","accountType":"root","name":"Kim","email":"kim@example.com","password":"pw","phone":"010","address":"Seoul"}`
	rec := postJSON(t, h.Register, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, rec); got != "accountType is invalid" {
		t.Errorf("error = %q, want accountType is invalid", got)
	}
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	h := &AuthHandler{}
	body := `{"accountName":"kim01","accountType":"buyer","name":"Kim","email":"not-an-email","password":"pw","phone":"010","address":"Seoul"}`
	rec := postJSON(t, h.Register, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errorMessage(t, rec); got != "email is invalid" {
		t.Errorf("error = %q, want email is invalid", got)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	h := &AuthHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"accountName":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogoutRequiresToken(t *testing.T) {
	h := &AuthHandler{}
	rec := postJSON(t, h.Logout, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// Logout-all must revoke every active token of the caller, keyed by
// the authenticated account id rather than a supplied token.
func TestLogoutAllRevokesByAccount(t *testing.T) {
	stub, db := newStubDB()
	h := &AuthHandler{Tokens: repository.NewTokenRepo(db)}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/logout-all", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("account_id", float64(7))

	if err := h.LogoutAll(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 (%s)", rec.Code, rec.Body.String())
	}
	revoke, ok := stub.firstCall("UPDATE refresh_tokens SET revoked_at")
	if !ok {
		t.Fatal("revoke never executed")
	}
	if got, _ := revoke.args[0].(int64); got != 7 {
		t.Errorf("revoked account id = %v, want 7", revoke.args[0])
	}
	if !strings.Contains(revoke.query, "account_id=?") {
		t.Errorf("revoke not keyed by account: %s", revoke.query)
	}
}

func TestLogoutAllRequiresIdentity(t *testing.T) {
	h := &AuthHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/logout-all", nil)
	rec := httptest.NewRecorder()
	if err := h.LogoutAll(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// accountPart is the only account payload any endpoint serializes; it
// must never carry a password, hashed or otherwise.
func TestAccountPartHasNoPasswordField(t *testing.T) {
	rec := httptest.NewRecorder()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.JSON(http.StatusOK, accountPart{ID: 1, AccountName: "kim01"})
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("account payload leaks a password field: %s", rec.Body.String())
	}
}
