package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	config "github.com/maheshrc27/flowsocial/configs"
	"github.com/maheshrc27/flowsocial/internal/models"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

func newTestAuthService(t *testing.T, users *fakeUserRepo, info *transfer.GoogleUserInfo) *authService {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	s := NewAuthService(config.Config{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleRedirectURI:  "http://localhost:3000/login/callback",
	}, users).(*authService)
	s.oauth.Endpoint.TokenURL = tokenSrv.URL + "/token"
	s.fetchUser = func(context.Context, *http.Client) (*transfer.GoogleUserInfo, error) {
		return info, nil
	}
	return s
}

func TestAuthService_LoginURL(t *testing.T) {
	s := newTestAuthService(t, newFakeUserRepo(), nil)

	u, err := url.Parse(s.LoginURL("state-123"))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("state") != "state-123" || q.Get("client_id") != "client" || q.Get("redirect_uri") != "http://localhost:3000/login/callback" {
		t.Errorf("query = %v", q)
	}
}

func TestAuthService_LoginCallbackCreatesUser(t *testing.T) {
	users := newFakeUserRepo()
	s := newTestAuthService(t, users, &transfer.GoogleUserInfo{ID: "g1", Email: "new@example.com", Name: "New"})

	id, err := s.LoginCallback(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("LoginCallback: %v", err)
	}
	u, found, _ := users.GetByID(context.Background(), id)
	if !found || u.GoogleID != "g1" || u.Plan != "free" {
		t.Errorf("user = %+v", u)
	}

	again, err := s.LoginCallback(context.Background(), "good-code")
	if err != nil || again != id {
		t.Errorf("second login = %d, %v; want %d", again, err, id)
	}
}

func TestAuthService_LoginCallbackLinksExistingUser(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 5, Email: "paid@example.com", Plan: "pro"})
	s := newTestAuthService(t, users, &transfer.GoogleUserInfo{ID: "g5", Email: "paid@example.com", Name: "Paid"})

	id, err := s.LoginCallback(context.Background(), "good-code")
	if err != nil || id != 5 {
		t.Fatalf("LoginCallback = %d, %v", id, err)
	}
	u, _, _ := users.GetByID(context.Background(), 5)
	if u.GoogleID != "g5" || u.Name != "Paid" || u.Plan != "pro" {
		t.Errorf("user = %+v", u)
	}
}

func TestAuthService_LoginCallbackErrors(t *testing.T) {
	s := newTestAuthService(t, newFakeUserRepo(), &transfer.GoogleUserInfo{ID: "g1"})

	if _, err := s.LoginCallback(context.Background(), ""); err == nil {
		t.Error("empty code accepted")
	}
	if _, err := s.LoginCallback(context.Background(), "bad-code"); err == nil {
		t.Error("failed exchange accepted")
	}
	if _, err := s.LoginCallback(context.Background(), "good-code"); err == nil {
		t.Error("account without email accepted")
	}

	s.fetchUser = func(context.Context, *http.Client) (*transfer.GoogleUserInfo, error) {
		return nil, errors.New("userinfo down")
	}
	if _, err := s.LoginCallback(context.Background(), "good-code"); err == nil {
		t.Error("userinfo failure accepted")
	}
}
