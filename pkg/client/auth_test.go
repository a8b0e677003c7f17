package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	var gotBody map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/token":
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token":      "tok-abc",
				"expires_at": time.Now().Add(time.Hour).Format(time.RFC3339),
				"user":       map[string]interface{}{"id": 1, "username": "alice"},
			})
		case "/api/v1/meta/":
			if r.Header.Get("Authorization") != "Bearer tok-abc" {
				t.Errorf("auth header = %q", r.Header.Get("Authorization"))
			}
			writeEntry(w, http.StatusOK, nil)
		}
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL})
	resp, err := c.Login(context.Background(), "alice", "secret", "laptop")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "tok-abc" || resp.User.Username != "alice" {
		t.Errorf("response = %+v", resp)
	}
	if gotBody["username"] != "alice" || gotBody["password"] != "secret" || gotBody["device_name"] != "laptop" {
		t.Errorf("request body = %v", gotBody)
	}

	// The token is applied to subsequent requests.
	c.Metadata(context.Background(), "/")
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL})
	if _, err := c.Login(context.Background(), "alice", "wrong", "laptop"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogout_ClearsToken(t *testing.T) {
	var sawToken string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "DELETE" && r.URL.Path == "/api/v1/auth/token" {
			sawToken = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("token survived logout: %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(Config{BaseURL: ts.URL, AuthToken: "tok-abc"})
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sawToken != "Bearer tok-abc" {
		t.Errorf("logout request auth = %q", sawToken)
	}

	c.Metadata(context.Background(), "/whatever")
}

func TestTokenFileExpiry(t *testing.T) {
	tf := &TokenFile{ExpiresAt: time.Now().Add(30 * time.Minute)}
	if tf.IsExpired(0) {
		t.Error("token should still be valid")
	}
	if !tf.IsExpired(time.Hour) {
		t.Error("token should be expired within a 1h margin")
	}
}
