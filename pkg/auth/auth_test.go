package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newService() *Service {
	return NewService("session-secret", Credentials{
		Username: "admin",
		Password: "hunter2",
	}, time.Hour)
}

func login(t *testing.T, s *Service, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.LoginHandler(rec, req)
	return rec
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newService()

	rec := login(t, s, `{"username":"admin","password":"hunter2"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookie || cookies[0].Value == "" {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newService()

	testCases := []struct {
		name string
		body string
		want int
	}{
		{name: "wrong password", body: `{"username":"admin","password":"nope"}`, want: http.StatusUnauthorized},
		{name: "wrong user", body: `{"username":"eve","password":"hunter2"}`, want: http.StatusUnauthorized},
		{name: "garbage body", body: `{`, want: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := login(t, s, tc.body)
			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
			if len(rec.Result().Cookies()) != 0 && rec.Result().Cookies()[0].Value != "" {
				t.Error("cookie set on failed login")
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	s := newService()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := s.Middleware(next)

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("forged cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "forged"})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("valid session", func(t *testing.T) {
		loginRec := login(t, s, `{"username":"admin","password":"hunter2"}`)
		cookie := loginRec.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
	})
}
