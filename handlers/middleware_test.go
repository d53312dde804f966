package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ourmemories/memoriesbackend/models"
	"github.com/ourmemories/memoriesbackend/policy"
)

const testSecret = "test-secret"

func identityEcho(t *testing.T, want *policy.Identity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := IdentityFromContext(r.Context())
		if want == nil {
			if got != nil {
				t.Errorf("expected anonymous, got %+v", got)
			}
		} else {
			if got == nil {
				t.Fatal("expected identity in context")
			}
			if got.UserID != want.UserID || got.Email != want.Email || got.Role != want.Role {
				t.Errorf("identity = %+v, want %+v", got, want)
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: 7, Email: "cuong@123.com", Role: models.RoleViewer}
	token, err := IssueToken(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantIdent  *policy.Identity
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
			wantIdent:  &policy.Identity{UserID: 7, Email: "cuong@123.com", Role: models.RoleViewer},
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireAuth(testSecret)(identityEcho(t, tt.wantIdent))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "cuong@123.com", Role: models.RoleViewer}
	token, err := IssueToken(user, testSecret, -time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	handler := RequireAuth(testSecret)(identityEcho(t, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", rec.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	user := &models.User{ID: 7, Email: "cuong@123.com", Role: models.RoleViewer}
	token, err := IssueToken(user, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	handler := RequireAuth(testSecret)(identityEcho(t, nil))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for wrong signing key", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: 3, Email: "guest@example.com", Role: models.RoleViewer}
	token, err := IssueToken(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	t.Run("anonymous passes through", func(t *testing.T) {
		handler := OptionalAuth(testSecret)(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		handler := OptionalAuth(testSecret)(identityEcho(t, &policy.Identity{UserID: 3, Email: "guest@example.com", Role: models.RoleViewer}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("garbage token is treated as anonymous", func(t *testing.T) {
		handler := OptionalAuth(testSecret)(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 as anonymous", rec.Code)
		}
	})

	t.Run("expired token is treated as anonymous", func(t *testing.T) {
		expired, err := IssueToken(user, testSecret, -time.Hour)
		if err != nil {
			t.Fatalf("IssueToken() error = %v", err)
		}
		handler := OptionalAuth(testSecret)(identityEcho(t, nil))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 as anonymous", rec.Code)
		}
	})
}
