package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/database"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) (*store.SessionStore, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db), store.NewUserStore(db)
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"authentication required"}` {
		t.Errorf("body = %s", body)
	}
}

func TestRequireAuthNoCredentials(t *testing.T) {
	ss, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	ss, _ := setupAuthMiddlewareDB(t)

	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestRequireAuthExpiredSession(t *testing.T) {
	ss, us := setupAuthMiddlewareDB(t)
	ctx := context.Background()

	u, _ := us.Create(ctx, "alice@example.com", "Alice", "password123")
	sess, _ := ss.Create(ctx, u.ID, -time.Minute)

	handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assertUnauthorized(t, rec)
}

func TestRequireAuthValidSession(t *testing.T) {
	ss, us := setupAuthMiddlewareDB(t)
	ctx := context.Background()

	u, _ := us.Create(ctx, "alice@example.com", "Alice", "password123")
	sess, _ := ss.Create(ctx, u.ID, time.Hour)

	for _, viaCookie := range []bool{true, false} {
		var gotAC auth.AuthContext
		handler := RequireAuth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac, ok := auth.FromContext(r.Context())
			if !ok {
				t.Fatal("expected AuthContext in request context")
			}
			gotAC = ac
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/api/notes", nil)
		if viaCookie {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
		} else {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("cookie=%v: status = %d, want %d", viaCookie, rec.Code, http.StatusOK)
		}
		if gotAC.UserID != u.ID {
			t.Errorf("cookie=%v: UserID = %q, want %q", viaCookie, gotAC.UserID, u.ID)
		}
		if gotAC.SessionID != sess.ID {
			t.Errorf("cookie=%v: SessionID = %q, want %q", viaCookie, gotAC.SessionID, sess.ID)
		}
	}
}

func TestRequireAuthLogsUser(t *testing.T) {
	ss, us := setupAuthMiddlewareDB(t)
	ctx := context.Background()

	u, _ := us.Create(ctx, "alice@example.com", "Alice", "password123")
	sess, _ := ss.Create(ctx, u.ID, time.Hour)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	handler := RequestLogger(logger)(RequireAuth(ss)(okHandler()))

	req := httptest.NewRequest("GET", "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "user_id="+u.ID) {
		t.Errorf("log %q missing user_id", buf.String())
	}
}

func TestSessionTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	if got := SessionToken(req); got != "from-cookie" {
		t.Errorf("SessionToken = %q, want %q", got, "from-cookie")
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	if got := SessionToken(req); got != "" {
		t.Errorf("SessionToken = %q, want empty for non-bearer auth", got)
	}
}
