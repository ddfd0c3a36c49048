package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"influmatch_backend/internal/identity"
	"influmatch_backend/internal/logger"
	"influmatch_backend/internal/messages"
)

type stubParser struct {
	claims  *identity.Claims
	err     error
	revoked bool
}

func (s stubParser) ParseAccessToken(string) (*identity.Claims, error) {
	return s.claims, s.err
}

func (s stubParser) HasActiveSession(ctx context.Context) bool {
	_, ok := identity.ClaimsFromContext(ctx)
	return ok && !s.revoked
}

func newRouter(mw ...gin.HandlerFunc) (*gin.Engine, *map[string]string) {
	gin.SetMode(gin.TestMode)
	seen := map[string]string{}
	r := gin.New()
	r.Use(mw...)
	r.GET("/x", func(c *gin.Context) {
		ctx := c.Request.Context()
		seen["user"] = GetUserID(c)
		seen["lang"] = messages.LanguageFromContext(ctx).String()
		seen["request_id"] = logger.GetRequestID(ctx)
		if claims, ok := identity.ClaimsFromContext(ctx); ok {
			seen["session"] = claims.SessionID()
		}
		c.Status(http.StatusNoContent)
	})
	return r, &seen
}

func serve(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validClaims() *identity.Claims {
	return &identity.Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ID: "s1"}}
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		r, _ := newRouter(LocaleMiddleware(language.Turkish), AuthMiddleware(stubParser{claims: validClaims()}))
		w := serve(r, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Bu işlem için giriş yapmalısınız")
	})

	t.Run("expired token", func(t *testing.T) {
		r, _ := newRouter(LocaleMiddleware(language.Turkish), AuthMiddleware(stubParser{err: identity.ErrSessionExpired}))
		w := serve(r, map[string]string{"Authorization": "Bearer t", "Accept-Language": "en"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_EXPIRED")
		assert.Contains(t, w.Body.String(), "Your session has expired")
	})

	t.Run("revoked session", func(t *testing.T) {
		r, seen := newRouter(LocaleMiddleware(language.Turkish), AuthMiddleware(stubParser{claims: validClaims(), revoked: true}))
		w := serve(r, map[string]string{"Authorization": "Bearer t"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "SESSION_EXPIRED")
		assert.Contains(t, w.Body.String(), "Oturumun süresi doldu")
		assert.Empty(t, (*seen)["user"], "handler must not run")
	})

	t.Run("valid token", func(t *testing.T) {
		r, seen := newRouter(AuthMiddleware(stubParser{claims: validClaims()}))
		w := serve(r, map[string]string{"Authorization": "Bearer t"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "u1", (*seen)["user"])
		assert.Equal(t, "s1", (*seen)["session"])
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r, seen := newRouter(OptionalAuthMiddleware(stubParser{err: identity.ErrInvalidToken}))
	w := serve(r, map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, (*seen)["user"])
}

func TestLocaleMiddleware(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", "tr"},
		{"en-GB,en;q=0.9", "en"},
		{"tr-TR", "tr"},
		{"de-DE", "tr"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r, seen := newRouter(LocaleMiddleware(language.Turkish))
			w := serve(r, map[string]string{"Accept-Language": tt.header})
			assert.Equal(t, tt.want, (*seen)["lang"])
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r, seen := newRouter(RequestIDMiddleware())

	incoming := "0b5e7c8e-3f0a-4f57-9d39-6f4f7e2b1a11"
	w := serve(r, map[string]string{"X-Request-ID": incoming})
	assert.Equal(t, incoming, w.Header().Get("X-Request-ID"))
	assert.Equal(t, incoming, (*seen)["request_id"])

	w = serve(r, map[string]string{"X-Request-ID": "<script>"})
	assert.NotEqual(t, "<script>", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.influmatch.io/"}))
	r.OPTIONS("/x", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.influmatch.io")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.influmatch.io", w.Header().Get("Access-Control-Allow-Origin"))
}
