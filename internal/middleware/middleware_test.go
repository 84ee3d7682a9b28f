package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/beauty-booking/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func authRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(cfg), RequireRole(RoleProvider), func(c *gin.Context) {
		c.JSON(200, gin.H{"id": c.MustGet(ContextUserID).(uint)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cret"}
	r := authRouter(cfg)
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + sign(t, "other", jwt.MapClaims{"sub": 1, "role": "provider", "exp": exp}), http.StatusUnauthorized},
		{"unknown role", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"customer on provider route", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "role": "customer", "exp": exp}), http.StatusForbidden},
		{"provider", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 7, "role": "provider", "exp": exp}), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestAuthenticateErrorCodes(t *testing.T) {
	secret := []byte("s3cret")
	exp := time.Now().Add(time.Hour).Unix()

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"sub": 1, "role": "provider", "exp": exp}).SignedString(secret)
	assert.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing", "", errMissingHeader},
		{"no token", "Bearer ", errBadHeader},
		{"other algorithm", "Bearer " + hs384, errBadToken},
		{"expired", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 1, "role": "provider", "exp": time.Now().Add(-time.Minute).Unix()}), errBadToken},
		{"no subject", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"role": "customer", "exp": exp}), errBadPayload},
		{"zero subject", "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": 0, "role": "customer", "exp": exp}), errBadPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authenticate(tc.header, secret)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	id, err := authenticate("bearer "+sign(t, "s3cret", jwt.MapClaims{"sub": 42, "role": "customer", "exp": exp}), secret)
	assert.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Role: RoleCustomer}, id)
}

func TestAuthErrorsUseErrorEnvelope(t *testing.T) {
	r := authRouter(&config.Config{JWTSecret: "s3cret"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error_code":"missing_authorization_header","message":"Authentication required."}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/ping", RateLimit(2, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	newRouter := func(allowed ...string) *gin.Engine {
		r := gin.New()
		r.Use(CORSMiddleware(allowed))
		r.GET("/api/providers/1/offerings", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	send := func(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/providers/1/offerings", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	r := newRouter("https://book.example.com/")

	w := send(r, http.MethodGet, "https://Book.Example.com")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://Book.Example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = send(r, http.MethodOptions, "https://book.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w = send(r, http.MethodGet, "https://evil.example.net")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = send(r, http.MethodOptions, "https://evil.example.net")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(r, http.MethodGet, "")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = send(newRouter("*"), http.MethodGet, "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
