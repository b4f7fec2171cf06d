package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"divitrack/internal/config"
	"divitrack/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "middleware-test-secret",
		JWTExpirationDur: time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		Base:  models.Base{ID: "018f0000-0000-7000-8000-0000000000aa"},
		Email: "auth@test.com",
	}
}

func setupAuthRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	token, err := GenerateToken(cfg, user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid_token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing_header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed_header",
			authHeader: token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong_scheme",
			authHeader: "Basic " + token,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage_token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(cfg)
			rec := doAuthRequest(router, "/test", tt.authHeader)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	t.Run("sets_user_in_context", func(t *testing.T) {
		router := setupAuthRouter(cfg)
		rec := doAuthRequest(router, "/test", "Bearer "+token)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if want := `"user_id":"` + user.ID + `"`; !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected body to contain %s, got %s", want, rec.Body.String())
		}
	})

	t.Run("rejects_token_signed_with_other_secret", func(t *testing.T) {
		otherCfg := &config.Config{JWTSecret: "other-secret", JWTExpirationDur: time.Hour}
		otherToken, err := GenerateToken(otherCfg, user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		router := setupAuthRouter(cfg)
		rec := doAuthRequest(router, "/test", "Bearer "+otherToken)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejects_expired_token", func(t *testing.T) {
		expiredCfg := &config.Config{JWTSecret: cfg.JWTSecret, JWTExpirationDur: -time.Hour}
		expiredToken, err := GenerateToken(expiredCfg, user)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}

		router := setupAuthRouter(cfg)
		rec := doAuthRequest(router, "/test", "Bearer "+expiredToken)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestWSAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	user := testUser()

	token, err := GenerateToken(cfg, user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	setupRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(WSAuthMiddleware(cfg))
		r.GET("/ws", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
		})
		return r
	}

	t.Run("token_from_query_parameter", func(t *testing.T) {
		rec := doAuthRequest(setupRouter(), "/ws?token="+token, "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("falls_back_to_bearer_header", func(t *testing.T) {
		rec := doAuthRequest(setupRouter(), "/ws", "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		rec := doAuthRequest(setupRouter(), "/ws", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid_query_token", func(t *testing.T) {
		rec := doAuthRequest(setupRouter(), "/ws?token=garbage", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
