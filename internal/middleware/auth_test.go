package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"budgetwise/internal/models"
)

func testUser() *models.User {
	user := &models.User{Email: "ada@example.com"}
	user.ID = "0190a7a4-7e2b-7c1f-9a6e-2f3b4c5d6e7f"
	return user
}

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	user := testUser()
	access, err := GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:    user.ID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
		},
	})
	forged, _ := foreign.SignedString([]byte("other-secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:    user.ID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    tokenIssuer,
		},
	})
	stale, _ := expired.SignedString(getJWTKey())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid_access_token", "Bearer " + access, http.StatusOK},
		{"missing_header", "", http.StatusUnauthorized},
		{"wrong_scheme", "Token " + access, http.StatusUnauthorized},
		{"refresh_token_rejected", "Bearer " + refresh, http.StatusUnauthorized},
		{"wrong_signing_key", "Bearer " + forged, http.StatusUnauthorized},
		{"expired_token", "Bearer " + stale, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	router := setupAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(router, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				body := parseBody(t, rec)
				if body["user_id"] != user.ID {
					t.Errorf("user_id = %v, want %s", body["user_id"], user.ID)
				}
			} else {
				body := parseBody(t, rec)
				errObj, _ := body["error"].(map[string]any)
				if code, _ := errObj["code"].(string); code != "UNAUTHORIZED" {
					t.Errorf("error code = %q, want UNAUTHORIZED", code)
				}
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	user := testUser()

	refresh, err := GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected valid refresh token, got %v", err)
	}
	if claims.UserID != user.ID || claims.Subject != user.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}

	access, _ := GenerateAccessToken(user)
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("expected access token to be rejected as refresh token")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a != HashToken("token-a") {
		t.Error("expected hashing to be deterministic")
	}
	if a == HashToken("token-b") {
		t.Error("expected different tokens to hash differently")
	}
}
