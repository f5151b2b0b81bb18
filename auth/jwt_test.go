package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercari_mini_back_end_go/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("failed to generate token: %s", err.Error())
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %s", err.Error())
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected user id: want: user-1, got: %s", claims.UserID)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := &auth.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.GetSecret()))
	if err != nil {
		t.Fatalf("failed to sign token: %s", err.Error())
	}

	if _, err := auth.ParseToken(expired); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	claims := &auth.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %s", err.Error())
	}

	if _, err := auth.ParseToken(forged); err == nil {
		t.Fatal("expected an error for a forged token")
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	valid, err := auth.GenerateToken("user-1")
	if err != nil {
		t.Fatalf("failed to generate token: %s", err.Error())
	}

	cases := map[string]struct {
		authorization  string
		wantStatusCode int
		wantUserID     string
	}{
		"200: valid bearer token": {
			authorization:  "Bearer " + valid,
			wantStatusCode: http.StatusOK,
			wantUserID:     "user-1",
		},
		"401: missing header": {
			authorization:  "",
			wantStatusCode: http.StatusUnauthorized,
		},
		"401: no bearer prefix": {
			authorization:  valid,
			wantStatusCode: http.StatusUnauthorized,
		},
		"401: garbage token": {
			authorization:  "Bearer not.a.token",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for name, tt := range cases {
		tt := tt

		t.Run(name, func(t *testing.T) {
			r := gin.New()
			var gotUserID string
			r.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
				gotUserID, _ = auth.CurrentUserID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Fatalf("unexpected status code: want: %d, got: %d", tt.wantStatusCode, rec.Code)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Fatalf("unexpected user id: want: %s, got: %s", tt.wantUserID, gotUserID)
			}
		})
	}
}
