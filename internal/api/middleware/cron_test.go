package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCronRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cron", RequireCronSecret(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRequireCronSecret(t *testing.T) {
	cases := []struct {
		name       string
		secret     string
		authHeader string
		wantStatus int
	}{
		{"no secret configured", "", "", http.StatusOK},
		{"correct secret", "shh", "Bearer shh", http.StatusOK},
		{"wrong secret", "shh", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "shh", "", http.StatusUnauthorized},
		{"missing bearer prefix", "shh", "shh", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newCronRouter(tc.secret)

			req := httptest.NewRequest("GET", "/cron", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
