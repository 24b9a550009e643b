package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTrustedSubnetMiddleware(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name          string
		trustedSubnet string
		realIP        string
		expectedCode  int
	}{
		{
			name:          "IP in trusted subnet",
			trustedSubnet: "10.0.0.0/8",
			realIP:        "10.1.2.3",
			expectedCode:  http.StatusOK,
		},
		{
			name:          "IP outside trusted subnet",
			trustedSubnet: "10.0.0.0/8",
			realIP:        "192.168.1.1",
			expectedCode:  http.StatusForbidden,
		},
		{
			name:          "empty trusted subnet denies everything",
			trustedSubnet: "",
			realIP:        "10.1.2.3",
			expectedCode:  http.StatusForbidden,
		},
		{
			name:          "missing X-Real-IP header",
			trustedSubnet: "10.0.0.0/8",
			realIP:        "",
			expectedCode:  http.StatusForbidden,
		},
		{
			name:          "invalid X-Real-IP header",
			trustedSubnet: "10.0.0.0/8",
			realIP:        "not-an-ip",
			expectedCode:  http.StatusForbidden,
		},
		{
			name:          "invalid CIDR configuration",
			trustedSubnet: "not-a-cidr",
			realIP:        "10.1.2.3",
			expectedCode:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := TrustedSubnetMiddleware(tt.trustedSubnet, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/internal/stats", nil)
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code, "Status code should match")
		})
	}
}
