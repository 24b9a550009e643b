// Package middleware содержит HTTP middleware для обработки запросов.
// Включает аутентификацию, логирование, сжатие ответов и проверку доверенных подсетей.
package middleware

import (
	"net"
	"net/http"

	"go.uber.org/zap"
)

// TrustedSubnetMiddleware создаёт middleware для проверки IP-адреса в доверенной подсети.
// Проверяет заголовок X-Real-IP и сравнивает с CIDR-нотацией trusted_subnet.
func TrustedSubnetMiddleware(trustedSubnet string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Пустой trusted_subnet закрывает внутренние маршруты полностью
			if trustedSubnet == "" {
				logger.Warn("Access denied: trusted_subnet is empty",
					zap.String("uri", r.RequestURI),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			clientIP := r.Header.Get("X-Real-IP")
			ip := net.ParseIP(clientIP)
			if ip == nil {
				logger.Warn("Access denied: missing or invalid X-Real-IP header",
					zap.String("uri", r.RequestURI),
					zap.String("client_ip", clientIP),
					zap.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			_, network, err := net.ParseCIDR(trustedSubnet)
			if err != nil {
				logger.Error("Invalid trusted_subnet CIDR",
					zap.String("trusted_subnet", trustedSubnet),
					zap.Error(err))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			if !network.Contains(ip) {
				logger.Warn("Access denied: IP not in trusted subnet",
					zap.String("uri", r.RequestURI),
					zap.String("client_ip", clientIP),
					zap.String("trusted_subnet", trustedSubnet))
				http.Error(w, "Access denied", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
