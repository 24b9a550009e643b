// Package config содержит конфигурацию приложения
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config содержит настройки приложения
type Config struct {
	RunAddr         string
	SiteURL         string
	FileStoragePath string
	DatabaseDSN     string
	JWTSecret       string
	CookieTTL       time.Duration
	TrustedSubnet   string
	GRPCAddr        string
}

// NewConfig создает и возвращает новый объект Config с настройками по умолчанию и парсит флаги командной строки
func NewConfig() (*Config, error) {
	cfg := &Config{
		RunAddr:         ":8080",
		SiteURL:         "http://localhost:8080",
		FileStoragePath: "",
		DatabaseDSN:     "",
		JWTSecret:       "default_jwt_secret",
		CookieTTL:       24 * time.Hour * 30,
	}

	// Регистрируем флаги
	flagRunAddr := flag.String("a", ":8080", "address and port to run server")
	flagSiteURL := flag.String("b", "http://localhost:8080", "site origin for shareable list URLs")
	flagFilePath := flag.String("f", "", "path to file for storing lists")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL")
	flagJWTSecret := flag.String("j", "default_jwt_secret", "JWT secret key")
	flagTrustedSubnet := flag.String("t", "", "trusted subnet in CIDR notation for internal stats")
	flagGRPCAddr := flag.String("g", "", "address and port to run gRPC server")
	flag.Parse()

	// Проверяем переменные окружения
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.RunAddr = addr
	} else if *flagRunAddr != "" {
		cfg.RunAddr = *flagRunAddr
	}

	if url := os.Getenv("SITE_URL"); url != "" {
		cfg.SiteURL = url
	} else if *flagSiteURL != "" {
		cfg.SiteURL = *flagSiteURL
	}

	if path := os.Getenv("FILE_STORAGE_PATH"); path != "" {
		cfg.FileStoragePath = path
	} else if *flagFilePath != "" {
		cfg.FileStoragePath = *flagFilePath
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.DatabaseDSN = dsn
	} else if *flagDatabaseDSN != "" {
		cfg.DatabaseDSN = *flagDatabaseDSN
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	} else if *flagJWTSecret != "" {
		cfg.JWTSecret = *flagJWTSecret
	}

	if subnet := os.Getenv("TRUSTED_SUBNET"); subnet != "" {
		cfg.TrustedSubnet = subnet
	} else if *flagTrustedSubnet != "" {
		cfg.TrustedSubnet = *flagTrustedSubnet
	}

	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		cfg.GRPCAddr = addr
	} else if *flagGRPCAddr != "" {
		cfg.GRPCAddr = *flagGRPCAddr
	}

	// Валидация значений
	if !strings.Contains(cfg.RunAddr, ":") {
		cfg.RunAddr = ":" + cfg.RunAddr
	}
	if !strings.HasPrefix(cfg.SiteURL, "http://") && !strings.HasPrefix(cfg.SiteURL, "https://") {
		cfg.SiteURL = "http://" + cfg.SiteURL
	}
	if cfg.FileStoragePath != "" {
		// Создаём директорию для файла, если она не существует
		dir := filepath.Dir(cfg.FileStoragePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
