// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Alanlar env tag'leri ile tanımlanır; caarlos0/env struct'ı tek seferde doldurur,
// varsayılanlar envDefault tag'lerinde durur.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Storage driver değerleri; dosya tabanlı ve ilişkisel varyant birbirini dışlar.
const (
	StorageCSV    = "csv"
	StorageSQLite = "sqlite"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Storage  StorageConfig
	Email    EmailConfig
	Razorpay RazorpayConfig
	Admin    AdminConfig
	Contact  ContactConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host           string   `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"SERVER_PORT" envDefault:"5000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// TrustForwardedHeaders, rate limit için X-Forwarded-For / X-Real-IP
	// kullanılsın mı. Sadece bu header'ları yeniden yazan bir reverse proxy
	// arkasında açılmalı.
	TrustForwardedHeaders bool `env:"TRUST_FORWARDED_HEADERS" envDefault:"false"`
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// StorageConfig, sipariş ve mesajların nerede tutulacağı.
type StorageConfig struct {
	Driver       string `env:"STORAGE_DRIVER" envDefault:"csv"` // csv | sqlite
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`    // CSV dosyalarının dizini
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/masala.db"`
}

// EmailConfig, Resend ayarları. APIKey veya FromEmail boşsa email gönderimi kapalıdır.
type EmailConfig struct {
	ResendAPIKey  string        `env:"RESEND_API_KEY"`
	FromEmail     string        `env:"RESEND_FROM"`
	FromName      string        `env:"RESEND_FROM_NAME" envDefault:"Mehta Masala Website"`
	BusinessEmail string        `env:"BUSINESS_EMAIL"` // boşsa FromEmail kullanılır
	Timeout       time.Duration `env:"EMAIL_TIMEOUT" envDefault:"10s"`
}

// RazorpayConfig, ödeme gateway ayarları.
type RazorpayConfig struct {
	KeyID     string        `env:"RAZORPAY_KEY_ID"`
	KeySecret string        `env:"RAZORPAY_KEY_SECRET"`
	Currency  string        `env:"RAZORPAY_CURRENCY" envDefault:"INR"`
	Timeout   time.Duration `env:"RAZORPAY_TIMEOUT" envDefault:"10s"`
}

// AdminConfig, admin paneli erişim ayarları.
type AdminConfig struct {
	DashboardKey      string        `env:"ADMIN_DASHBOARD_KEY"`
	JWTSecret         string        `env:"ADMIN_JWT_SECRET"` // Token imzalama anahtarı, GİZLİ TUTULMALI
	TokenExpiry       time.Duration `env:"ADMIN_TOKEN_EXPIRY" envDefault:"12h"`
	BootstrapEmail    string        `env:"ADMIN_EMAIL"`
	BootstrapPassword string        `env:"ADMIN_PASSWORD"`
}

// ContactConfig, iletişim formu spam koruması.
type ContactConfig struct {
	Window     time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"30s"`
	MaxClients int           `env:"CONTACT_RATE_MAX_CLIENTS" envDefault:"10000"`
	RedisURL   string        `env:"CONTACT_RATE_REDIS_URL"` // boşsa in-memory limiter
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler. Dosya yoksa hata vermez, sessizce devam eder.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Email.BusinessEmail == "" {
		cfg.Email.BusinessEmail = cfg.Email.FromEmail
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET environment variable is required")
	}

	switch c.Storage.Driver {
	case StorageCSV, StorageSQLite:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q (want %s or %s)", c.Storage.Driver, StorageCSV, StorageSQLite)
	}

	if c.Contact.Window <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be positive")
	}
	if c.Contact.MaxClients <= 0 {
		return fmt.Errorf("CONTACT_RATE_MAX_CLIENTS must be positive")
	}

	return nil
}

// EmailEnabled, Resend ile gönderim yapılabilecek kadar ayar olup olmadığını döner.
func (c *EmailConfig) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != ""
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:5000").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
