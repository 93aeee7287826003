// Package logging, uygulama genelinde kullanılan zap logger'ını oluşturur.
//
// Her katman kendi isimli child logger'ını alır:
//
//	log := logging.New("info", false)
//	orderLog := log.Named("orders")
//	orderLog.Infow("order stored", "order_id", id)
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New, seviyesi ayarlanmış bir SugaredLogger döner.
// development=true → okunabilir console çıktısı; false → JSON (production).
// Geçersiz seviye "info"ya düşer.
func New(level string, development bool) *zap.SugaredLogger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		panic("cannot initialize zap")
	}

	return logger.Sugar()
}
