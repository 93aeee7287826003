// Package orderid, kısa ve okunabilir sipariş numaraları üretir.
//
// Format: "ORD" + şimdiki zamanın salise (1/100 sn) cinsinden son 8 hanesi,
// ör. ORD53124587. Zaman tabanlı olduğu için aynı 10ms içinde gelen iki
// checkout aynı adayı üretir; Generator bu yüzden adayı mevcut kayıtlara
// karşı kontrol eder ve çakışmada numarayı bir artırır.
package orderid

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Prefix, tüm sipariş numaralarının başındaki sabit literal.
const Prefix = "ORD"

const (
	suffixDigits = 8
	suffixMod    = 100_000_000 // 10^8
	maxAttempts  = 100
)

// ErrExhausted, maxAttempts deneme boyunca boş numara bulunamazsa döner.
var ErrExhausted = errors.New("orderid: no free identifier found")

// ExistsFunc, verilen numaranın zaten kullanılıp kullanılmadığını söyler.
// Genelde OrderRepository.Exists'tir.
type ExistsFunc func(ctx context.Context, orderID string) (bool, error)

// Format, t anına karşılık gelen aday numarayı döner.
func Format(t time.Time) string {
	return format(hundredths(t))
}

func hundredths(t time.Time) int64 {
	return (t.UnixNano() / int64(10*time.Millisecond)) % suffixMod
}

func format(n int64) string {
	return fmt.Sprintf("%s%0*d", Prefix, suffixDigits, n)
}

// Generator, çakışma kontrollü numara üretici.
type Generator struct {
	exists ExistsFunc
	now    func() time.Time
}

// NewGenerator, constructor. exists nil ise çakışma kontrolü yapılmaz.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists, now: time.Now}
}

// WithClock, testler için saat fonksiyonunu değiştirir.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next, kullanılmamış bir sipariş numarası döner.
func (g *Generator) Next(ctx context.Context) (string, error) {
	n := hundredths(g.now())
	if g.exists == nil {
		return format(n), nil
	}

	for i := 0; i < maxAttempts; i++ {
		candidate := format((n + int64(i)) % suffixMod)

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check order id %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}
