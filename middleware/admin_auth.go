// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Middleware bir func(next http.Handler) http.Handler'dır: kendi işini yapar,
// sonra next'i çağırır. Hata varsa next çağrılmaz ve request burada biter.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/services"
)

type contextKey string

// AdminActorKey, yetkilendirilmiş isteği kimin yaptığını context'te taşır:
// "dashboard-key" ya da token'daki admin email'i.
const AdminActorKey contextKey = "admin_actor"

// DashboardKeyActor, statik key ile gelen isteklerin actor değeri.
const DashboardKeyActor = "dashboard-key"

// AdminAuth, admin endpoint'lerinin kimlik kontrolü.
type AdminAuth struct {
	auth services.AdminAuthService
}

// NewAdminAuth, constructor.
func NewAdminAuth(auth services.AdminAuthService) *AdminAuth {
	return &AdminAuth{auth: auth}
}

// Authorize, isteğin admin yetkisi olup olmadığını kontrol eder ve actor'ü döner.
//
// Sırasıyla denenir:
//  1. key parametresi (body'den gelen) veya ?key= query parametresi
//  2. Authorization: Bearer <token>
//
// Body'li endpoint'ler body'yi decode ettikten sonra key alanını buraya verir.
func (m *AdminAuth) Authorize(r *http.Request, key string) (string, error) {
	if key == "" {
		key = r.URL.Query().Get("key")
	}
	if m.auth.CheckDashboardKey(key) {
		return DashboardKeyActor, nil
	}

	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
		claims, err := m.auth.ValidateToken(token)
		if err != nil {
			return "", err
		}
		return claims.Email, nil
	}

	return "", fmt.Errorf("%w: Unauthorized", pkg.ErrUnauthorized)
}

// Require, body'siz (GET) admin endpoint'leri için middleware.
// Yetki yoksa 401 döner, varsa actor context'e eklenir.
func (m *AdminAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := m.Authorize(r, "")
		if err != nil {
			pkg.Error(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), AdminActorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext, Require'ın eklediği actor'ü döner; yoksa boş string.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(AdminActorKey).(string)
	return actor
}
