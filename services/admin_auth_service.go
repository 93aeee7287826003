package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akinalp/masala/models"
	"github.com/akinalp/masala/pkg"
	"github.com/akinalp/masala/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost, admin şifre hash maliyeti.
const bcryptCost = 12

// tokenIssuer, admin JWT'lerinin iss claim'i.
const tokenIssuer = "masala-admin"

// AdminAuthService, admin kimlik doğrulaması.
//
// İki kimlik kabul edilir: statik dashboard key ve /admin/login'in verdiği
// bearer token. İkisinden biri geçerliyse istek yetkilidir.
type AdminAuthService interface {
	Login(ctx context.Context, req *models.AdminLoginRequest) (string, error)
	ValidateToken(tokenString string) (*models.AdminClaims, error)
	// CheckDashboardKey, key yapılandırılmışsa ve eşleşiyorsa true döner.
	CheckDashboardKey(key string) bool
	// EnsureBootstrapAdmin, hiç admin yoksa verilen bilgilerle bir tane oluşturur.
	EnsureBootstrapAdmin(ctx context.Context, email, password string) error
}

type adminAuthService struct {
	admins       repository.AdminRepository
	dashboardKey string
	jwtSecret    []byte
	tokenExpiry  time.Duration
	log          *zap.SugaredLogger
	now          func() time.Time
}

// NewAdminAuthService, constructor.
func NewAdminAuthService(
	admins repository.AdminRepository,
	dashboardKey string,
	jwtSecret string,
	tokenExpiry time.Duration,
	log *zap.SugaredLogger,
) AdminAuthService {
	return &adminAuthService{
		admins:       admins,
		dashboardKey: dashboardKey,
		jwtSecret:    []byte(jwtSecret),
		tokenExpiry:  tokenExpiry,
		log:          log.Named("admin"),
		now:          time.Now,
	}
}

// Login, email + şifreyi doğrular ve imzalı token döner.
// Kullanıcı yok ile şifre yanlış aynı hatayı verir.
func (s *adminAuthService) Login(ctx context.Context, req *models.AdminLoginRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.admins.GetByEmail(ctx, req.Email)
	if errors.Is(err, pkg.ErrNotFound) {
		return "", fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}

	now := s.now()
	claims := &models.AdminClaims{
		AdminID: user.ID,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	s.log.Infow("admin logged in", "admin_id", user.ID)
	return token, nil
}

func (s *adminAuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AdminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *adminAuthService) CheckDashboardKey(key string) bool {
	if s.dashboardKey == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.dashboardKey)) == 1
}

func (s *adminAuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := s.admins.Create(ctx, user); err != nil {
		return err
	}

	s.log.Infow("bootstrap admin created", "email", email)
	return nil
}
