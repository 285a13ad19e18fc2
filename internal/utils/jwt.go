package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Raghu0511/canteen-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "canteen-api"
	DefaultStaffTTL = 12 * time.Hour
	minSecretLength = 8
)

var ErrSecretNotConfigured = errors.New("JWT secret not configured")

// GenerateStaffToken signs a bearer token for a staff member or manager.
func GenerateStaffToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if len(secret) < minSecretLength {
		return "", ErrSecretNotConfigured
	}
	if role != models.RoleStaff && role != models.RoleManager {
		return "", fmt.Errorf("unknown role %q", role)
	}
	if ttl <= 0 {
		ttl = DefaultStaffTTL
	}

	now := time.Now()
	claims := models.StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   subject,
		},
		Role:        role,
		Permissions: models.GetDefaultPermissions(role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseStaffToken parses and validates a token produced by GenerateStaffToken.
func ParseStaffToken(secret, tokenStr string) (*models.StaffClaims, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretNotConfigured
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.StaffClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.StaffClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
