// Navarasa - Music Emotion Analyzer
// Copyright 2026 Navarasa Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/navarasa/analyzer

// Package auth guards the admin contact surface.
//
// Two modes, selected by AUTH_MODE:
//   - "none": the admin routes are open. This matches the original
//     deployment, where the contact inbox had no login.
//   - "jwt": admin routes require a Bearer token issued by POST
//     /api/auth/login against the configured admin credentials.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/navarasa/analyzer/internal/config"
)

// RoleAdmin is the only role the analyzer issues.
const RoleAdmin = "admin"

// ErrInvalidCredentials is returned for a failed login. The message is
// deliberately uniform across unknown-user and wrong-password cases.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims represents the JWT claims carried by admin tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates admin tokens using HMAC-SHA256.
type JWTManager struct {
	secret        []byte
	timeout       time.Duration
	adminUsername string
	adminHash     []byte
}

// NewJWTManager builds a manager from the security configuration. The
// secret length is enforced at config validation time; this constructor
// only rejects a missing secret outright.
func NewJWTManager(cfg config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}

	return &JWTManager{
		secret:        []byte(cfg.JWTSecret),
		timeout:       timeout,
		adminUsername: cfg.AdminUsername,
		adminHash:     []byte(cfg.AdminPasswordHash),
	}, nil
}

// Login checks the admin credentials and returns a signed token. The
// bcrypt comparison runs even for a wrong username so response timing does
// not reveal which part failed.
func (m *JWTManager) Login(username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.adminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(m.adminHash, []byte(password))

	if !usernameOK || passwordErr != nil {
		return "", ErrInvalidCredentials
	}

	return m.GenerateToken(username, RoleAdmin)
}

// GenerateToken creates a signed token for an authenticated user. Tokens
// are stateless; they expire after the configured session timeout and
// cannot be revoked earlier.
func (m *JWTManager) GenerateToken(username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies the signature, algorithm, and time claims of a
// token and returns its claims. The algorithm check rejects anything but
// HMAC to prevent algorithm confusion.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
