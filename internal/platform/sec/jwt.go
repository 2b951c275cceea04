// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. Domain services only see the [AuthClaims] produced by
// [TokenService.VerifyToken].
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/blablabook/pkg/uuidv7"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The user id and role are embedded so [middleware.Authenticate] can rebuild the
// acting user without a database round-trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   int64  `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// IsAdmin reports whether the claims carry the admin role.
func (claims *AuthClaims) IsAdmin() bool {
	return claims != nil && UserRole(claims.Role).AtLeast(RoleAdmin)
}

// TokenService signs and verifies RS256 access tokens.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
}

// NewTokenService loads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readPEM(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := readPEM(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, fmt.Errorf("sec: public key %s does not match the private key", publicKeyPath)
	}
	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

func readPEM[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: read key %s: %w", path, err)
	}
	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: parse key %s: %w", path, err)
	}
	return key, nil
}

// NewTokenServiceFromKeys builds a TokenService from already-parsed keys.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(tokenLeeway),
		),
	}
}

// tokenLeeway absorbs clock skew between API replicas.
const tokenLeeway = 30 * time.Second

// GenerateAccessToken signs a token for the user valid for timeToLive. Each
// token carries a unique jti for log correlation.
func (service *TokenService) GenerateAccessToken(userID int64, username, role string, timeToLive time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, issuer and expiry, and that the token names a user.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.publicKey, nil
	}); err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("sec: token has no user")
	}
	return claims, nil
}
