// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestTokenService(t *testing.T, issuer string) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "blablabook.app")

	token, err := service.GenerateAccessToken(42, "alice", string(RoleMember), time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
	assert.False(t, claims.IsAdmin())
}

func TestTokenService_RejectsExpired(t *testing.T) {
	service := newTestTokenService(t, "blablabook.app")

	token, err := service.GenerateAccessToken(1, "bob", string(RoleAdmin), -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignIssuerAndKey(t *testing.T) {
	service := newTestTokenService(t, "blablabook.app")
	other := newTestTokenService(t, "elsewhere")

	token, err := other.GenerateAccessToken(1, "mallory", string(RoleAdmin), time.Hour)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)

	_, err = service.VerifyToken("not.a.jwt")
	assert.Error(t, err)
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	service := newTestTokenService(t, "blablabook.app")

	first, err := service.GenerateAccessToken(7, "sam", string(RoleMember), time.Hour)
	require.NoError(t, err)
	second, err := service.GenerateAccessToken(7, "sam", string(RoleMember), time.Hour)
	require.NoError(t, err)

	a, err := service.VerifyToken(first)
	require.NoError(t, err)
	b, err := service.VerifyToken(second)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenService_RejectsUserlessAndForeignAlgorithm(t *testing.T) {
	service := newTestTokenService(t, "blablabook.app")

	userless, err := service.GenerateAccessToken(0, "", string(RoleMember), time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(userless)
	assert.Error(t, err)

	hmac := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "blablabook.app",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: 1,
		Role:   string(RoleAdmin),
	})
	forged, err := hmac.SignedString([]byte("guess"))
	require.NoError(t, err)
	_, err = service.VerifyToken(forged)
	assert.Error(t, err)
}

func TestNewTokenService_KeyFiles(t *testing.T) {
	dir := t.TempDir()
	writeKey := func(name string, key *rsa.PrivateKey) (string, string) {
		privateDER := x509.MarshalPKCS1PrivateKey(key)
		publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)

		privatePath := filepath.Join(dir, name+".pem")
		publicPath := filepath.Join(dir, name+".pub.pem")
		require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privateDER}), 0o600))
		require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))
		return privatePath, publicPath
	}

	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyB, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privateA, publicA := writeKey("a", keyA)
	_, publicB := writeKey("b", keyB)

	service, err := NewTokenService(privateA, publicA, "blablabook.app")
	require.NoError(t, err)
	assert.NotNil(t, service)

	_, err = NewTokenService(privateA, publicB, "blablabook.app")
	assert.ErrorContains(t, err, "does not match")

	_, err = NewTokenService(filepath.Join(dir, "missing.pem"), publicA, "blablabook.app")
	assert.Error(t, err)
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleMember.AtLeast(RoleMember))
	assert.False(t, RoleMember.AtLeast(RoleAdmin))
	assert.False(t, UserRole("ghost").AtLeast(RoleMember))

	var claims *AuthClaims
	assert.False(t, claims.IsAdmin())
	assert.True(t, (&AuthClaims{Role: string(RoleAdmin)}).IsAdmin())
}

func TestPasswordHash(t *testing.T) {
	passwordCost = bcrypt.MinCost
	t.Cleanup(func() { passwordCost = bcrypt.DefaultCost })

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
