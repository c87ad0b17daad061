package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-secret"))
	require.NoError(t, err)
	return tok
}

func TestDecodeAccessTokenReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, AccessClaims{
		UserID:           "u1",
		Role:             "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})

	claims, err := DecodeAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	got, ok := TokenExpiry(tok)
	assert.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryOpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt")
	assert.False(t, ok)

	_, ok = TokenExpiry(signed(t, jwt.RegisteredClaims{Subject: "u1"}))
	assert.False(t, ok)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out := string(RenderMarkdown("# Hi\n\n<script>alert(1)</script>\n\n**bold**"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}
