package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret")

	tokenString, err := tokens.Issue(42, "alice", "alice@x.com", TokenTTL)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := tokens.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestVerify_Expired(t *testing.T) {
	tokens := NewTokenService("test-secret")

	tokenString, err := tokens.Issue(1, "bob", "bob@x.com", -time.Minute)
	assert.NoError(t, err)

	_, err = tokens.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	issued, err := NewTokenService("secret-a").Issue(1, "bob", "bob@x.com", TokenTTL)
	assert.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(issued)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, err := tokens.Verify("not-a-token")
	assert.Error(t, err)
}

func TestTokensAreUnique(t *testing.T) {
	tokens := NewTokenService("test-secret")

	first, err1 := tokens.Issue(1, "bob", "bob@x.com", TokenTTL)
	second, err2 := tokens.Issue(2, "carol", "carol@x.com", TokenTTL)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, first, second)
}
