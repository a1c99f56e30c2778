package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTVerifier_Verify(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.Sign(Claims{
		Username:    "ada",
		Email:       "ada@example.com",
		PhoneNumber: "+15550001111",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	u, err := v.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", u.Subject)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "+15550001111", u.PhoneNumber)
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := NewJWTVerifier("secret")
	other := NewJWTVerifier("other")

	foreign, err := other.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})
	require.NoError(t, err)
	expired, err := v.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}})
	require.NoError(t, err)
	noSubject, err := v.Sign(Claims{Username: "x"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"empty", "", ErrMissingToken},
		{"wrong scheme", "Basic abc", ErrMissingToken},
		{"bearer only", "Bearer ", ErrMissingToken},
		{"garbage", "Bearer not-a-jwt", ErrInvalidToken},
		{"wrong secret", "Bearer " + foreign, ErrInvalidToken},
		{"expired", "Bearer " + expired, ErrInvalidToken},
		{"no subject", "Bearer " + noSubject, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.header)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJWTVerifier_RejectsOtherAlgorithms(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = v.Verify("Bearer " + token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
