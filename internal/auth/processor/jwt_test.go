package processor

import (
	"context"
	"testing"
	"time"

	"adpulse-server/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

func newTestProcessor() AuthProcessor {
	return New(new(MockCompanyStore), testJWTSecret, observability.NewLogger())
}

func TestValidateJWTToken_RoundTrip(t *testing.T) {
	processor := newTestProcessor()
	ctx := context.Background()
	companyID := primitive.NewObjectID()

	token, err := processor.generateJWTToken(ctx, companyID)
	require.NoError(t, err)

	claims, err := processor.ValidateJWTToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, companyID.Hex(), claims.Subject)
	assert.Equal(t, "adpulse-server", claims.Issuer)
}

func TestValidateJWTToken_Expired(t *testing.T) {
	processor := newTestProcessor()
	ctx := context.Background()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-25 * time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	_, err = processor.ValidateJWTToken(ctx, tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateJWTToken_WrongSecret(t *testing.T) {
	processor := newTestProcessor()
	ctx := context.Background()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := forged.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = processor.ValidateJWTToken(ctx, tokenString)
	assert.ErrorIs(t, err, ErrParseJWTToken)
}

func TestValidateJWTToken_Garbage(t *testing.T) {
	processor := newTestProcessor()

	_, err := processor.ValidateJWTToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrParseJWTToken)
}
