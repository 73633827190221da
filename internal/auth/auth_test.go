package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coderved63/FleetFlow-Odoo/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	svc := NewService()

	hash, err := svc.HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, svc.CheckPassword("password123", hash))
	assert.False(t, svc.CheckPassword("wrong-password", hash))
	assert.False(t, svc.CheckPassword("password123", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService()
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "dispatcher@fleetflow.com",
		Role:  models.RoleDispatcher,
	}

	token, err := svc.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleDispatcher, claims.Role)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewService()

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := &Service{
		jwtSecret: []byte("fleetflow_super_secret_key"),
		tokenExp:  -time.Hour,
	}
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Role: models.RoleAdmin}

	token, err := svc.GenerateToken(user)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := &Service{jwtSecret: []byte("someone-elses-secret"), tokenExp: time.Hour}
	verifier := &Service{jwtSecret: []byte("fleetflow_super_secret_key"), tokenExp: time.Hour}
	user := &models.User{ID: primitive.NewObjectID(), Email: "a@b.c", Role: models.RoleAdmin}

	token, err := issuer.GenerateToken(user)
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := NewService()

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc.def.ghi"} {
		_, err := svc.ExtractTokenFromHeader(header)
		assert.ErrorIs(t, err, ErrInvalidToken, header)
	}
}

func TestValidatePassword(t *testing.T) {
	svc := NewService()
	assert.NoError(t, svc.ValidatePassword("password123"))
	assert.Error(t, svc.ValidatePassword("short"))
}

func TestValidateEmail(t *testing.T) {
	svc := NewService()
	assert.NoError(t, svc.ValidateEmail("ops@fleetflow.com"))
	assert.Error(t, svc.ValidateEmail("not-an-email"))
	assert.Error(t, svc.ValidateEmail("missing@dot"))
}
