package services

import (
	"testing"
	"time"

	"neoevents/auth"
	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, repositories.UserRepository, CurrentUserService) {
	db := setupTestDB(t)
	repo := repositories.NewUserRepository(db)
	currentUser := NewCurrentUserService(repo, 10, time.Hour)
	return NewAuthService(repo, currentUser), repo, currentUser
}

func TestRegister(t *testing.T) {
	service, repo, _ := newAuthFixture(t)

	t.Run("Success returns a token with claims", func(t *testing.T) {
		token, err := service.Register(&RegisterInput{
			Name:     "Marko",
			LastName: "Markovic",
			Email:    "marko@example.com",
			Password: "secret123",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := auth.ParseAndValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "marko@example.com", claims.Email)
		assert.False(t, claims.IsAdmin)

		stored, err := repo.FindByEmail("marko@example.com")
		assert.NoError(t, err)
		assert.NotEqual(t, "secret123", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
	})

	t.Run("Missing fields are aggregated", func(t *testing.T) {
		_, err := service.Register(&RegisterInput{})

		var violation *errs.ConstraintViolationError
		assert.ErrorAs(t, err, &violation)
		assert.Contains(t, violation.Messages, "Name is required")
		assert.Contains(t, violation.Messages, "Email is required")
		assert.Contains(t, violation.Messages, "Password is required")
	})

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := service.Register(&RegisterInput{
			Name:     "Second",
			Email:    "marko@example.com",
			Password: "another",
		})

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)
		assert.Equal(t, "Email already registered", notValid.Message)
	})
}

func TestAuthenticate(t *testing.T) {
	service, repo, currentUser := newAuthFixture(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correctpassword"), bcrypt.DefaultCost)
	user := &models.User{Name: "Jelena", Email: "jelena@example.com", Password: string(hashed)}
	assert.NoError(t, repo.Create(user))

	t.Run("Successful login", func(t *testing.T) {
		token, err := service.Authenticate(&AuthenticateInput{
			Email:    "jelena@example.com",
			Password: "correctpassword",
		})
		assert.NoError(t, err)

		claims, err := auth.ParseAndValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "jelena@example.com", claims.Email)
	})

	t.Run("Unknown account looks like a wrong password", func(t *testing.T) {
		_, err := service.Authenticate(&AuthenticateInput{
			Email:    "nobody@example.com",
			Password: "whatever",
		})

		var invalid *errs.InvalidCredentialsError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Invalid email or password", invalid.Message)
	})

	t.Run("Incorrect password", func(t *testing.T) {
		_, err := service.Authenticate(&AuthenticateInput{
			Email:    "jelena@example.com",
			Password: "wrongpassword",
		})

		var invalid *errs.InvalidCredentialsError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Login drops the cached principal", func(t *testing.T) {
		// Warm the cache, change the row behind it, then log in again.
		cached, err := currentUser.Current("jelena@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Jelena", cached.Name)

		stored, _ := repo.FindByEmail("jelena@example.com")
		stored.Name = "Renamed"
		assert.NoError(t, repo.Update(stored))

		_, err = service.Authenticate(&AuthenticateInput{
			Email:    "jelena@example.com",
			Password: "correctpassword",
		})
		assert.NoError(t, err)

		fresh, err := currentUser.Current("jelena@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", fresh.Name)
	})
}
