package services

import (
	"errors"
	"strings"

	"neoevents/auth"
	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// The AuthService interface handles registration and login, both returning a
// bearer token.
type AuthService interface {
	Register(input *RegisterInput) (string, error)
	Authenticate(input *AuthenticateInput) (string, error)
}

type RegisterInput struct {
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticateInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	repo        repositories.UserRepository
	currentUser CurrentUserService
}

var _ AuthService = (*authService)(nil)

// NewAuthService creates a new AuthService instance.
func NewAuthService(repo repositories.UserRepository, currentUser CurrentUserService) AuthService {
	return &authService{repo: repo, currentUser: currentUser}
}

func (s *authService) Register(input *RegisterInput) (string, error) {
	var messages []string
	if strings.TrimSpace(input.Name) == "" {
		messages = append(messages, "Name is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		messages = append(messages, "Email is required")
	}
	if input.Password == "" {
		messages = append(messages, "Password is required")
	}
	if len(messages) > 0 {
		return "", &errs.ConstraintViolationError{Messages: messages}
	}

	exists, err := s.repo.ExistsByEmail(input.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errs.NotValid("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:     input.Name,
		LastName: input.LastName,
		Email:    input.Email,
		Password: string(hashedPassword),
		IsAdmin:  false, // Default to regular user
	}
	if err := s.repo.Create(&user); err != nil {
		return "", err
	}

	return auth.GenerateToken(&user)
}

func (s *authService) Authenticate(input *AuthenticateInput) (string, error) {
	user, err := s.repo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Don't reveal whether the account exists.
			return "", errs.InvalidCredentials()
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return "", errs.InvalidCredentials()
	}

	// A fresh login drops any cached copy of the principal.
	s.currentUser.Invalidate(user.Email)

	return auth.GenerateToken(user)
}
