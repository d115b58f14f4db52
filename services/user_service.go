package services

import (
	"errors"

	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// The UserService interface covers user lookup, admin-driven mutation, and
// the self-service profile endpoints.
type UserService interface {
	GetUserByID(userID uint) (*models.User, error)
	UpdateUserByID(userID uint, name, lastName string) (*models.User, error)
	DeleteUserByID(userID uint) error
	MakeAdminByEmail(email string) (*models.User, error)

	UpdateProfile(email, newName, newLastName string) (*models.User, error)
	UpdateAvatar(email string, avatarID int) (*models.User, error)
	UpdatePassword(email, currentPassword, newPassword string) error
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
	AvatarID int    `json:"avatarId"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		AvatarID: user.AvatarID,
	}
}

type userService struct {
	repo        repositories.UserRepository
	currentUser CurrentUserService
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new UserService instance.
func NewUserService(repo repositories.UserRepository, currentUser CurrentUserService) UserService {
	return &userService{repo: repo, currentUser: currentUser}
}

func (s *userService) GetUserByID(userID uint) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserByID updates the modifiable identity fields. Password changes go
// through UpdatePassword.
func (s *userService) UpdateUserByID(userID uint, name, lastName string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.LastName = lastName
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	s.currentUser.Invalidate(user.Email)
	return user, nil
}

func (s *userService) DeleteUserByID(userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(user); err != nil {
		return err
	}
	s.currentUser.Invalidate(user.Email)
	return nil
}

func (s *userService) MakeAdminByEmail(email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}

	user.IsAdmin = true
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	s.currentUser.Invalidate(user.Email)
	return user, nil
}

// The profile operations below deliberately do not touch the current-user
// cache; a cached principal can stay stale until the TTL expires.

func (s *userService) UpdateProfile(email, newName, newLastName string) (*models.User, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}

	user.Name = newName
	user.LastName = newLastName
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateAvatar(email string, avatarID int) (*models.User, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}

	user.AvatarID = avatarID
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdatePassword(email, currentPassword, newPassword string) error {
	user, err := s.findByEmail(email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return &errs.InvalidCredentialsError{Message: "Current password is incorrect"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	return s.repo.Update(user)
}

func (s *userService) findByEmail(email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user, nil
}
