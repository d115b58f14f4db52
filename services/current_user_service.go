package services

import (
	"errors"
	"time"

	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
)

// CurrentUserService resolves the authenticated principal by the email the
// auth filter extracted from the token. The bare Current lookup is served
// from a bounded TTL cache keyed by email; the eager variants always hit the
// database because their associations must be loaded fresh.
//
// The cache is invalidated on login, self-deletion, admin-driven update or
// deletion, and admin grants. Profile, avatar and password updates do not
// invalidate it; a stale entry can be observed until the TTL expires.
type CurrentUserService interface {
	Current(email string) (*models.User, error)
	CurrentWithSavedEvents(email string) (*models.User, error)
	CurrentWithAttendingEvents(email string) (*models.User, error)
	// OptionalCurrent tolerates anonymous callers: an empty email or an
	// unknown account yields (nil, false) instead of an error.
	OptionalCurrent(email string) (*models.User, bool)
	DeleteCurrent(email string) error
	Invalidate(email string)
}

type currentUserService struct {
	repo  repositories.UserRepository
	cache *expirable.LRU[string, *models.User]
}

var _ CurrentUserService = (*currentUserService)(nil)

// NewCurrentUserService creates a CurrentUserService with a cache bounded to
// size entries, each expiring ttl after being written.
func NewCurrentUserService(repo repositories.UserRepository, size int, ttl time.Duration) CurrentUserService {
	return &currentUserService{
		repo:  repo,
		cache: expirable.NewLRU[string, *models.User](size, nil, ttl),
	}
}

// Current hands each caller its own copy of the user, so mutating the
// returned struct cannot corrupt the cached entry or race other callers.
func (s *currentUserService) Current(email string) (*models.User, error) {
	if user, ok := s.cache.Get(email); ok {
		copied := *user
		return &copied, nil
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}

	cached := *user
	s.cache.Add(email, &cached)
	return user, nil
}

func (s *currentUserService) CurrentWithSavedEvents(email string) (*models.User, error) {
	user, err := s.repo.FindByEmailWithSavedEvents(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user, nil
}

func (s *currentUserService) CurrentWithAttendingEvents(email string) (*models.User, error) {
	user, err := s.repo.FindByEmailWithAttendingEvents(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.UserNotFound()
		}
		return nil, err
	}
	return user, nil
}

func (s *currentUserService) OptionalCurrent(email string) (*models.User, bool) {
	if email == "" {
		return nil, false
	}
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (s *currentUserService) DeleteCurrent(email string) error {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.UserNotFound()
		}
		return err
	}
	if err := s.repo.Delete(user); err != nil {
		return err
	}
	s.Invalidate(email)
	return nil
}

func (s *currentUserService) Invalidate(email string) {
	s.cache.Remove(email)
}
