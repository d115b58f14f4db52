package services

import (
	"errors"

	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"gorm.io/gorm"
)

// SaveEventService maintains the caller's saved-events set. Saving an already
// saved event and unsaving a never-saved one are both no-ops.
type SaveEventService interface {
	SaveEvent(email string, eventID uint) error
	UnsaveEvent(email string, eventID uint) error
	GetSavedEvents(email string) ([]EventResponse, error)
}

type saveEventService struct {
	userRepo    repositories.UserRepository
	eventRepo   repositories.EventRepository
	currentUser CurrentUserService
}

var _ SaveEventService = (*saveEventService)(nil)

// NewSaveEventService creates a new SaveEventService instance.
func NewSaveEventService(userRepo repositories.UserRepository, eventRepo repositories.EventRepository, currentUser CurrentUserService) SaveEventService {
	return &saveEventService{userRepo: userRepo, eventRepo: eventRepo, currentUser: currentUser}
}

func (s *saveEventService) SaveEvent(email string, eventID uint) error {
	user, err := s.currentUser.CurrentWithSavedEvents(email)
	if err != nil {
		return err
	}
	event, err := s.findEvent(eventID)
	if err != nil {
		return err
	}
	return s.userRepo.AddSavedEvent(user, event)
}

func (s *saveEventService) UnsaveEvent(email string, eventID uint) error {
	user, err := s.currentUser.CurrentWithSavedEvents(email)
	if err != nil {
		return err
	}
	event, err := s.findEvent(eventID)
	if err != nil {
		return err
	}
	return s.userRepo.RemoveSavedEvent(user, event)
}

func (s *saveEventService) GetSavedEvents(email string) ([]EventResponse, error) {
	user, err := s.currentUser.CurrentWithSavedEvents(email)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(user.SavedEvents))
	for i := range user.SavedEvents {
		out = append(out, NewEventResponse(&user.SavedEvents[i]))
	}
	return out, nil
}

func (s *saveEventService) findEvent(eventID uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.EventNotFound()
		}
		return nil, err
	}
	return event, nil
}
