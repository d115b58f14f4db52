package services

import (
	"errors"

	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"gorm.io/gorm"
)

// AttendEventService maintains the caller's attending-events set. The join
// rows it writes are the same ones Event.Attendees reads, so both sides of
// the relationship stay consistent. Add and remove are idempotent.
type AttendEventService interface {
	AttendEvent(email string, eventID uint) error
	UnattendEvent(email string, eventID uint) error
	GetAttendingEvents(email string) ([]EventResponse, error)
}

type attendEventService struct {
	userRepo    repositories.UserRepository
	eventRepo   repositories.EventRepository
	currentUser CurrentUserService
}

var _ AttendEventService = (*attendEventService)(nil)

// NewAttendEventService creates a new AttendEventService instance.
func NewAttendEventService(userRepo repositories.UserRepository, eventRepo repositories.EventRepository, currentUser CurrentUserService) AttendEventService {
	return &attendEventService{userRepo: userRepo, eventRepo: eventRepo, currentUser: currentUser}
}

func (s *attendEventService) AttendEvent(email string, eventID uint) error {
	user, err := s.currentUser.CurrentWithAttendingEvents(email)
	if err != nil {
		return err
	}
	event, err := s.findEvent(eventID)
	if err != nil {
		return err
	}
	return s.userRepo.AddAttendingEvent(user, event)
}

func (s *attendEventService) UnattendEvent(email string, eventID uint) error {
	user, err := s.currentUser.CurrentWithAttendingEvents(email)
	if err != nil {
		return err
	}
	event, err := s.findEvent(eventID)
	if err != nil {
		return err
	}
	return s.userRepo.RemoveAttendingEvent(user, event)
}

func (s *attendEventService) GetAttendingEvents(email string) ([]EventResponse, error) {
	user, err := s.currentUser.CurrentWithAttendingEvents(email)
	if err != nil {
		return nil, err
	}

	out := make([]EventResponse, 0, len(user.AttendingEvents))
	for i := range user.AttendingEvents {
		out = append(out, NewEventResponse(&user.AttendingEvents[i]))
	}
	return out, nil
}

func (s *attendEventService) findEvent(eventID uint) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.EventNotFound()
		}
		return nil, err
	}
	return event, nil
}
