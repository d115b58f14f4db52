package services

import (
	"errors"
	"strings"
	"time"

	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"gorm.io/gorm"
)

// The EventService interface covers the event query and mutation operations.
// All listing queries only return upcoming events (start strictly after the
// time of the call).
type EventService interface {
	GetEvent(eventID uint) (*EventResponse, error)
	GetEvents(page, size int) (PageResponse[EventResponse], error)
	GetMainEvents(page, size int) (PageResponse[EventResponse], error)
	GetPromotedEvents(page, size int) (PageResponse[EventResponse], error)
	GetFilteredEvents(city, category string, page, size int) (PageResponse[EventResponse], error)
	SearchEvents(text string, page, size int) (PageResponse[EventResponse], error)

	CreateEvent(input *CreateEventInput) (*models.Event, error)
	UpdateEvent(eventID uint, input *UpdateEventInput) (*models.Event, error)
	DeleteEvent(eventID uint) error
}

// --- Structs for Input/Output ---

type CreateEventInput struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"imageUrl"`
	Address       string     `json:"address"`
	StartDateTime *time.Time `json:"startDateTime"`
	Price         *float64   `json:"price"`
	City          string     `json:"city"`
	Categories    []string   `json:"categories"`
	Priority      int        `json:"priority"`
	MainEvent     bool       `json:"mainEvent"`
	Promoted      bool       `json:"promoted"`
}

// UpdateEventInput carries a partial update. Pointer fields distinguish
// "absent" from an explicit value; the boolean flags are always applied, and
// a zero priority or empty category list means "leave unchanged".
type UpdateEventInput struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	ImageURL      *string    `json:"imageUrl"`
	Address       *string    `json:"address"`
	StartDateTime *time.Time `json:"startDateTime"`
	Price         *float64   `json:"price"`
	City          *string    `json:"city"`
	Categories    []string   `json:"categories"`
	Priority      int        `json:"priority"`
	MainEvent     bool       `json:"mainEvent"`
	Promoted      bool       `json:"promoted"`
}

type EventResponse struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	ImageURL      string            `json:"imageUrl"`
	City          models.City       `json:"city"`
	Address       string            `json:"address"`
	StartDateTime time.Time         `json:"startDateTime"`
	Price         float64           `json:"price"`
	Categories    []models.Category `json:"categories"`
	Priority      int               `json:"priority"`
	MainEvent     bool              `json:"mainEvent"`
	Promoted      bool              `json:"promoted"`
}

func NewEventResponse(event *models.Event) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Name:          event.Name,
		Description:   event.Description,
		ImageURL:      event.ImageURL,
		City:          event.City,
		Address:       event.Address,
		StartDateTime: event.StartDateTime,
		Price:         event.Price,
		Categories:    event.CategorySet(),
		Priority:      event.Priority,
		MainEvent:     event.MainEvent,
		Promoted:      event.Promoted,
	}
}

type eventService struct {
	repo repositories.EventRepository
}

var _ EventService = (*eventService)(nil)

// NewEventService creates a new EventService instance.
func NewEventService(repo repositories.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) GetEvent(eventID uint) (*EventResponse, error) {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.EventNotFound()
		}
		return nil, err
	}
	resp := NewEventResponse(event)
	return &resp, nil
}

func (s *eventService) GetEvents(page, size int) (PageResponse[EventResponse], error) {
	events, total, err := s.repo.FindUpcoming(time.Now(), page, size)
	if err != nil {
		return PageResponse[EventResponse]{}, err
	}
	return toEventPage(events, page, size, total), nil
}

func (s *eventService) GetMainEvents(page, size int) (PageResponse[EventResponse], error) {
	events, total, err := s.repo.FindUpcomingMain(time.Now(), page, size)
	if err != nil {
		return PageResponse[EventResponse]{}, err
	}
	return toEventPage(events, page, size, total), nil
}

func (s *eventService) GetPromotedEvents(page, size int) (PageResponse[EventResponse], error) {
	events, total, err := s.repo.FindUpcomingPromoted(time.Now(), page, size)
	if err != nil {
		return PageResponse[EventResponse]{}, err
	}
	return toEventPage(events, page, size, total), nil
}

// GetFilteredEvents treats the sentinel "ALL" (case-insensitive) on either
// dimension as "no constraint"; any other value must be a known enum member.
func (s *eventService) GetFilteredEvents(city, category string, page, size int) (PageResponse[EventResponse], error) {
	var cityFilter *models.City
	if !strings.EqualFold(city, "ALL") {
		c, err := models.ParseCity(city)
		if err != nil {
			return PageResponse[EventResponse]{}, errs.NotValid(err.Error())
		}
		cityFilter = &c
	}

	var categoryFilter *models.Category
	if !strings.EqualFold(category, "ALL") {
		c, err := models.ParseCategory(category)
		if err != nil {
			return PageResponse[EventResponse]{}, errs.NotValid(err.Error())
		}
		categoryFilter = &c
	}

	events, total, err := s.repo.FindUpcomingByCityAndCategory(cityFilter, categoryFilter, time.Now(), page, size)
	if err != nil {
		return PageResponse[EventResponse]{}, err
	}
	return toEventPage(events, page, size, total), nil
}

func (s *eventService) SearchEvents(text string, page, size int) (PageResponse[EventResponse], error) {
	events, total, err := s.repo.SearchUpcoming(text, time.Now(), page, size)
	if err != nil {
		return PageResponse[EventResponse]{}, err
	}
	return toEventPage(events, page, size, total), nil
}

func (s *eventService) CreateEvent(input *CreateEventInput) (*models.Event, error) {
	if err := validateCreateEvent(input); err != nil {
		return nil, err
	}

	city, err := models.ParseCity(input.City)
	if err != nil {
		return nil, errs.NotValid(err.Error())
	}
	categories, err := parseCategories(input.Categories)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:          input.Name,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		Address:       input.Address,
		StartDateTime: *input.StartDateTime,
		Price:         *input.Price,
		City:          city,
		Priority:      input.Priority,
		MainEvent:     input.MainEvent,
		Promoted:      input.Promoted,
	}
	event.SetCategories(categories)

	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent merges the incoming partial update into the stored event.
// Quirks carried over from the previous behavior, on purpose: priority zero
// cannot reset a non-zero priority, an empty category list cannot clear
// categories, and the promoted/priority rule is not re-checked here.
func (s *eventService) UpdateEvent(eventID uint, input *UpdateEventInput) (*models.Event, error) {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.EventNotFound()
		}
		return nil, err
	}

	if hasText(input.Name) {
		event.Name = *input.Name
	}
	if hasText(input.Description) {
		event.Description = *input.Description
	}
	if hasText(input.ImageURL) {
		event.ImageURL = *input.ImageURL
	}
	if hasText(input.Address) {
		event.Address = *input.Address
	}
	if input.StartDateTime != nil {
		event.StartDateTime = *input.StartDateTime
	}
	if input.Price != nil {
		event.Price = *input.Price
	}
	if input.Priority != 0 {
		event.Priority = input.Priority
	}
	if input.City != nil {
		city, err := models.ParseCity(*input.City)
		if err != nil {
			return nil, errs.NotValid(err.Error())
		}
		event.City = city
	}

	// Boolean flags are always applied, even to false.
	event.MainEvent = input.MainEvent
	event.Promoted = input.Promoted

	// Parse before writing anything, so a bad category name cannot leave a
	// half-applied update behind.
	if len(input.Categories) > 0 {
		categories, err := parseCategories(input.Categories)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateWithCategories(event, categories); err != nil {
			return nil, err
		}
		event.SetCategories(categories)
		return event, nil
	}

	if err := s.repo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) DeleteEvent(eventID uint) error {
	err := s.repo.Delete(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.EventNotFound()
	}
	return err
}

// --- Validation helpers ---

func validateCreateEvent(input *CreateEventInput) error {
	var messages []string
	if strings.TrimSpace(input.Name) == "" {
		messages = append(messages, "Event name is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		messages = append(messages, "Description is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		messages = append(messages, "Image URL is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		messages = append(messages, "Address is required")
	}
	if input.StartDateTime == nil {
		messages = append(messages, "Start date and time is required")
	}
	if input.Price == nil {
		messages = append(messages, "Price is required")
	} else if *input.Price < 0 {
		messages = append(messages, "Price cannot be negative")
	}
	if strings.TrimSpace(input.City) == "" {
		messages = append(messages, "City is required")
	}
	if len(input.Categories) == 0 {
		messages = append(messages, "At least one category is required")
	}
	if len(messages) > 0 {
		return &errs.ConstraintViolationError{Messages: messages}
	}

	if input.StartDateTime.Before(time.Now()) {
		return errs.NotValid("Event date must be in the future")
	}
	if input.Promoted && input.Priority < 5 {
		return errs.NotValid("Promoted events must have priority of at least 5")
	}
	return nil
}

func parseCategories(raw []string) ([]models.Category, error) {
	seen := make(map[models.Category]bool, len(raw))
	categories := make([]models.Category, 0, len(raw))
	for _, r := range raw {
		c, err := models.ParseCategory(r)
		if err != nil {
			return nil, errs.NotValid(err.Error())
		}
		if !seen[c] {
			seen[c] = true
			categories = append(categories, c)
		}
	}
	return categories, nil
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func toEventPage(events []models.Event, page, size int, total int64) PageResponse[EventResponse] {
	content := make([]EventResponse, len(events))
	for i := range events {
		content[i] = NewEventResponse(&events[i])
	}
	return NewPageResponse(content, page, size, total)
}
