package services

import (
	"fmt"
	"testing"
	"time"

	"neoevents/database"
	"neoevents/errs"
	"neoevents/models"
	"neoevents/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh in-memory SQLite database, named after the test
// so parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func mustCreateEvent(t *testing.T, db *gorm.DB, event *models.Event) *models.Event {
	t.Helper()
	if len(event.Categories) == 0 {
		event.SetCategories([]models.Category{models.CategoryOther})
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return event
}

func validCreateInput() *CreateEventInput {
	start := time.Now().Add(48 * time.Hour)
	price := 10.0
	return &CreateEventInput{
		Name:          "Lake Fest",
		Description:   "Open air festival",
		ImageURL:      "https://img.example.com/lake.jpg",
		Address:       "Obala bb",
		StartDateTime: &start,
		Price:         &price,
		City:          "PODGORICA",
		Categories:    []string{"FESTIVAL", "CONCERT"},
	}
}

func TestCreateEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	t.Run("Success", func(t *testing.T) {
		event, err := service.CreateEvent(validCreateInput())
		assert.NoError(t, err)
		assert.NotZero(t, event.ID)
		assert.Equal(t, models.CityPodgorica, event.City)
		assert.ElementsMatch(t, []models.Category{models.CategoryFestival, models.CategoryConcert}, event.CategorySet())
	})

	t.Run("Missing fields are aggregated", func(t *testing.T) {
		_, err := service.CreateEvent(&CreateEventInput{})

		var violation *errs.ConstraintViolationError
		assert.ErrorAs(t, err, &violation)
		assert.Contains(t, violation.Messages, "Event name is required")
		assert.Contains(t, violation.Messages, "Description is required")
		assert.Contains(t, violation.Messages, "Image URL is required")
		assert.Contains(t, violation.Messages, "Address is required")
		assert.Contains(t, violation.Messages, "Start date and time is required")
		assert.Contains(t, violation.Messages, "Price is required")
		assert.Contains(t, violation.Messages, "City is required")
		assert.Contains(t, violation.Messages, "At least one category is required")
	})

	t.Run("Negative price", func(t *testing.T) {
		input := validCreateInput()
		*input.Price = -1
		_, err := service.CreateEvent(input)

		var violation *errs.ConstraintViolationError
		assert.ErrorAs(t, err, &violation)
		assert.Equal(t, []string{"Price cannot be negative"}, violation.Messages)
	})

	t.Run("Past start date", func(t *testing.T) {
		input := validCreateInput()
		past := time.Now().Add(-time.Hour)
		input.StartDateTime = &past
		_, err := service.CreateEvent(input)

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)
		assert.Equal(t, "Event date must be in the future", notValid.Message)
	})

	t.Run("Promoted with low priority", func(t *testing.T) {
		input := validCreateInput()
		input.Promoted = true
		input.Priority = 3
		_, err := service.CreateEvent(input)

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)
		assert.Equal(t, "Promoted events must have priority of at least 5", notValid.Message)
	})

	t.Run("Promoted with sufficient priority", func(t *testing.T) {
		input := validCreateInput()
		input.Promoted = true
		input.Priority = 5
		event, err := service.CreateEvent(input)
		assert.NoError(t, err)
		assert.True(t, event.Promoted)
	})

	t.Run("Unknown city", func(t *testing.T) {
		input := validCreateInput()
		input.City = "BERLIN"
		_, err := service.CreateEvent(input)

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)
		assert.Contains(t, notValid.Message, "unknown city")
	})

	t.Run("Duplicate categories are collapsed", func(t *testing.T) {
		input := validCreateInput()
		input.Categories = []string{"party", "PARTY", "Party"}
		event, err := service.CreateEvent(input)
		assert.NoError(t, err)
		assert.Equal(t, []models.Category{models.CategoryParty}, event.CategorySet())
	})
}

func TestGetEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	event := mustCreateEvent(t, db, &models.Event{
		Name:          "Jazz Night",
		Description:   "Live jazz",
		StartDateTime: time.Now().Add(24 * time.Hour),
		City:          models.CityKotor,
	})

	t.Run("Found", func(t *testing.T) {
		resp, err := service.GetEvent(event.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Jazz Night", resp.Name)
		assert.Equal(t, models.CityKotor, resp.City)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := service.GetEvent(9999)

		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Event Not Found", notFound.Message)
	})
}

func TestGetEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	mustCreateEvent(t, db, &models.Event{Name: "Later", StartDateTime: time.Now().Add(72 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "Sooner", StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "Past", StartDateTime: time.Now().Add(-24 * time.Hour)})

	t.Run("Upcoming in start order, past excluded", func(t *testing.T) {
		page, err := service.GetEvents(0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, "Sooner", page.Content[0].Name)
		assert.Equal(t, "Later", page.Content[1].Name)
	})

	t.Run("Pagination envelope", func(t *testing.T) {
		page, err := service.GetEvents(0, 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, page.PageNumber)
		assert.Equal(t, 1, page.PageSize)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, 1, page.NumberOfElements)
		assert.False(t, page.IsLast)

		last, err := service.GetEvents(1, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Later", last.Content[0].Name)
		assert.True(t, last.IsLast)
	})

	t.Run("Page past the end is empty", func(t *testing.T) {
		page, err := service.GetEvents(5, 10)
		assert.NoError(t, err)
		assert.Empty(t, page.Content)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.True(t, page.IsLast)
	})
}

func TestGetMainAndPromotedEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	mustCreateEvent(t, db, &models.Event{Name: "MainLow", MainEvent: true, Priority: 1, StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "MainHigh", MainEvent: true, Priority: 9, StartDateTime: time.Now().Add(48 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "PromotedOnly", Promoted: true, Priority: 6, StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "Plain", StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "PastMain", MainEvent: true, Priority: 9, StartDateTime: time.Now().Add(-24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "PastPromoted", Promoted: true, Priority: 9, StartDateTime: time.Now().Add(-24 * time.Hour)})

	t.Run("Main ordered by priority then start", func(t *testing.T) {
		page, err := service.GetMainEvents(0, 10)
		assert.NoError(t, err)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, "MainHigh", page.Content[0].Name)
		assert.Equal(t, "MainLow", page.Content[1].Name)
	})

	t.Run("Promoted excludes plain and main", func(t *testing.T) {
		page, err := service.GetPromotedEvents(0, 10)
		assert.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, "PromotedOnly", page.Content[0].Name)
	})
}

func TestGetFilteredEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	budvaParty := &models.Event{Name: "Beach Party", City: models.CityBudva, StartDateTime: time.Now().Add(24 * time.Hour)}
	budvaParty.SetCategories([]models.Category{models.CategoryParty, models.CategoryNightlife})
	mustCreateEvent(t, db, budvaParty)

	kotorConcert := &models.Event{Name: "Bay Concert", City: models.CityKotor, StartDateTime: time.Now().Add(24 * time.Hour)}
	kotorConcert.SetCategories([]models.Category{models.CategoryConcert})
	mustCreateEvent(t, db, kotorConcert)

	pastBudvaParty := &models.Event{Name: "Last Year Party", City: models.CityBudva, StartDateTime: time.Now().Add(-24 * time.Hour)}
	pastBudvaParty.SetCategories([]models.Category{models.CategoryParty})
	mustCreateEvent(t, db, pastBudvaParty)

	t.Run("ALL and ALL returns everything", func(t *testing.T) {
		page, err := service.GetFilteredEvents("ALL", "all", 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("City only", func(t *testing.T) {
		page, err := service.GetFilteredEvents("budva", "ALL", 0, 10)
		assert.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, "Beach Party", page.Content[0].Name)
	})

	t.Run("Category only", func(t *testing.T) {
		page, err := service.GetFilteredEvents("ALL", "CONCERT", 0, 10)
		assert.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, "Bay Concert", page.Content[0].Name)
	})

	t.Run("City and category must both match", func(t *testing.T) {
		page, err := service.GetFilteredEvents("BUDVA", "CONCERT", 0, 10)
		assert.NoError(t, err)
		assert.Empty(t, page.Content)
	})

	t.Run("Multi-category event is not duplicated", func(t *testing.T) {
		page, err := service.GetFilteredEvents("BUDVA", "ALL", 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), page.TotalElements)
		assert.Len(t, page.Content, 1)
	})

	t.Run("Unknown city is rejected", func(t *testing.T) {
		_, err := service.GetFilteredEvents("BERLIN", "ALL", 0, 10)

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)
	})
}

func TestSearchEvents(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	mustCreateEvent(t, db, &models.Event{Name: "Summer Jazz", Description: "Quartet", StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "Food Fair", Description: "Local jazz bands play too", StartDateTime: time.Now().Add(24 * time.Hour)})
	mustCreateEvent(t, db, &models.Event{Name: "Old Jazz", Description: "Gone", StartDateTime: time.Now().Add(-24 * time.Hour)})

	t.Run("Matches name and description, case insensitive", func(t *testing.T) {
		page, err := service.SearchEvents("JAZZ", 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), page.TotalElements)
	})

	t.Run("No matches", func(t *testing.T) {
		page, err := service.SearchEvents("opera", 0, 10)
		assert.NoError(t, err)
		assert.Empty(t, page.Content)
	})
}

func TestUpdateEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))

	newEvent := func(t *testing.T) *models.Event {
		event := &models.Event{
			Name:          "Original",
			Description:   "Original description",
			ImageURL:      "https://img.example.com/a.jpg",
			Address:       "Somewhere 1",
			StartDateTime: time.Now().Add(24 * time.Hour),
			Price:         20,
			City:          models.CityBar,
			Priority:      4,
			MainEvent:     true,
			Promoted:      true,
		}
		event.SetCategories([]models.Category{models.CategorySport})
		return mustCreateEvent(t, db, event)
	}

	strPtr := func(s string) *string { return &s }

	t.Run("Only present fields change", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Name:      strPtr("Renamed"),
			Priority:  event.Priority,
			MainEvent: event.MainEvent,
			Promoted:  event.Promoted,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, "Original description", updated.Description)
		assert.Equal(t, models.CityBar, updated.City)
		assert.Equal(t, []models.Category{models.CategorySport}, updated.CategorySet())
	})

	t.Run("Blank strings are ignored", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Name:        strPtr("   "),
			Description: strPtr(""),
			Priority:    event.Priority,
			MainEvent:   event.MainEvent,
			Promoted:    event.Promoted,
		})
		assert.NoError(t, err)
		assert.Equal(t, "Original", updated.Name)
		assert.Equal(t, "Original description", updated.Description)
	})

	t.Run("Zero priority leaves the stored value", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Priority:  0,
			MainEvent: event.MainEvent,
			Promoted:  event.Promoted,
		})
		assert.NoError(t, err)
		assert.Equal(t, 4, updated.Priority)
	})

	t.Run("Empty category list leaves categories", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Categories: nil,
			Priority:   event.Priority,
			MainEvent:  event.MainEvent,
			Promoted:   event.Promoted,
		})
		assert.NoError(t, err)
		assert.Equal(t, []models.Category{models.CategorySport}, updated.CategorySet())
	})

	t.Run("Non-empty category list replaces categories", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Categories: []string{"food", "CULTURE"},
			Priority:   event.Priority,
			MainEvent:  event.MainEvent,
			Promoted:   event.Promoted,
		})
		assert.NoError(t, err)
		assert.ElementsMatch(t, []models.Category{models.CategoryFood, models.CategoryCulture}, updated.CategorySet())

		stored, err := service.GetEvent(event.ID)
		assert.NoError(t, err)
		assert.ElementsMatch(t, []models.Category{models.CategoryFood, models.CategoryCulture}, stored.Categories)
	})

	t.Run("Boolean flags always overwrite", func(t *testing.T) {
		event := newEvent(t)
		updated, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Priority:  event.Priority,
			MainEvent: false,
			Promoted:  false,
		})
		assert.NoError(t, err)
		assert.False(t, updated.MainEvent)
		assert.False(t, updated.Promoted)
	})

	t.Run("Unknown category rejects the whole update", func(t *testing.T) {
		event := newEvent(t)
		_, err := service.UpdateEvent(event.ID, &UpdateEventInput{
			Name:       strPtr("Renamed"),
			Categories: []string{"NOT_A_CATEGORY"},
			Priority:   event.Priority,
			MainEvent:  event.MainEvent,
			Promoted:   event.Promoted,
		})

		var notValid *errs.NotValidError
		assert.ErrorAs(t, err, &notValid)

		stored, err := service.GetEvent(event.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Original", stored.Name)
		assert.Equal(t, []models.Category{models.CategorySport}, stored.Categories)
	})

	t.Run("Unknown event", func(t *testing.T) {
		_, err := service.UpdateEvent(99999, &UpdateEventInput{})

		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestDeleteEvent(t *testing.T) {
	db := setupTestDB(t)
	service := NewEventService(repositories.NewEventRepository(db))
	userRepo := repositories.NewUserRepository(db)

	event := mustCreateEvent(t, db, &models.Event{Name: "Doomed", StartDateTime: time.Now().Add(24 * time.Hour)})

	user := &models.User{Name: "Ana", Email: "ana@example.com", Password: "hash"}
	assert.NoError(t, userRepo.Create(user))
	assert.NoError(t, userRepo.AddSavedEvent(user, event))
	assert.NoError(t, userRepo.AddAttendingEvent(user, event))

	t.Run("Deletes the event and every reference", func(t *testing.T) {
		assert.NoError(t, service.DeleteEvent(event.ID))

		_, err := service.GetEvent(event.ID)
		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)

		var saved, attending, categories int64
		db.Table("user_saved_events").Where("event_id = ?", event.ID).Count(&saved)
		db.Table("user_attending_events").Where("event_id = ?", event.ID).Count(&attending)
		db.Model(&models.EventCategory{}).Where("event_id = ?", event.ID).Count(&categories)
		assert.Zero(t, saved)
		assert.Zero(t, attending)
		assert.Zero(t, categories)

		// The user itself survives.
		_, err = userRepo.FindByEmail("ana@example.com")
		assert.NoError(t, err)
	})

	t.Run("Unknown event", func(t *testing.T) {
		err := service.DeleteEvent(event.ID)

		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
