package repositories

import (
	"strings"
	"time"

	"neoevents/models"

	"gorm.io/gorm"
)

// EventRepository interface defines Event-related database operations.
// All listing queries are restricted to upcoming events (start strictly after
// now) and return the matching rows for one page plus the total row count.
type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id uint) (*models.Event, error)
	Update(event *models.Event) error
	// UpdateWithCategories persists the scalar columns and replaces the
	// category rows atomically, so a failure leaves neither applied.
	UpdateWithCategories(event *models.Event, categories []models.Category) error
	Delete(id uint) error

	FindUpcoming(now time.Time, page, size int) ([]models.Event, int64, error)
	FindUpcomingMain(now time.Time, page, size int) ([]models.Event, int64, error)
	FindUpcomingPromoted(now time.Time, page, size int) ([]models.Event, int64, error)
	FindUpcomingByCityAndCategory(city *models.City, category *models.Category, now time.Time, page, size int) ([]models.Event, int64, error)
	SearchUpcoming(text string, now time.Time, page, size int) ([]models.Event, int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository instance.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) FindByID(id uint) (*models.Event, error) {
	var event models.Event
	result := r.db.Preload("Categories").First(&event, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &event, nil
}

// Update persists the event's scalar columns. Categories are replaced
// separately so an unchanged set is not rewritten on every update.
func (r *eventRepository) Update(event *models.Event) error {
	return r.db.Omit("Categories", "Attendees").Save(event).Error
}

func (r *eventRepository) UpdateWithCategories(event *models.Event, categories []models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Categories", "Attendees").Save(event).Error; err != nil {
			return err
		}
		return replaceCategories(tx, event.ID, categories)
	})
}

func replaceCategories(tx *gorm.DB, eventID uint, categories []models.Category) error {
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventCategory{}).Error; err != nil {
		return err
	}
	rows := make([]models.EventCategory, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, models.EventCategory{EventID: eventID, Category: c})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// Delete removes the event and every join-table row referencing it in one
// transaction. The mapping layer does not cascade across the user join
// tables, so they are cleared first. Returns gorm.ErrRecordNotFound when the
// event row itself does not exist.
func (r *eventRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_attending_events WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_saved_events WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.EventCategory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *eventRepository) FindUpcoming(now time.Time, page, size int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).Where("start_date_time > ?", now)
	return r.paginate(q, "start_date_time ASC", page, size)
}

func (r *eventRepository) FindUpcomingMain(now time.Time, page, size int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).
		Where("main_event = ?", true).
		Where("start_date_time > ?", now)
	return r.paginate(q, "priority DESC, start_date_time ASC", page, size)
}

func (r *eventRepository) FindUpcomingPromoted(now time.Time, page, size int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).
		Where("promoted = ?", true).
		Where("start_date_time > ?", now)
	return r.paginate(q, "priority DESC, start_date_time ASC", page, size)
}

// FindUpcomingByCityAndCategory joins the categories table, so only events
// carrying at least one category can match; nil city/category means no
// constraint on that dimension.
func (r *eventRepository) FindUpcomingByCityAndCategory(city *models.City, category *models.Category, now time.Time, page, size int) ([]models.Event, int64, error) {
	q := r.db.Model(&models.Event{}).
		Joins("JOIN event_categories ON event_categories.event_id = events.id").
		Where("start_date_time > ?", now)
	if city != nil {
		q = q.Where("events.city = ?", *city)
	}
	if category != nil {
		q = q.Where("event_categories.category = ?", *category)
	}
	q = q.Distinct("events.*")

	var total int64
	if err := q.Session(&gorm.Session{}).Distinct("events.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := q.Preload("Categories").
		Order("start_date_time ASC").
		Offset(page * size).Limit(size).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) SearchUpcoming(text string, now time.Time, page, size int) ([]models.Event, int64, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	q := r.db.Model(&models.Event{}).
		Where("start_date_time > ?", now).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	return r.paginate(q, "start_date_time ASC", page, size)
}

// paginate runs the count-then-find pair shared by the listing queries.
func (r *eventRepository) paginate(q *gorm.DB, order string, page, size int) ([]models.Event, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.Event
	err := q.Preload("Categories").
		Order(order).
		Offset(page * size).Limit(size).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
