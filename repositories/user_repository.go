package repositories

import (
	"neoevents/models"

	"gorm.io/gorm"
)

// UserRepository interface defines User-related database operations, including
// the saved/attending association maintenance for both join axes.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	// FindByEmailWithSavedEvents eagerly loads the saved-events axis.
	FindByEmailWithSavedEvents(email string) (*models.User, error)
	// FindByEmailWithAttendingEvents eagerly loads the attending-events axis
	// together with each event's attendee set.
	FindByEmailWithAttendingEvents(email string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	Update(user *models.User) error
	Delete(user *models.User) error

	AddSavedEvent(user *models.User, event *models.Event) error
	RemoveSavedEvent(user *models.User, event *models.Event) error
	AddAttendingEvent(user *models.User, event *models.Event) error
	RemoveAttendingEvent(user *models.User, event *models.Event) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) FindByEmailWithSavedEvents(email string) (*models.User, error) {
	var user models.User
	result := r.db.Preload("SavedEvents").Preload("SavedEvents.Categories").
		Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) FindByEmailWithAttendingEvents(email string) (*models.User, error) {
	var user models.User
	result := r.db.Preload("AttendingEvents").Preload("AttendingEvents.Categories").
		Preload("AttendingEvents.Attendees").
		Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update persists the user's scalar columns only; the event associations are
// maintained through the dedicated Add/Remove methods.
func (r *userRepository) Update(user *models.User) error {
	return r.db.Omit("SavedEvents", "AttendingEvents").Save(user).Error
}

// Delete removes the user and its rows in both join tables in one transaction.
func (r *userRepository) Delete(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_saved_events WHERE user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_attending_events WHERE user_id = ?", user.ID).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// The join-table writes below are idempotent: appending an existing pair is a
// no-op upsert, removing an absent pair deletes zero rows.

func (r *userRepository) AddSavedEvent(user *models.User, event *models.Event) error {
	return r.db.Exec(
		"INSERT INTO user_saved_events (user_id, event_id) SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM user_saved_events WHERE user_id = ? AND event_id = ?)",
		user.ID, event.ID, user.ID, event.ID,
	).Error
}

func (r *userRepository) RemoveSavedEvent(user *models.User, event *models.Event) error {
	return r.db.Exec("DELETE FROM user_saved_events WHERE user_id = ? AND event_id = ?", user.ID, event.ID).Error
}

func (r *userRepository) AddAttendingEvent(user *models.User, event *models.Event) error {
	return r.db.Exec(
		"INSERT INTO user_attending_events (user_id, event_id) SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM user_attending_events WHERE user_id = ? AND event_id = ?)",
		user.ID, event.ID, user.ID, event.ID,
	).Error
}

func (r *userRepository) RemoveAttendingEvent(user *models.User, event *models.Event) error {
	return r.db.Exec("DELETE FROM user_attending_events WHERE user_id = ? AND event_id = ?", user.ID, event.ID).Error
}
