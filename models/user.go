package models

import "time"

// User is a registered account. SavedEvents and AttendingEvents are two
// independent join axes to Event; Event.Attendees reads the attending table
// from the other side.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name"`
	LastName string `json:"lastName"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	IsAdmin  bool   `json:"isAdmin"`
	AvatarID int    `json:"avatarId" gorm:"default:0"`

	SavedEvents     []Event `json:"-" gorm:"many2many:user_saved_events;joinForeignKey:user_id;joinReferences:event_id"`
	AttendingEvents []Event `json:"-" gorm:"many2many:user_attending_events;joinForeignKey:user_id;joinReferences:event_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
