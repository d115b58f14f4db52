package models

import "time"

// Event is a listed event. Categories live in the event_categories value
// table so the filtered listing can join on them; Attendees is the inverse
// side of the user_attending_events join table.
type Event struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"imageUrl"`
	Address       string    `json:"address"`
	StartDateTime time.Time `json:"startDateTime" gorm:"index"`
	Price         float64   `json:"price"`
	City          City      `json:"city" gorm:"type:varchar(32)"`
	Priority      int       `json:"priority"`
	MainEvent     bool      `json:"mainEvent"`
	Promoted      bool      `json:"promoted"`

	Categories []EventCategory `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Attendees  []User          `json:"-" gorm:"many2many:user_attending_events;joinForeignKey:event_id;joinReferences:user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventCategory is one row of the event_categories value table.
type EventCategory struct {
	EventID  uint     `gorm:"primaryKey;autoIncrement:false"`
	Category Category `gorm:"primaryKey;type:varchar(32)"`
}

func (EventCategory) TableName() string {
	return "event_categories"
}

// CategorySet returns the event's categories as plain enum values.
func (e *Event) CategorySet() []Category {
	out := make([]Category, 0, len(e.Categories))
	for _, ec := range e.Categories {
		out = append(out, ec.Category)
	}
	return out
}

// SetCategories replaces the event's category rows.
func (e *Event) SetCategories(cats []Category) {
	rows := make([]EventCategory, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, EventCategory{EventID: e.ID, Category: c})
	}
	e.Categories = rows
}
