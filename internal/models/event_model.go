package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventCategoryMeeting  = "MEETING"
	EventCategoryPersonal = "PERSONAL"
	EventCategoryReminder = "REMINDER"
	EventCategoryTask     = "TASK"
	EventCategoryOther    = "OTHER"
)

type CalendarEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	StartTime   time.Time      `gorm:"index;not null" json:"start_time"`
	EndTime     time.Time      `gorm:"index;not null" json:"end_time"`
	Category    string         `gorm:"size:20;not null" json:"category"`
	Priority    string         `gorm:"size:20;not null" json:"priority"`
	Location    string         `gorm:"size:255" json:"location,omitempty"`
	Attendees   datatypes.JSON `json:"attendees,omitempty"`
	Color       string         `gorm:"size:20;not null" json:"color"`
	AllDay      bool           `gorm:"not null;default:false" json:"all_day"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (e *CalendarEvent) IsPast() bool {
	return e.EndTime.Before(time.Now())
}

func ValidEventCategory(c string) bool {
	switch c {
	case EventCategoryMeeting, EventCategoryPersonal, EventCategoryReminder, EventCategoryTask, EventCategoryOther:
		return true
	}
	return false
}
