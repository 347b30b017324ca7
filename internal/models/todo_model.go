package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

const (
	TodoCategoryWork     = "WORK"
	TodoCategoryPersonal = "PERSONAL"
	TodoCategoryShopping = "SHOPPING"
	TodoCategoryHealth   = "HEALTH"
	TodoCategoryOther    = "OTHER"
)

type Todo struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Completed   bool           `gorm:"not null;default:false" json:"completed"`
	Priority    string         `gorm:"size:20;not null" json:"priority"`
	Category    string         `gorm:"size:20;not null" json:"category"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Tags        datatypes.JSON `json:"tags,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (t *Todo) IsOverdue() bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(time.Now())
}

func ValidTodoPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func ValidTodoCategory(c string) bool {
	switch c {
	case TodoCategoryWork, TodoCategoryPersonal, TodoCategoryShopping, TodoCategoryHealth, TodoCategoryOther:
		return true
	}
	return false
}
