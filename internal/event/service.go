package event

import (
	"github.com/dashforge/api/internal/models"
	"gorm.io/gorm"
)

func Create(db *gorm.DB, e *models.CalendarEvent) error {
	return db.Create(e).Error
}

func FindOwned(db *gorm.DB, id, userID uint) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func List(db *gorm.DB, userID uint, page, limit int) ([]models.CalendarEvent, int64, error) {
	var events []models.CalendarEvent
	var total int64

	query := db.Model(&models.CalendarEvent{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("start_time ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	return events, total, err
}

func Update(db *gorm.DB, e *models.CalendarEvent) error {
	return db.Save(e).Error
}

func Delete(db *gorm.DB, e *models.CalendarEvent) error {
	return db.Delete(e).Error
}
