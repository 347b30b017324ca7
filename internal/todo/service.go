package todo

import (
	"github.com/dashforge/api/internal/models"
	"gorm.io/gorm"
)

func Create(db *gorm.DB, t *models.Todo) error {
	return db.Create(t).Error
}

// FindOwned loads a todo and enforces ownership. Another user's todo is
// indistinguishable from a missing one.
func FindOwned(db *gorm.DB, id, userID uint) (*models.Todo, error) {
	var t models.Todo
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func List(db *gorm.DB, userID uint, page, limit int) ([]models.Todo, int64, error) {
	var todos []models.Todo
	var total int64

	query := db.Model(&models.Todo{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&todos).Error
	return todos, total, err
}

func Update(db *gorm.DB, t *models.Todo) error {
	return db.Save(t).Error
}

func Delete(db *gorm.DB, t *models.Todo) error {
	return db.Delete(t).Error
}

func Toggle(db *gorm.DB, t *models.Todo) error {
	t.Completed = !t.Completed
	return db.Model(t).Update("completed", t.Completed).Error
}
