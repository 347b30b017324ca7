package todo

import (
	"encoding/json"
	"time"

	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/middleware"
	"github.com/dashforge/api/internal/models"
	"github.com/dashforge/api/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/datatypes"
)

var sanitize = bluemonday.StrictPolicy()

type todoBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Category    string   `json:"category"`
	DueDate     *string  `json:"due_date"`
	Tags        []string `json:"tags"`
}

func (b *todoBody) validate() map[string]string {
	errs := map[string]string{}
	if b.Title == "" {
		errs["title"] = "title is required"
	}
	if !models.ValidTodoPriority(b.Priority) {
		errs["priority"] = "priority must be LOW, MEDIUM or HIGH"
	}
	if !models.ValidTodoCategory(b.Category) {
		errs["category"] = "category must be WORK, PERSONAL, SHOPPING, HEALTH or OTHER"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (b *todoBody) apply(t *models.Todo) error {
	t.Title = sanitize.Sanitize(b.Title)
	t.Description = sanitize.Sanitize(b.Description)
	t.Priority = b.Priority
	t.Category = b.Category

	t.DueDate = nil
	if b.DueDate != nil && *b.DueDate != "" {
		due, err := time.Parse("2006-01-02", *b.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = &due
	}

	t.Tags = nil
	if len(b.Tags) > 0 {
		raw, err := json.Marshal(b.Tags)
		if err != nil {
			return err
		}
		t.Tags = datatypes.JSON(raw)
	}
	return nil
}

func CreateTodoHandler(c *fiber.Ctx) error {
	var body todoBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.validate(); errs != nil {
		return response.ValidationError(c, errs)
	}

	t := models.Todo{UserID: middleware.CurrentUser(c).ID}
	if err := body.apply(&t); err != nil {
		return response.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD", nil)
	}

	if err := Create(database.DB, &t); err != nil {
		return response.InternalError(c, "Failed to create todo")
	}

	return response.Created(c, t, "Todo created successfully")
}

func ListTodosHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	todos, total, err := List(database.DB, middleware.CurrentUser(c).ID, page, limit)
	if err != nil {
		return response.InternalError(c, "Failed to fetch todos")
	}

	return response.SuccessWithMeta(c, todos, response.CalculateMeta(page, limit, total), "Todos retrieved successfully")
}

func GetTodoHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid todo ID", nil)
	}

	t, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Todo")
	}

	return response.Success(c, t, "Todo retrieved successfully")
}

func UpdateTodoHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid todo ID", nil)
	}

	t, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Todo")
	}

	var body todoBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.validate(); errs != nil {
		return response.ValidationError(c, errs)
	}
	if err := body.apply(t); err != nil {
		return response.BadRequest(c, "Invalid due_date, expected YYYY-MM-DD", nil)
	}

	if err := Update(database.DB, t); err != nil {
		return response.InternalError(c, "Failed to update todo")
	}

	return response.Success(c, t, "Todo updated successfully")
}

func ToggleTodoHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid todo ID", nil)
	}

	t, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Todo")
	}

	if err := Toggle(database.DB, t); err != nil {
		return response.InternalError(c, "Failed to update todo")
	}

	return response.Success(c, t, "Todo updated successfully")
}

func DeleteTodoHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid todo ID", nil)
	}

	t, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Todo")
	}

	if err := Delete(database.DB, t); err != nil {
		return response.InternalError(c, "Failed to delete todo")
	}

	return response.Success(c, nil, "Todo deleted successfully")
}
