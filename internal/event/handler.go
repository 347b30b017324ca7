package event

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

type eventBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Location    string   `json:"location"`
	Attendees   []string `json:"attendees"`
	Color       string   `json:"color"`
	AllDay      bool     `json:"all_day"`
}

func (b *eventBody) validate() map[string]string {
	errs := map[string]string{}
	if b.Title == "" {
		errs["title"] = "title is required"
	}
	if b.StartTime == "" {
		errs["start_time"] = "start_time is required"
	}
	if b.EndTime == "" {
		errs["end_time"] = "end_time is required"
	}
	if !models.ValidEventCategory(b.Category) {
		errs["category"] = "category must be MEETING, PERSONAL, REMINDER, TASK or OTHER"
	}
	if !models.ValidTodoPriority(b.Priority) {
		errs["priority"] = "priority must be LOW, MEDIUM or HIGH"
	}
	if b.Color == "" {
		errs["color"] = "color is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (b *eventBody) apply(e *models.CalendarEvent) (map[string]string, error) {
	start, err := time.Parse(time.RFC3339, b.StartTime)
	if err != nil {
		return map[string]string{"start_time": "start_time must be RFC3339"}, nil
	}
	end, err := time.Parse(time.RFC3339, b.EndTime)
	if err != nil {
		return map[string]string{"end_time": "end_time must be RFC3339"}, nil
	}
	if !end.After(start) {
		return map[string]string{"end_time": "end_time must be after start_time"}, nil
	}

	e.Title = sanitize.Sanitize(b.Title)
	e.Description = sanitize.Sanitize(b.Description)
	e.StartTime = start
	e.EndTime = end
	e.Category = b.Category
	e.Priority = b.Priority
	e.Location = sanitize.Sanitize(b.Location)
	e.Color = b.Color
	e.AllDay = b.AllDay

	e.Attendees = nil
	if len(b.Attendees) > 0 {
		raw, err := json.Marshal(b.Attendees)
		if err != nil {
			return nil, err
		}
		e.Attendees = datatypes.JSON(raw)
	}
	return nil, nil
}

func CreateEventHandler(c *fiber.Ctx) error {
	var body eventBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.validate(); errs != nil {
		return response.ValidationError(c, errs)
	}

	e := models.CalendarEvent{UserID: middleware.CurrentUser(c).ID}
	if errs, err := body.apply(&e); err != nil {
		return response.InternalError(c, "Failed to create event")
	} else if errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := Create(database.DB, &e); err != nil {
		return response.InternalError(c, "Failed to create event")
	}

	return response.Created(c, e, "Event created successfully")
}

func ListEventsHandler(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	events, total, err := List(database.DB, middleware.CurrentUser(c).ID, page, limit)
	if err != nil {
		return response.InternalError(c, "Failed to fetch events")
	}

	return response.SuccessWithMeta(c, events, response.CalculateMeta(page, limit, total), "Events retrieved successfully")
}

func GetEventHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID", nil)
	}

	e, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Event")
	}

	return response.Success(c, e, "Event retrieved successfully")
}

func UpdateEventHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID", nil)
	}

	e, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Event")
	}

	var body eventBody
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}
	if errs := body.validate(); errs != nil {
		return response.ValidationError(c, errs)
	}
	if errs, err := body.apply(e); err != nil {
		return response.InternalError(c, "Failed to update event")
	} else if errs != nil {
		return response.ValidationError(c, errs)
	}

	if err := Update(database.DB, e); err != nil {
		return response.InternalError(c, "Failed to update event")
	}

	return response.Success(c, e, "Event updated successfully")
}

func DeleteEventHandler(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID", nil)
	}

	e, err := FindOwned(database.DB, uint(id), middleware.CurrentUser(c).ID)
	if err != nil {
		return response.NotFound(c, "Event")
	}

	if err := Delete(database.DB, e); err != nil {
		return response.InternalError(c, "Failed to delete event")
	}

	return response.Success(c, nil, "Event deleted successfully")
}
