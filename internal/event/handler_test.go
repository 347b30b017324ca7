package event_test

import (
	"fmt"
	"testing"

	"github.com/dashforge/api/internal/database"
	"github.com/dashforge/api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventPayload(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":      title,
		"start_time": "2026-09-10T09:00:00Z",
		"end_time":   "2026-09-10T10:00:00Z",
		"category":   "MEETING",
		"priority":   "MEDIUM",
		"color":      "#3b82f6",
	}
}

func TestCreateEventHandler(t *testing.T) {
	app := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, database.DB, "Ann Lee", "ann@x.com", "password123")
	token := testutils.GetAuthToken(t, "ann@x.com")

	t.Run("Requires authentication", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "POST", "/events/", eventPayload("Standup"), "")
		require.NoError(t, err)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("Creates event with attendees", func(t *testing.T) {
		payload := eventPayload("Standup")
		payload["attendees"] = []string{"bob@x.com", "carol@x.com"}
		payload["location"] = "Room 4"

		resp, err := testutils.MakeRequest(app, "POST", "/events/", payload, token)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Equal(t, "Standup", data["title"])
		assert.Equal(t, "Room 4", data["location"])
		assert.NotEmpty(t, data["attendees"])
	})

	t.Run("Rejects end before start", func(t *testing.T) {
		payload := eventPayload("Backwards")
		payload["start_time"] = "2026-09-10T10:00:00Z"
		payload["end_time"] = "2026-09-10T09:00:00Z"

		resp, err := testutils.MakeRequest(app, "POST", "/events/", payload, token)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
		testutils.AssertError(t, resp, "VALIDATION_ERROR")
	})

	t.Run("Rejects non-RFC3339 times", func(t *testing.T) {
		payload := eventPayload("Badly timed")
		payload["start_time"] = "2026-09-10 09:00"

		resp, err := testutils.MakeRequest(app, "POST", "/events/", payload, token)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})

	t.Run("Rejects unknown category", func(t *testing.T) {
		payload := eventPayload("Mystery")
		payload["category"] = "PARTY"

		resp, err := testutils.MakeRequest(app, "POST", "/events/", payload, token)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.Code)
	})
}

func TestEventOwnershipAndLifecycle(t *testing.T) {
	app := testutils.SetupTestApp(t)
	testutils.CreateTestUser(t, database.DB, "Ann Lee", "ann@x.com", "password123")
	testutils.CreateTestUser(t, database.DB, "Bob", "bob@x.com", "password123")
	annToken := testutils.GetAuthToken(t, "ann@x.com")
	bobToken := testutils.GetAuthToken(t, "bob@x.com")

	resp, err := testutils.MakeRequest(app, "POST", "/events/", eventPayload("Planning"), annToken)
	require.NoError(t, err)
	require.Equal(t, 201, resp.Code)

	var created testutils.StandardResponse
	testutils.ParseResponse(t, resp, &created)
	id := fmt.Sprintf("%.0f", created.Data.(map[string]interface{})["id"].(float64))

	t.Run("Foreign event reads as not found", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "GET", "/events/"+id, nil, bobToken)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)
		testutils.AssertError(t, resp, "NOT_FOUND")
	})

	t.Run("Update rewrites times", func(t *testing.T) {
		payload := eventPayload("Planning")
		payload["start_time"] = "2026-09-11T14:00:00Z"
		payload["end_time"] = "2026-09-11T15:30:00Z"
		payload["all_day"] = false

		resp, err := testutils.MakeRequest(app, "PUT", "/events/"+id, payload, annToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		data := result.Data.(map[string]interface{})
		assert.Contains(t, data["start_time"], "2026-09-11")
	})

	t.Run("List orders by start time", func(t *testing.T) {
		early := eventPayload("Earlier")
		early["start_time"] = "2026-09-01T08:00:00Z"
		early["end_time"] = "2026-09-01T09:00:00Z"

		resp, err := testutils.MakeRequest(app, "POST", "/events/", early, annToken)
		require.NoError(t, err)
		require.Equal(t, 201, resp.Code)

		resp, err = testutils.MakeRequest(app, "GET", "/events/", nil, annToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)

		var result testutils.StandardResponse
		testutils.ParseResponse(t, resp, &result)
		events := result.Data.([]interface{})
		require.Len(t, events, 2)
		assert.Equal(t, "Earlier", events[0].(map[string]interface{})["title"])
	})

	t.Run("Foreign delete refused, own delete works", func(t *testing.T) {
		resp, err := testutils.MakeRequest(app, "DELETE", "/events/"+id, nil, bobToken)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.Code)

		resp, err = testutils.MakeRequest(app, "DELETE", "/events/"+id, nil, annToken)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.Code)
	})
}
