package bookings_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fariz-ai/dev-events/src/core/models"
	"github.com/Fariz-ai/dev-events/src/modules/bookings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Event{}, &models.Booking{}); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	handler := bookings.NewHandler(db)
	app := fiber.New()
	app.Post("/api/v1/events/:slug/bookings", handler.CreateBooking)
	app.Get("/api/v1/events/:slug/bookings", handler.ListBookings)
	return app, db
}

func seedEvent(t *testing.T, db *gorm.DB, slug string) models.Event {
	t.Helper()
	event := models.Event{
		ID:    uuid.New(),
		Slug:  slug,
		Title: slug,
		Date:  time.Now().AddDate(0, 0, 7),
		Time:  "10:00",
		Mode:  models.ModeOnline,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func postJSON(t *testing.T, app *fiber.App, target string, payload string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, target, bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("Failed to decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, env
}

func TestCreateBooking(t *testing.T) {
	app, db := newTestApp(t)
	event := seedEvent(t, db, "demo-night")

	status, env := postJSON(t, app, "/api/v1/events/demo-night/bookings", `{"name":"Ada","email":"ada@example.com"}`)
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", status, env.Message)
	}

	var booking models.Booking
	if err := json.Unmarshal(env.Data, &booking); err != nil {
		t.Fatalf("Failed to decode booking: %v", err)
	}
	if booking.EventID != event.ID {
		t.Errorf("Booking not linked to the event: %s vs %s", booking.EventID, event.ID)
	}

	var count int64
	if err := db.Model(&models.Booking{}).Where("event_id = ?", event.ID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count bookings: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 persisted booking, got %d", count)
	}
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/events/nope/bookings", `{"name":"Ada","email":"ada@example.com"}`)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown event, got %d", status)
	}
}

func TestCreateBookingRejectsBadEmail(t *testing.T) {
	app, db := newTestApp(t)
	seedEvent(t, db, "demo-night")

	status, _ := postJSON(t, app, "/api/v1/events/demo-night/bookings", `{"name":"Ada","email":"not-an-email"}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for invalid email, got %d", status)
	}
}

func TestListBookings(t *testing.T) {
	app, db := newTestApp(t)
	event := seedEvent(t, db, "demo-night")
	other := seedEvent(t, db, "other-night")

	for i := 0; i < 2; i++ {
		booking := models.Booking{ID: uuid.New(), EventID: event.ID, Name: "A", Email: "a@example.com"}
		if err := db.Create(&booking).Error; err != nil {
			t.Fatalf("Failed to seed booking: %v", err)
		}
	}
	stray := models.Booking{ID: uuid.New(), EventID: other.ID, Name: "B", Email: "b@example.com"}
	if err := db.Create(&stray).Error; err != nil {
		t.Fatalf("Failed to seed booking: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/events/demo-night/bookings", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	var list []models.Booking
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("Failed to decode bookings: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 bookings for the event, got %d", len(list))
	}
	for _, booking := range list {
		if booking.EventID != event.ID {
			t.Errorf("Foreign booking leaked into the list: %+v", booking)
		}
	}
}
