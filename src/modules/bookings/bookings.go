package bookings

import (
	"log"
	"strings"

	"github.com/Fariz-ai/dev-events/src/core/helpers"
	"github.com/Fariz-ai/dev-events/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Handler serves the booking routes nested under /events/:slug.
type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type createBookingRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) findEvent(c *fiber.Ctx) (*models.Event, error) {
	slugParam := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if slugParam == "" {
		return nil, helpers.HandleError(c, fiber.StatusBadRequest, "Event slug is required", nil)
	}

	var event models.Event
	if err := h.DB.Where("slug = ?", slugParam).First(&event).Error; err != nil {
		status := helpers.StatusForDBError(err)
		if status == fiber.StatusNotFound {
			return nil, helpers.HandleError(c, status, "Event not found", nil)
		}
		log.Printf("Failed to look up event %q: %v\n", slugParam, err)
		return nil, helpers.HandleError(c, status, "Database query failed", nil)
	}
	return &event, nil
}

// CreateBooking reserves a spot on an event for an attendee.
func (h *Handler) CreateBooking(c *fiber.Ctx) error {
	event, errResp := h.findEvent(c)
	if event == nil {
		return errResp
	}

	body := new(createBookingRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid booking fields", err)
	}

	booking := models.Booking{
		ID:      uuid.New(),
		EventID: event.ID,
		Name:    body.Name,
		Email:   body.Email,
	}

	if result := h.DB.Create(&booking); result.Error != nil {
		log.Printf("Failed to create booking: %v\n", result.Error)
		return helpers.HandleError(c, helpers.StatusForDBError(result.Error), "Failed to create booking", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Booking created successfully", booking)
}

// ListBookings returns the bookings for an event, newest first.
func (h *Handler) ListBookings(c *fiber.Ctx) error {
	event, errResp := h.findEvent(c)
	if event == nil {
		return errResp
	}

	var eventBookings []models.Booking
	if err := h.DB.Where("event_id = ?", event.ID).Order("created_at DESC").Find(&eventBookings).Error; err != nil {
		log.Printf("Failed to fetch bookings: %v\n", err)
		return helpers.HandleError(c, helpers.StatusForDBError(err), "Failed to fetch bookings", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Bookings retrieved successfully", eventBookings)
}
