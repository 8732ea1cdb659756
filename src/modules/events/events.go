package events

import (
	"encoding/json"
	"errors"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/Fariz-ai/dev-events/src/core/helpers"
	"github.com/Fariz-ai/dev-events/src/core/models"
	"github.com/Fariz-ai/dev-events/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dateFormat  = "2006-01-02"
	imageFolder = "events"
)

// ImageStore is the part of the upload client the event handlers depend on.
type ImageStore interface {
	Upload(file *multipart.FileHeader, folder string) (publicURL string, objectPath string, err error)
	Remove(objectPath string) error
}

// Handler serves the /events routes. DB and Images are injected from main.
type Handler struct {
	DB     *gorm.DB
	Images ImageStore
}

func NewHandler(db *gorm.DB, images ImageStore) *Handler {
	return &Handler{DB: db, Images: images}
}

// eventForm is the validated shape of the multipart body shared by create
// and update.
type eventForm struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"required"`
	Overview    string `validate:"required"`
	Venue       string `validate:"required,max=255"`
	Location    string `validate:"required,max=255"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"required,datetime=15:04"`
	Mode        string `validate:"required,oneof=online offline hybrid"`
	Audience    string `validate:"required,max=255"`
	Organizer   string `validate:"required,max=255"`
}

func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

// parseStringList decodes a JSON-encoded string array form field. A missing
// or blank field yields (nil, false, nil) so callers can leave the column
// untouched.
func parseStringList(form *multipart.Form, key string) ([]string, bool, error) {
	raw := formValue(form, key)
	if raw == "" {
		return nil, false, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, false, err
	}
	return values, true, nil
}

// sanitizeSlug normalizes a slug path parameter for lookup.
func sanitizeSlug(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// dbError logs the underlying failure and maps it onto the response taxonomy.
func dbError(c *fiber.Ctx, err error, notFoundMessage string) error {
	status := helpers.StatusForDBError(err)
	switch status {
	case fiber.StatusNotFound:
		return helpers.HandleError(c, status, notFoundMessage, nil)
	case fiber.StatusServiceUnavailable:
		log.Printf("Database unavailable: %v\n", err)
		return helpers.HandleError(c, status, "Database unavailable", nil)
	default:
		log.Printf("Database query failed: %v\n", err)
		return helpers.HandleError(c, status, "Database query failed", nil)
	}
}

// ListEvents returns the event collection, newest first. Optional page and
// limit query parameters switch on server-side pagination; without them the
// full collection is returned.
func (h *Handler) ListEvents(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 0)
	if page < 1 || limit < 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "page and limit must be positive", nil)
	}

	var total int64
	if err := h.DB.Model(&models.Event{}).Count(&total).Error; err != nil {
		return dbError(c, err, "Failed to fetch events")
	}

	query := h.DB.Order("date DESC")
	totalPages := int64(1)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return dbError(c, err, "Failed to fetch events")
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Events retrieved successfully", fiber.Map{
		"events": events,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// ListEventsWithBookings returns every event decorated with its bookedSpots
// count. The counts come from a single grouped query, not one query per event.
func (h *Handler) ListEventsWithBookings(c *fiber.Ctx) error {
	var events []models.Event
	if err := h.DB.Order("date DESC").Find(&events).Error; err != nil {
		return dbError(c, err, "Failed to fetch events")
	}

	var rows []struct {
		EventID uuid.UUID
		Count   int64
	}
	if err := h.DB.Model(&models.Booking{}).
		Select("event_id, COUNT(*) AS count").
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return dbError(c, err, "Failed to count bookings")
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}

	decorated := make([]models.EventWithBookings, 0, len(events))
	for _, event := range events {
		decorated = append(decorated, models.EventWithBookings{
			Event:       event,
			BookedSpots: counts[event.ID],
		})
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Events with booking counts retrieved successfully", decorated)
}

// GetEventBySlug returns a single event. The slug is trimmed and lower-cased
// before lookup.
func (h *Handler) GetEventBySlug(c *fiber.Ctx) error {
	slugParam := sanitizeSlug(c.Params("slug"))
	if slugParam == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Event slug is required", nil)
	}

	var event models.Event
	if err := h.DB.Where("slug = ?", slugParam).First(&event).Error; err != nil {
		return dbError(c, err, "Event not found")
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Event details retrieved successfully", event)
}

// CreateEvent creates an event from a multipart form. The slug is derived
// from the title; an optional image file is uploaded to the external store
// before the insert and cleaned up if the insert fails.
func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Failed to parse form data", err)
	}

	f := eventForm{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Overview:    formValue(form, "overview"),
		Venue:       formValue(form, "venue"),
		Location:    formValue(form, "location"),
		Date:        formValue(form, "date"),
		Time:        formValue(form, "time"),
		Mode:        formValue(form, "mode"),
		Audience:    formValue(form, "audience"),
		Organizer:   formValue(form, "organizer"),
	}
	if err := helpers.Validate(f); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid event fields", err)
	}

	date, err := time.Parse(dateFormat, f.Date)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD", err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Event date cannot be in the past", nil)
	}

	tags, _, err := parseStringList(form, "tags")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid JSON in tags", err)
	}
	agenda, _, err := parseStringList(form, "agenda")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid JSON in agenda", err)
	}

	eventSlug := slug.Make(f.Title)

	var existing models.Event
	err = h.DB.Where("slug = ?", eventSlug).First(&existing).Error
	if err == nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "An event with this title already exists", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dbError(c, err, "Failed to create event")
	}

	event := models.Event{
		ID:          uuid.New(),
		Slug:        eventSlug,
		Title:       f.Title,
		Description: f.Description,
		Overview:    f.Overview,
		Venue:       f.Venue,
		Location:    f.Location,
		Date:        date,
		Time:        f.Time,
		Mode:        f.Mode,
		Audience:    f.Audience,
		Organizer:   f.Organizer,
		Tags:        datatypes.NewJSONSlice(utils.RemoveDuplicates(tags)),
		Agenda:      datatypes.NewJSONSlice(agenda),
	}

	files := form.File["image"]
	if len(files) > 0 {
		imageFile := files[0]
		if err := utils.ValidateImage(imageFile); err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid image file", err)
		}

		publicURL, objectPath, err := h.Images.Upload(imageFile, imageFolder)
		if err != nil {
			log.Printf("Image upload failed: %v\n", err)
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload image", nil)
		}
		event.Image = publicURL
		event.ImagePath = objectPath
	}

	if result := h.DB.Create(&event); result.Error != nil {
		if err := h.Images.Remove(event.ImagePath); err != nil {
			log.Printf("Failed to delete image after event creation failure: %v\n", err)
		}
		return dbError(c, result.Error, "Failed to create event")
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Event created successfully", event)
}

// UpdateEvent applies a partial multipart update to an existing event. Only
// allow-listed fields are touched; the slug is never re-derived. A new image
// file replaces the stored one, otherwise the image is left as is.
func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	slugParam := sanitizeSlug(c.Params("slug"))
	if slugParam == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Event slug is required", nil)
	}

	var event models.Event
	if err := h.DB.Where("slug = ?", slugParam).First(&event).Error; err != nil {
		return dbError(c, err, "Event not found")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Failed to parse form data", err)
	}

	scalars := map[string]*string{
		"title":       &event.Title,
		"description": &event.Description,
		"overview":    &event.Overview,
		"venue":       &event.Venue,
		"location":    &event.Location,
		"time":        &event.Time,
		"mode":        &event.Mode,
		"audience":    &event.Audience,
		"organizer":   &event.Organizer,
	}
	for key, field := range scalars {
		if value := formValue(form, key); value != "" {
			*field = value
		}
	}

	if dateValue := formValue(form, "date"); dateValue != "" {
		date, err := time.Parse(dateFormat, dateValue)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD", err)
		}
		event.Date = date
	}

	// Re-validate the merged record so a partial update cannot leave an
	// invalid field behind.
	merged := eventForm{
		Title:       event.Title,
		Description: event.Description,
		Overview:    event.Overview,
		Venue:       event.Venue,
		Location:    event.Location,
		Date:        event.Date.Format(dateFormat),
		Time:        event.Time,
		Mode:        event.Mode,
		Audience:    event.Audience,
		Organizer:   event.Organizer,
	}
	if err := helpers.Validate(merged); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid event fields", err)
	}

	if tags, ok, err := parseStringList(form, "tags"); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid JSON in tags", err)
	} else if ok {
		event.Tags = datatypes.NewJSONSlice(utils.RemoveDuplicates(tags))
	}
	if agenda, ok, err := parseStringList(form, "agenda"); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid JSON in agenda", err)
	} else if ok {
		event.Agenda = datatypes.NewJSONSlice(agenda)
	}

	previousImagePath := ""
	newImagePath := ""
	files := form.File["image"]
	if len(files) > 0 {
		imageFile := files[0]
		if err := utils.ValidateImage(imageFile); err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid image file", err)
		}

		publicURL, objectPath, err := h.Images.Upload(imageFile, imageFolder)
		if err != nil {
			log.Printf("Image upload failed: %v\n", err)
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload image", nil)
		}
		previousImagePath = event.ImagePath
		event.Image = publicURL
		event.ImagePath = objectPath
		newImagePath = objectPath
	}

	if err := h.DB.Save(&event).Error; err != nil {
		// The record kept its old image, so the fresh upload is the orphan.
		if newImagePath != "" {
			if rerr := h.Images.Remove(newImagePath); rerr != nil {
				log.Printf("Failed to delete image after event update failure: %v\n", rerr)
			}
		}
		return dbError(c, err, "Failed to update event")
	}

	if previousImagePath != "" {
		if err := h.Images.Remove(previousImagePath); err != nil {
			log.Printf("Failed to delete replaced image %s: %v\n", previousImagePath, err)
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Event updated successfully", event)
}

// DeleteEvent removes an event and all bookings referencing it inside one
// transaction, and reports how many bookings were cascaded away.
func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	slugParam := sanitizeSlug(c.Params("slug"))
	if slugParam == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Event slug is required", nil)
	}

	var event models.Event
	if err := h.DB.Where("slug = ?", slugParam).First(&event).Error; err != nil {
		return dbError(c, err, "Event not found")
	}

	var deletedBookings int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ?", event.ID).Delete(&models.Booking{})
		if result.Error != nil {
			return result.Error
		}
		deletedBookings = result.RowsAffected
		return tx.Delete(&event).Error
	})
	if err != nil {
		return dbError(c, err, "Failed to delete event")
	}

	if err := h.Images.Remove(event.ImagePath); err != nil {
		log.Printf("Failed to delete image for removed event %s: %v\n", event.Slug, err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Event deleted successfully", fiber.Map{
		"deletedBookingsCount": deletedBookings,
	})
}
