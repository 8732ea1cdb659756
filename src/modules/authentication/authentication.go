package authentication

import (
	"errors"
	"log"
	"time"

	"github.com/Fariz-ai/dev-events/src/core/config"
	"github.com/Fariz-ai/dev-events/src/core/helpers"
	"github.com/Fariz-ai/dev-events/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Handler serves the organizer account routes.
type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type signUpRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" validate:"max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// issueJwtToken generates a JWT token for authenticated users.
func issueJwtToken(userID string, name string, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(30 * 24 * time.Hour).Unix(),
	})

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

// SignUp handles organizer registration.
func (h *Handler) SignUp(c *fiber.Ctx) error {
	body := new(signUpRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid signup fields", err)
	}

	var existing models.User
	err := h.DB.Where("email = ?", body.Email).First(&existing).Error
	if err == nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Email is already registered", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check existing account: %v\n", err)
		return helpers.HandleError(c, helpers.StatusForDBError(err), "Failed to create account", nil)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", nil)
	}

	user := models.User{
		ID:        uuid.New(),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  string(hashedPwd),
	}

	if result := h.DB.Create(&user); result.Error != nil {
		log.Printf("Error creating user: %v\n", result.Error)
		return helpers.HandleError(c, helpers.StatusForDBError(result.Error), "Failed to create account", nil)
	}

	token, err := issueJwtToken(user.ID.String(), user.FirstName, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", fiber.Map{"token": token})
}

// SignIn handles organizer authentication.
func (h *Handler) SignIn(c *fiber.Ctx) error {
	body := new(signInRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid signin fields", err)
	}

	user := new(models.User)
	if result := h.DB.Where("email = ?", body.Email).First(user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", nil)
	}

	token, err := issueJwtToken(user.ID.String(), user.FirstName, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Sign-in successful", fiber.Map{"token": token})
}

// GetMe returns the account behind the presented token.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	userId, ok := c.Locals("user_id").(string)
	if !ok || userId == "" {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid or missing user_id", nil)
	}

	userID, err := uuid.Parse(userId)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Account not found", nil)
		}
		log.Printf("Failed to fetch account: %v\n", err)
		return helpers.HandleError(c, helpers.StatusForDBError(err), "Failed to fetch account", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Account retrieved successfully", user)
}
