package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/models"
	"github.com/devanshhooda/learn-live-server/internal/notify"
	"github.com/devanshhooda/learn-live-server/internal/service"
)

type Handler struct {
	users     *service.UserService
	relations *service.RelationService
	calls     *service.CallService
	validate  *validator.Validate
	log       *zap.Logger
}

func NewHandler(users *service.UserService, relations *service.RelationService, calls *service.CallService, log *zap.Logger) *Handler {
	return &Handler{
		users:     users,
		relations: relations,
		calls:     calls,
		validate:  validator.New(),
		log:       log,
	}
}

func (h *Handler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Welcome to learn live server",
	})
}

func (h *Handler) WelcomeUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "Welcome to user routes of learn live server",
	})
}

type credentialsReq struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,e164"`
	Password    string `json:"password" validate:"required,min=6"`
	FcmToken    string `json:"fcmToken"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body !")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, accessToken, err := h.users.Register(c.Context(), req.PhoneNumber, req.Password, req.FcmToken)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":      true,
		"message":     "user created",
		"phoneNumber": user.PhoneNumber,
		"token":       accessToken,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body !")
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, accessToken, err := h.users.Login(c.Context(), req.PhoneNumber, req.Password, req.FcmToken)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "login successful",
		"token":   accessToken,
		"user":    user,
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	phone := c.Query("phoneNumber")
	userID := c.Query("userId")
	if phone == "" && userID == "" {
		return badRequest(c, "Phone number is not provided !")
	}

	var patch models.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body !")
	}

	var (
		user *models.User
		err  error
	)
	if phone != "" {
		user, err = h.users.UpdateByPhone(c.Context(), phone, &patch)
	} else {
		user, err = h.users.UpdateByID(c.Context(), userID, &patch)
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  true,
		"message": "DB update successful",
		"user":    user,
	})
}

func (h *Handler) ShowAll(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "users fetched",
		"users":   users,
	})
}

func (h *Handler) ShowOnly(c *fiber.Ctx) error {
	var criteria models.FilterCriteria
	if err := c.BodyParser(&criteria); err != nil {
		return badRequest(c, "Invalid request body !")
	}

	users, err := h.users.ListFiltered(c.Context(), criteria)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "users fetched",
		"users":   users,
	})
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return badRequest(c, "User id is not provided !")
	}

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  true,
		"message": "user fetched",
		"user":    user,
	})
}

// fail maps service errors onto the response envelope with a proper HTTP
// status code.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrUserExists):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrSelfRequest), errors.Is(err, service.ErrNoDeviceToken):
		status = fiber.StatusBadRequest
	case errors.Is(err, service.ErrRequestExists),
		errors.Is(err, service.ErrAlreadyConnected),
		errors.Is(err, service.ErrNoPendingRequest):
		status = fiber.StatusConflict
	case errors.Is(err, service.ErrPartialWrite), errors.Is(err, notify.ErrNotConfigured):
		status = fiber.StatusBadGateway
	default:
		h.log.Error("request failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"status":  false,
			"message": "Something went wrong !",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  false,
		"message": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  false,
		"message": msg,
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  false,
		"message": "Form validation error !",
		"errors":  formatValidationErrors(err),
	})
}

func formatValidationErrors(err error) []fiber.Map {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make([]fiber.Map, 0, len(ve))
	for _, fe := range ve {
		out = append(out, fiber.Map{
			"field": fe.Field(),
			"tag":   fe.Tag(),
		})
	}
	return out
}
