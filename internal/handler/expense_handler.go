package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pagos-go-api/internal/dto"
	"github.com/noah-isme/pagos-go-api/internal/service"
	"github.com/noah-isme/pagos-go-api/internal/utils"
)

// ExpenseHandler wires expense ledger HTTP routes.
type ExpenseHandler struct {
	service service.ExpenseService
	logger  zerolog.Logger
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(service service.ExpenseService, logger zerolog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
		logger:  logger.With().Str("component", "expense_handler").Logger(),
	}
}

// Register attaches expense endpoints to the router group.
func (h *ExpenseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *ExpenseHandler) list(c *fiber.Ctx) error {
	expenses, err := h.service.List(c.Context())
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "expenses retrieved", expenses)
}

func (h *ExpenseHandler) create(c *fiber.Ctx) error {
	payload := dto.ExpenseCreateRequest{
		Description: c.FormValue("description"),
		Amount:      c.FormValue("amount"),
		Date:        c.FormValue("date"),
		Actor:       actorFromForm(c),
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		file = nil
	}

	expense, err := h.service.Create(c.Context(), payload, file, tokenActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "expense recorded", expense)
}

func (h *ExpenseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.ExpenseDeleteRequest{}
	_ = c.BodyParser(&payload)

	if err := h.service.Delete(c.Context(), id, payload, tokenActorFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "expense deleted", fiber.Map{"id": id})
}

func (h *ExpenseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "expense not found")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "operation not allowed for role")
	case errors.Is(err, service.ErrValidation):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *ExpenseHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
