package handler

import (
	"errors"

	"faraalkhata/internal/repository"
	"faraalkhata/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorFrom builds the session context from the values the auth middleware
// stored on the request.
func actorFrom(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// errStatus maps service failures onto HTTP statuses: validation problems
// are the caller's to fix inline, transition guards are conflicts, missing
// rows are 404s.
func errStatus(err error) int {
	switch {
	case service.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrOverpayment):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrTerminalState),
		errors.Is(err, service.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrPartnerNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
