package handler

import (
	"strings"
	"time"

	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/internal/service"
	"faraalkhata/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var draft wizard.Draft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.CreateOrder(&draft, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": order})
}

func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var draft wizard.Draft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateOrder(id, &draft, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var input service.CancelInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CancelOrder(id, input, actorFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order cancelled"})
}

func (h *OrderHandler) LogPayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var input service.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	payment, err := h.service.LogPayment(id, input, actorFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment logged", "data": payment})
}

func (h *OrderHandler) MarkReadyForPickup(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	if err := h.service.MarkReadyForPickup(id, actorFrom(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order marked ready for pickup"})
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	filters, err := parseOrderFilters(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	orders, err := h.service.GetOrders(filters)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": order})
}

func (h *OrderHandler) GetFinancials(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	fin, err := h.service.GetFinancials(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": fin})
}

// parseOrderFilters reads the list query params. Statuses come as a
// comma-separated list; dates as YYYY-MM-DD.
func parseOrderFilters(c *fiber.Ctx) (repository.OrderFilters, error) {
	var filters repository.OrderFilters

	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := model.OrderStatus(strings.TrimSpace(s))
			switch status {
			case model.StatusPending, model.StatusReadyForPickup,
				model.StatusCompleted, model.StatusCancelled:
				filters.Statuses = append(filters.Statuses, status)
			default:
				return filters, fiber.NewError(400, "unknown order status: "+s)
			}
		}
	}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, fiber.NewError(400, "invalid customer_id")
		}
		filters.CustomerID = &id
	}
	if raw := c.Query("referral_partner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, fiber.NewError(400, "invalid referral_partner_id")
		}
		filters.ReferralPartnerID = &id
	}
	if raw := c.Query("date_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, fiber.NewError(400, "date_from must be YYYY-MM-DD")
		}
		filters.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, fiber.NewError(400, "date_to must be YYYY-MM-DD")
		}
		filters.DateTo = &t
	}
	if raw := c.Query("needs_delivery"); raw != "" {
		v := raw == "true"
		filters.NeedsDelivery = &v
	}
	return filters, nil
}
