package handler

import (
	"faraalkhata/internal/repository"
	"faraalkhata/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	service service.CustomerService
}

func NewCustomerHandler(s service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var input service.CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.service.CreateCustomer(input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	var input service.CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	customer, err := h.service.UpdateCustomer(id, input)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	params := repository.CustomerListParams{
		ShowArchived: c.Query("show_archived") == "true",
		Query:        c.Query("q"),
		SortBy:       c.Query("sort_by", "name"),
		SortDesc:     c.Query("sort_dir") == "desc",
	}

	customers, err := h.service.GetCustomers(params)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": customers})
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	customer, err := h.service.GetCustomer(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": customer})
}

func (h *CustomerHandler) ArchiveCustomer(c *fiber.Ctx) error {
	return h.setArchived(c, true, "Customer archived")
}

func (h *CustomerHandler) UnarchiveCustomer(c *fiber.Ctx) error {
	return h.setArchived(c, false, "Customer restored")
}

func (h *CustomerHandler) setArchived(c *fiber.Ctx, archived bool, msg string) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	if err := h.service.SetArchived(id, archived); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *CustomerHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": categories})
}

func (h *CustomerHandler) CreateCategory(c *fiber.Ctx) error {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.service.CreateCategory(input.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Category created", "data": category})
}
