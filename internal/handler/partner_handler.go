package handler

import (
	"faraalkhata/internal/model"
	"faraalkhata/internal/repository"
	"faraalkhata/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// PartnerHandler serves the small lookup entities the order wizard reads:
// referral partners, suppliers, and delivery addresses. These are thin
// enough to sit straight on their repositories.
type PartnerHandler struct {
	partners  repository.ReferralPartnerRepository
	suppliers repository.SupplierRepository
	addresses repository.DeliveryAddressRepository
}

func NewPartnerHandler(
	partners repository.ReferralPartnerRepository,
	suppliers repository.SupplierRepository,
	addresses repository.DeliveryAddressRepository,
) *PartnerHandler {
	return &PartnerHandler{partners: partners, suppliers: suppliers, addresses: addresses}
}

func (h *PartnerHandler) CreatePartner(c *fiber.Ctx) error {
	var partner model.ReferralPartner
	if err := c.BodyParser(&partner); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(partner); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	if err := h.partners.Create(&partner); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Referral partner created", "data": partner})
}

func (h *PartnerHandler) GetPartners(c *fiber.Ctx) error {
	partners, err := h.partners.FindActive()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": partners})
}

func (h *PartnerHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	partner, err := h.partners.FindByID(id)
	if err != nil {
		return fail(c, err)
	}
	if err := c.BodyParser(partner); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	partner.ID = id
	if errs := validator.ValidateStruct(*partner); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	if err := h.partners.Update(partner); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Referral partner updated", "data": partner})
}

func (h *PartnerHandler) CreateSupplier(c *fiber.Ctx) error {
	var supplier model.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(supplier); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	if err := h.suppliers.Create(&supplier); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

func (h *PartnerHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.suppliers.FindActive()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": suppliers})
}

func (h *PartnerHandler) CreateAddress(c *fiber.Ctx) error {
	var address model.DeliveryAddress
	if err := c.BodyParser(&address); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(address); errs != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": errs})
	}

	if err := h.addresses.Create(&address); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Delivery address created", "data": address})
}

func (h *PartnerHandler) GetCustomerAddresses(c *fiber.Ctx) error {
	customerID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
	}

	addresses, err := h.addresses.FindByCustomer(customerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": addresses})
}
