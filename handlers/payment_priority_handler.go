package handlers

import (
	"github.com/anjiri1684/school_cbt/services"
	"github.com/anjiri1684/school_cbt/utils"
	"github.com/gofiber/fiber/v2"
)

type PaymentPriorityRequest struct {
	PriorityOrder []services.PriorityItemInput `json:"priority_order"`
}

func SetPaymentPriority(c *fiber.Ctx) error {
	var req PaymentPriorityRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if err := utils.RequireFields(utils.F("priority_order", req.PriorityOrder)); err != nil {
		return err
	}
	if err := utils.ValidateArray("priority_order", req.PriorityOrder); err != nil {
		return err
	}

	result, err := services.SetPaymentPriority(c.UserContext(), req.PriorityOrder)
	if err != nil {
		return serviceError(err, "Unable to set payment priority.")
	}

	return respond(c, fiber.StatusCreated, "Payment priority set successfully.", "payment_priority", result)
}

func GetPaymentPriority(c *fiber.Ctx) error {
	result, err := services.FetchPaymentPriority(c.UserContext())
	if err != nil {
		return serviceError(err, "Unable to fetch payment priority.")
	}

	return respond(c, fiber.StatusOK, "Payment priority fetched successfully.", "payment_priority", result)
}
