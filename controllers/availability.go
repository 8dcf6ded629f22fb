package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/utils"
)

// GetMySchedule returns the logged-in doctor's weekly rules.
func GetMySchedule(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	rules, err := Store.WeeklyRules(c.Context(), doctorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch schedule",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

type scheduleInput struct {
	Rules []models.AvailabilityRule `json:"rules"`
}

// ReplaceMySchedule swaps the doctor's whole weekly schedule. Wholesale
// replace, last write wins; the editor always submits the full rule set.
func ReplaceMySchedule(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	var input scheduleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if err := Store.ReplaceWeeklyRules(c.Context(), doctorID, input.Rules); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule",
			Error:   err.Error(),
		})
	}

	SlotCache.Invalidate(c.Context(), doctorID)

	rules, err := Store.WeeklyRules(c.Context(), doctorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Schedule saved but failed to reload",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

// ListMyOverrides returns the doctor's upcoming date overrides.
func ListMyOverrides(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	from := time.Now().In(ClinicLoc)
	if q := c.Query("from"); q != "" {
		parsed, err := models.ParseDate(q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "from must be in YYYY-MM-DD format"})
		}
		from = parsed
	}

	overrides, err := Store.OverridesFrom(c.Context(), doctorID, from)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch overrides",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"overrides": overrides})
}

type overrideInput struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason"`
}

// UpsertMyOverride marks one date as a holiday or a special working day.
// At most one override exists per date; posting again replaces it.
func UpsertMyOverride(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	var input overrideInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := models.ParseDate(input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "date must be in YYYY-MM-DD format"})
	}

	ov := models.DateOverride{
		DoctorID:    doctorID,
		Date:        date,
		IsAvailable: input.IsAvailable,
		Reason:      input.Reason,
	}
	if err := Store.UpsertOverride(c.Context(), &ov); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save override",
			Error:   err.Error(),
		})
	}

	SlotCache.Invalidate(c.Context(), doctorID)
	return c.JSON(ov)
}

// DeleteMyOverride removes one override, restoring the weekly schedule for
// that date.
func DeleteMyOverride(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid override id"})
	}

	if err := Store.DeleteOverride(c.Context(), doctorID, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{Message: "Override not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete override",
			Error:   err.Error(),
		})
	}

	SlotCache.Invalidate(c.Context(), doctorID)
	return c.SendStatus(fiber.StatusNoContent)
}
