package controllers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/utils"
)

// ListDoctors returns all doctor accounts; the public booking page uses it
// to present the doctor picker.
func ListDoctors(c *fiber.Ctx) error {
	var doctorRole models.Role
	if err := db.DB.Where("name = ?", "doctor").First(&doctorRole).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Doctor role not found"})
	}

	var doctors []models.User
	if err := db.DB.Where("role_id = ?", doctorRole.ID).Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch doctors"})
	}

	for i := range doctors {
		doctors[i].Password = ""
		doctors[i].OTP = ""
	}
	return c.JSON(fiber.Map{"doctors": doctors, "count": len(doctors)})
}

// GetDoctor returns one doctor's public profile.
func GetDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.User
	if err := db.DB.Preload("Role").First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found"})
	}
	if doctor.Role.Name != "doctor" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found"})
	}

	doctor.Password = ""
	doctor.OTP = ""
	return c.JSON(doctor)
}

type doctorInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
}

// CreateDoctor lets an admin create a doctor account.
func CreateDoctor(c *fiber.Ctx) error {
	var input doctorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	var existing models.User
	if db.DB.Where("email = ?", input.Email).First(&existing).RowsAffected > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User with this email already exists"})
	}

	var doctorRole models.Role
	if err := db.DB.Where("name = ?", "doctor").First(&doctorRole).Error; err != nil {
		log.Printf("Error finding doctor role: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Doctor role not found"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	doctor := models.User{
		Name:           input.Name,
		Email:          input.Email,
		Password:       string(hashedPassword),
		Phone:          input.Phone,
		Specialization: input.Specialization,
		RoleID:         doctorRole.ID,
		IsVerified:     true, // admin-created accounts skip OTP verification
	}
	if err := db.DB.Create(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create doctor: " + err.Error()})
	}

	doctor.Password = ""
	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// UpdateDoctor lets an admin edit a doctor's account details.
func UpdateDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.User
	if err := db.DB.Preload("Role").First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found"})
	}
	if doctor.Role.Name != "doctor" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Doctor not found"})
	}

	var input doctorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if input.Name != "" {
		doctor.Name = input.Name
	}
	if input.Phone != "" {
		doctor.Phone = input.Phone
	}
	if input.Specialization != "" {
		doctor.Specialization = input.Specialization
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
		}
		doctor.Password = string(hashed)
	}

	if err := db.DB.Save(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update doctor"})
	}

	doctor.Password = ""
	return c.JSON(doctor)
}

// GetMyProfile returns the logged-in user's profile.
func GetMyProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	var user models.User
	if err := db.DB.Preload("Role").First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Password = ""
	user.OTP = ""
	return c.JSON(user)
}

// UpdateMyProfilePicture uploads a new profile picture to Cloudinary and
// stores the returned URL.
func UpdateMyProfilePicture(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "picture file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read uploaded file"})
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, fmt.Sprintf("user-%d", userID), "profile-pictures")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload picture: " + err.Error()})
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("profile_picture_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save picture URL"})
	}

	return c.JSON(fiber.Map{"profile_picture_url": url})
}
