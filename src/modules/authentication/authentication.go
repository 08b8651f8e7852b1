package authentication

import (
	"time"

	"github.com/zyntratech-upendra/placements/src/core/config"
	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// issueJwtToken generates a JWT token for authenticated users.
func issueJwtToken(userID, name, email, role string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = userID
	claims["name"] = name
	claims["email"] = email
	claims["role"] = role
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(30 * 24 * time.Hour).Unix()

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

type registerInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=admin mentor student"`
	RollNumber string `json:"roll_number"`
	Department string `json:"department"`
}

// Register creates a portal account. Only admins reach this handler.
func Register(c *fiber.Ctx) error {
	db := database.DB
	body := new(registerInput)

	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		ID:         uuid.New(),
		Name:       body.Name,
		Email:      body.Email,
		Password:   string(hashedPwd),
		Role:       body.Role,
		RollNumber: body.RollNumber,
		Department: body.Department,
		IsActive:   true,
	}

	if result := db.Create(&user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create user account", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", user)
}

// SignIn handles user authentication.
func SignIn(c *fiber.Ctx) error {
	db := database.DB
	body := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	user := new(models.User)
	if result := db.Where("email = ?", body.Email).First(user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, "Invalid login credentials", err)
	}

	token, err := issueJwtToken(user.ID.String(), user.Name, user.Email, user.Role)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Sign-in successful", fiber.Map{
		"token": token,
		"user":  user.Summary(),
		"role":  user.Role,
	})
}

// Me returns the authenticated principal's profile.
func Me(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	user := new(models.User)
	if result := db.Where("id = ?", userID).First(user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusNotFound, "User not found", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Profile retrieved successfully", user)
}

// ListUsers returns every account, newest first. Admin/mentor only.
func ListUsers(c *fiber.Ctx) error {
	db := database.DB

	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch users", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Users fetched successfully", fiber.Map{
		"count": len(users),
		"users": users,
	})
}
