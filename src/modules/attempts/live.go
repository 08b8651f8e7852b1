package attempts

import (
	"fmt"
	"log"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/config"
	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

const feedInterval = 5 * time.Second

// LiveFeedUpgrade authenticates an admin/mentor WebSocket upgrade for the
// live attempt monitor. Browsers cannot set headers on WebSocket requests,
// so the token is also accepted as a query parameter.
func LiveFeedUpgrade(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > len("Bearer ") {
			tokenString = authHeader[len("Bearer "):]
		}
	}
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).SendString("Missing token")
	}

	role, err := validateJWT(tokenString)
	if err != nil {
		log.Println("Invalid token on live feed upgrade:", err)
		return c.Status(fiber.StatusUnauthorized).SendString("Invalid token")
	}
	if role != models.RoleAdmin && role != models.RoleMentor {
		return c.Status(fiber.StatusForbidden).SendString("Role not authorized for this resource")
	}

	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveFeedSocket pushes the assessment's attempt list every few seconds so
// mentor dashboards see submissions as they land.
func LiveFeedSocket(conn *websocket.Conn) {
	defer conn.Close()

	assessmentID := conn.Params("assessmentId")
	if assessmentID == "" {
		log.Println("assessmentId missing in live feed connection")
		return
	}

	ticker := time.NewTicker(feedInterval)
	defer ticker.Stop()

	for {
		var attempts []models.Attempt
		err := database.DB.Where("assessment_id = ?", assessmentID).
			Order("created_at DESC").Find(&attempts).Error
		if err != nil {
			log.Println("Error fetching attempts for live feed:", err)
			return
		}

		listings, err := withProjections(database.DB, attempts, false, true)
		if err != nil {
			log.Println("Error loading attempt projections for live feed:", err)
			return
		}

		if err := conn.WriteJSON(fiber.Map{
			"assessment_id": assessmentID,
			"count":         len(listings),
			"attempts":      listings,
		}); err != nil {
			log.Println("Error writing to live feed socket:", err)
			return
		}

		<-ticker.C
	}
}

func validateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	role, _ := claims["role"].(string)
	return role, nil
}
