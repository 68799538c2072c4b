package handlers

import (
	"github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/middleware"
	"github.com/anjiri1684/school_cbt/models"
	"github.com/anjiri1684/school_cbt/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type monitorAuthMessage struct {
	Type    string `json:"type"`
	Token   string `json:"token"`
	ClassID string `json:"class_id"`
}

// authorizeMonitor checks the first message of a monitor connection and
// returns the watching user and class.
func authorizeMonitor(msg monitorAuthMessage) (uuid.UUID, uuid.UUID, error) {
	if msg.Type != "auth" {
		return uuid.Nil, uuid.Nil, badRequest("Invalid or missing auth message")
	}

	claims, err := middleware.ParseToken(msg.Token)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID")
	}

	role, _ := claims["role"].(string)
	if role != models.RoleAdmin && role != models.RoleTeacher {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "Forbidden: Staff access required")
	}

	classID, err := uuid.Parse(msg.ClassID)
	if err != nil {
		return uuid.Nil, uuid.Nil, badRequest("Invalid class id.")
	}
	return userID, classID, nil
}

// ServeCbtMonitor streams start and submit events of one class to staff.
func ServeCbtMonitor(c *websocketcontrib.Conn) {
	var authMsg monitorAuthMessage
	if err := c.ReadJSON(&authMsg); err != nil {
		logger.Log.Warn("cbt monitor auth failed", zap.Error(err))
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	userID, classID, err := authorizeMonitor(authMsg)
	if err != nil {
		logger.Log.Warn("cbt monitor auth failed", zap.Error(err))
		_ = c.WriteJSON(fiber.Map{"error": err.Error()})
		c.Close()
		return
	}

	client := &websocket.Client{UserID: userID, ClassID: classID, Conn: c}
	websocket.DefaultHub.Register(client)
	logger.Log.Info("cbt monitor connected", zap.String("user_id", userID.String()), zap.String("class_id", classID.String()))
	defer func() {
		websocket.DefaultHub.Unregister(client)
		c.Close()
	}()

	// Clients only listen; reading keeps the connection alive until it closes.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				logger.Log.Debug("cbt monitor read error", zap.String("user_id", userID.String()), zap.Error(err))
			}
			return
		}
	}
}
