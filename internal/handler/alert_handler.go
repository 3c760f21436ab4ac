package handler

import (
	"encoding/json"
	"os"

	"ai-therapy-be/internal/dto"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/serverutils"
	"ai-therapy-be/internal/service"
	internalWS "ai-therapy-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AlertHandler exposes the persisted safety alerts and the realtime
// websocket feed therapists subscribe to.
type AlertHandler struct {
	service *service.AlertService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewAlertHandler(service *service.AlertService, hub *internalWS.Hub, log logger.ILogger) *AlertHandler {
	return &AlertHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *AlertHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so accept the
	// token from a query param first
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("AlertHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("AlertHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, c, userID)
			h.logger.Info("AlertHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// GetAlerts returns the user's alerts.
func (h *AlertHandler) GetAlerts(c *fiber.Ctx) error {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	alerts, total, err := h.service.GetAlerts(c.UserContext(), userID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	unacked, err := h.service.GetUnacknowledgedCount(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	res := dto.GetAlertsResponse{
		Alerts:       make([]dto.AlertResponse, 0, len(alerts)),
		Total:        total,
		UnackedCount: unacked,
	}
	for _, alert := range alerts {
		item := dto.AlertResponse{
			Id:           alert.ID,
			TypeCode:     alert.TypeCode,
			Title:        alert.Title,
			Message:      alert.Message,
			Acknowledged: alert.Acknowledged,
			CreatedAt:    alert.CreatedAt,
		}
		if len(alert.Metadata) > 0 {
			var meta map[string]interface{}
			if err := json.Unmarshal(alert.Metadata, &meta); err == nil {
				item.Metadata = meta
			}
		}
		res.Alerts = append(res.Alerts, item)
	}

	return c.JSON(serverutils.SuccessResponse("Alert list", res))
}

// Acknowledge marks a specific alert as acknowledged.
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	if err := h.service.Acknowledge(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// RegisterRoutes registers the alert routes.
func (h *AlertHandler) RegisterRoutes(router fiber.Router) {
	alerts := router.Group("/alerts")
	alerts.Get("/ws", h.ServeWs) // token via query param, no middleware
	alerts.Use(serverutils.JwtMiddleware)
	alerts.Get("/", h.GetAlerts)
	alerts.Patch("/:id/ack", h.Acknowledge)
}
