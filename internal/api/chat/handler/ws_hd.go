package chatHandler

import (
	"context"
	"time"

	"FintechAgent/internal/api/chat"
	contextPkg "FintechAgent/pkg/context"
	"FintechAgent/pkg/log"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type wsError struct {
	Error string `json:"error"`
}

// handleChatWebSocket serves the chat contract over one connection: each
// text frame is a ChatRequest, answered by a ChatResponse or an error.
func (h *ChatHandler) handleChatWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals("X-Request-ID").(string)
	h.log.Info("Chat WebSocket client connected")
	defer h.log.Info("Chat WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 5 * time.Minute

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Chat WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var req chat.ChatRequest
		if err := json.Unmarshal(message, &req); err != nil {
			if err := c.WriteJSON(wsError{Error: chat.ErrInvalidRequest.Error()}); err != nil {
				break
			}
			continue
		}

		req.Trim()
		if err := h.validator.Struct(req); err != nil {
			if err := c.WriteJSON(wsError{Error: chat.ValidationError(err).Error()}); err != nil {
				break
			}
			continue
		}

		turnCtx := contextPkg.WithUserID(contextPkg.WithRequestID(context.Background(), requestID), req.UserID)
		ctx, cancel := context.WithTimeout(turnCtx, turnTimeout)
		reply := h.chatService.Reply(ctx, req.UserID, req.Message)
		cancel()
		log.WithContext(turnCtx).Debug("Websocket message handled")

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(chat.ChatResponse{Response: reply}); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
