package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/social-service/middleware"
)

// ListMessages handles GET /messages?senderId&receiverId.
func (h *Handler) ListMessages(c *gin.Context) {
	ctx, span := startSpan(c, "messages.list")
	defer span.End()

	q := middleware.Query[ConversationQuery](c)
	messages, err := h.svc.Messages.Conversation(ctx, caller(c), q.SenderID, q.ReceiverID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetMessage handles GET /messages/:id.
func (h *Handler) GetMessage(c *gin.Context) {
	ctx, span := startSpan(c, "messages.get")
	defer span.End()

	message, err := h.svc.Messages.Get(ctx, caller(c), middleware.Params[IDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// SendMessage handles POST /messages.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx, span := startSpan(c, "messages.create")
	defer span.End()

	req := middleware.Body[CreateMessageRequest](c)
	message, err := h.svc.Messages.Send(ctx, caller(c), req.Body, req.SenderID, req.ReceiverID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// DeleteMessage handles DELETE /messages/:id.
func (h *Handler) DeleteMessage(c *gin.Context) {
	ctx, span := startSpan(c, "messages.delete")
	defer span.End()

	if err := h.svc.Messages.Delete(ctx, caller(c), middleware.Params[IDParam](c).Int()); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListNotifications handles GET /notifications?userId.
func (h *Handler) ListNotifications(c *gin.Context) {
	ctx, span := startSpan(c, "notifications.list")
	defer span.End()

	q := middleware.Query[NotificationsQuery](c)
	items, err := h.svc.Notifications.List(ctx, caller(c), q.UserID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

// MarkNotificationRead handles PUT /notifications/:id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	ctx, span := startSpan(c, "notifications.read")
	defer span.End()

	n, err := h.svc.Notifications.MarkRead(ctx, caller(c), middleware.Params[IDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// MarkAllNotificationsRead handles PUT /notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	ctx, span := startSpan(c, "notifications.read_all")
	defer span.End()

	req := middleware.Body[ReadAllRequest](c)
	if _, err := h.svc.Notifications.MarkAllRead(ctx, caller(c), req.UserID); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteNotification handles DELETE /notifications/:id.
func (h *Handler) DeleteNotification(c *gin.Context) {
	ctx, span := startSpan(c, "notifications.delete")
	defer span.End()

	if err := h.svc.Notifications.Delete(ctx, caller(c), middleware.Params[IDParam](c).Int()); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}
