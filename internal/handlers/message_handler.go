package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/message"
	"github.com/BruksfildServices01/tour-guide-api/internal/dto"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/httpresp"
	"github.com/BruksfildServices01/tour-guide-api/internal/middleware"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type MessageHandler struct {
	db *gorm.DB
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Validation(c, err)
		return
	}

	content, err := message.NormalizeContent(req.Content)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	senderID := middleware.CurrentActor(c).UserID
	if err := message.CanSend(senderID, req.ReceiverID); err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()

	var receiver models.User
	if err := h.db.WithContext(ctx).First(&receiver, req.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Code(c, httperr.CodeRecipientNotFound)
			return
		}
		httperr.Respond(c, err)
		return
	}
	if receiver.Suspended() {
		httperr.Code(c, httperr.CodeRecipientNotFound)
		return
	}

	msg := models.Message{
		ConversationID: message.ConversationID(senderID, receiver.ID),
		SenderID:       senderID,
		ReceiverID:     receiver.ID,
		Content:        content,
	}
	if err := h.db.WithContext(ctx).Create(&msg).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewMessage(&msg))
}

// Thread returns the conversation with another user, oldest first, and
// marks what the caller received in it as read.
func (h *MessageHandler) Thread(c *gin.Context) {
	otherID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	me := middleware.CurrentActor(c).UserID
	conversationID := message.ConversationID(me, otherID)
	page, limit := pagination(c)
	ctx := c.Request.Context()

	q := h.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	// newest page first, then flipped to chronological order
	var msgs []models.Message
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&msgs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	now := time.Now().UTC()
	if err := h.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, me, false).
		Updates(map[string]any{"is_read": true, "read_at": now}).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	for i := range msgs {
		if msgs[i].ReceiverID == me && !msgs[i].IsRead {
			msgs[i].IsRead = true
			msgs[i].ReadAt = &now
		}
	}

	httpresp.Page(c, dto.NewMessageList(msgs), total, page, limit)
}

// Conversations lists the caller's conversations, most recent first, each
// with its last message and the caller's unread count.
func (h *MessageHandler) Conversations(c *gin.Context) {
	me := middleware.CurrentActor(c).UserID
	ctx := c.Request.Context()

	latest := h.db.
		Model(&models.Message{}).
		Select("MAX(id)").
		Where("sender_id = ? OR receiver_id = ?", me, me).
		Group("conversation_id")

	var last []models.Message
	if err := h.db.WithContext(ctx).
		Where("id IN (?)", latest).
		Order("id DESC").
		Find(&last).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	type unreadRow struct {
		ConversationID string
		Count          int64
	}
	var rows []unreadRow
	if err := h.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", me, false).
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	unread := make(map[string]int64, len(rows))
	for _, r := range rows {
		unread[r.ConversationID] = r.Count
	}

	partnerIDs := make([]uint, 0, len(last))
	for _, m := range last {
		partnerIDs = append(partnerIDs, partnerOf(m, me))
	}
	var partners []models.User
	if len(partnerIDs) > 0 {
		if err := h.db.WithContext(ctx).Where("id IN ?", partnerIDs).Find(&partners).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}
	byID := make(map[uint]models.User, len(partners))
	for _, u := range partners {
		byID[u.ID] = u
	}

	out := make([]dto.ConversationDTO, 0, len(last))
	for i := range last {
		m := &last[i]
		pid := partnerOf(*m, me)
		partner, ok := byID[pid]
		if !ok {
			partner = models.User{ID: pid}
		}
		out = append(out, dto.ConversationDTO{
			ConversationID: m.ConversationID,
			Partner:        dto.NewUserSummary(partner),
			LastMessage:    dto.NewMessage(m),
			UnreadCount:    unread[m.ConversationID],
		})
	}

	httpresp.List(c, out)
}

func partnerOf(m models.Message, me uint) uint {
	if m.SenderID == me {
		return m.ReceiverID
	}
	return m.SenderID
}
