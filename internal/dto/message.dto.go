package dto

import (
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type MessageDTO struct {
	ID             uint       `json:"id"`
	ConversationID string     `json:"conversation_id"`
	SenderID       uint       `json:"sender_id"`
	ReceiverID     uint       `json:"receiver_id"`
	Content        string     `json:"content"`
	IsRead         bool       `json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ConversationDTO struct {
	ConversationID string         `json:"conversation_id"`
	Partner        UserSummaryDTO `json:"partner"`
	LastMessage    MessageDTO     `json:"last_message"`
	UnreadCount    int64          `json:"unread_count"`
}

func NewMessage(m *models.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func NewMessageList(msgs []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for i := range msgs {
		out = append(out, NewMessage(&msgs[i]))
	}
	return out
}
