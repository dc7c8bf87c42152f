package models

import "time"

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ConversationID string `gorm:"size:64;not null;index" json:"conversation_id"`

	SenderID   uint `gorm:"not null;index" json:"sender_id"`
	Sender     User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sender"`
	ReceiverID uint `gorm:"not null;index" json:"receiver_id"`
	Receiver   User `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"receiver"`

	Content string     `gorm:"size:2000;not null" json:"content"`
	IsRead  bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt  *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
