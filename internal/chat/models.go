package chat

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultTitle is the placeholder a conversation carries until its first turn is titled.
const DefaultTitle = "New Conversation"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index:idx_conv_user_updated,priority:1" json:"userId"`
	Category  string    `gorm:"type:varchar(32);not null" json:"category"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index:idx_conv_user_updated,priority:2" json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"not null;index" json:"conversationId"`
	Role           Role      `gorm:"type:varchar(16);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Message) TableName() string { return "messages" }

// BeforeCreate keeps invalid roles and blank content out of the table.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidInput, m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidInput)
	}
	return nil
}

type ConversationWithMessages struct {
	Conversation
	Messages []Message `json:"messages"`
}

// TurnResult is what one successful SendMessage persisted.
type TurnResult struct {
	UserMessage *Message `json:"userMessage"`
	AIMessage   *Message `json:"aiMessage"`
}
