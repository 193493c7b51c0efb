package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repo is the durable conversation store. Reads are scoped by owner; a
// conversation owned by someone else is reported as gorm.ErrRecordNotFound.
type Repo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db, now: time.Now}
}

func (r *Repo) CreateConversation(ctx context.Context, c *Conversation) error {
	now := r.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repo) GetConversation(ctx context.Context, id uint64, userID string) (*ConversationWithMessages, error) {
	var conv Conversation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error; err != nil {
		return nil, err
	}

	msgs, err := r.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	return &ConversationWithMessages{Conversation: conv, Messages: msgs}, nil
}

// ListMessages returns a conversation's messages in insertion order.
func (r *Repo) ListMessages(ctx context.Context, conversationID uint64) ([]Message, error) {
	msgs := []Message{}
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListConversations returns the owner's conversations, most recently updated first.
func (r *Repo) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	convs := []Conversation{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// AppendMessage inserts m and bumps the parent's updated_at in one transaction.
// Ownership must already have been checked by the caller.
func (r *Repo) AppendMessage(ctx context.Context, m *Message) error {
	now := r.now()
	m.CreatedAt = now
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Conversation{}).Where("id = ?", m.ConversationID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("updated_at", now).Error
	})
}

// UpdateTitle sets the title only when userID owns the conversation.
// updated reports whether a row matched.
func (r *Repo) UpdateTitle(ctx context.Context, id uint64, title, userID string) (updated bool, err error) {
	res := r.db.WithContext(ctx).Model(&Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":      title,
			"updated_at": r.now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetSystemTitle replaces the title only while it still equals expected, so a
// rename by the user or an earlier system title wins. updated reports whether
// a row matched.
func (r *Repo) SetSystemTitle(ctx context.Context, id uint64, userID, expected, title string) (updated bool, err error) {
	res := r.db.WithContext(ctx).Model(&Conversation{}).
		Where("id = ? AND user_id = ? AND title = ?", id, userID, expected).
		Updates(map[string]any{
			"title":      title,
			"updated_at": r.now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FirstUserMessage returns the earliest user-role message of a conversation.
func (r *Repo) FirstUserMessage(ctx context.Context, conversationID uint64) (*Message, error) {
	var m Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND role = ?", conversationID, RoleUser).
		Order("id ASC").
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}
