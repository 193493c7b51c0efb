package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/suPer8Hu/brand-assistant/internal/ai"
	"github.com/suPer8Hu/brand-assistant/internal/logging"
	"github.com/suPer8Hu/brand-assistant/internal/prompts"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TitleQueue hands first-turn titling to a background worker.
type TitleQueue interface {
	PublishTitleJob(ctx context.Context, conversationID uint64, userID, expectedTitle string) error
}

type Service struct {
	repo     *Repo
	gateway  *Gateway
	registry *prompts.Registry
	locker   TurnLocker
	titles   TitleQueue
}

func NewService(repo *Repo, gateway *Gateway, registry *prompts.Registry, locker TurnLocker) *Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &Service{repo: repo, gateway: gateway, registry: registry, locker: locker}
}

// SetTitleQueue switches first-turn titling to the queue. A nil queue keeps it inline.
func (s *Service) SetTitleQueue(q TitleQueue) {
	s.titles = q
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) CreateConversation(ctx context.Context, userID, category, title string) (*Conversation, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if !s.registry.IsKnown(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	conv := &Conversation{
		UserID:   userID,
		Category: category,
		Title:    title,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("conversation created",
		zap.Uint64("conversation_id", conv.ID),
		zap.String("user_id", userID),
		zap.String("category", category),
	)
	return conv, nil
}

func (s *Service) GetConversation(ctx context.Context, id uint64, userID string) (*ConversationWithMessages, error) {
	conv, err := s.repo.GetConversation(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// UpdateTitle renames a conversation. Conversations the user does not own are
// left untouched and no error is reported.
func (s *Service) UpdateTitle(ctx context.Context, id uint64, userID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	updated, err := s.repo.UpdateTitle(ctx, id, title, userID)
	if err != nil {
		return err
	}
	if !updated {
		logging.FromContext(ctx).Debug("title update matched no owned conversation",
			zap.Uint64("conversation_id", id),
			zap.String("user_id", userID),
		)
	}
	return nil
}

type SendMessageInput struct {
	Role    Role
	Content string
}

// SendMessage runs one turn. The user message is stored before the reply is
// requested and stays stored if the provider fails.
func (s *Service) SendMessage(ctx context.Context, userID string, conversationID uint64, in SendMessageInput) (*TurnResult, error) {
	// 1) validate
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if in.Role != "" && in.Role != RoleUser {
		return nil, fmt.Errorf("%w: role must be %q", ErrInvalidInput, RoleUser)
	}

	log := logging.FromContext(ctx).With(
		zap.Uint64("conversation_id", conversationID),
		zap.String("user_id", userID),
	)

	// 2) verify ownership before contending the lock
	if _, err := s.repo.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, notFound(err)
	}

	unlock, err := s.locker.Lock(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	defer unlock()

	// history is read under the lock
	conv, err := s.repo.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, notFound(err)
	}

	history := make([]ai.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		history = append(history, ai.Message{Role: ai.Role(m.Role), Content: m.Content})
	}

	// 3) store user message
	userMsg := &Message{
		ConversationID: conv.ID,
		Role:           RoleUser,
		Content:        content,
	}
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, notFound(err)
	}

	// 4) call provider with pre-append history
	start := time.Now()
	reply, err := s.gateway.GenerateReply(ctx, content, conv.Category, history)
	if err != nil {
		log.Error("reply generation failed",
			zap.Uint64("user_message_id", userMsg.ID),
			zap.Duration("cost", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	// 5) store assistant message
	aiMsg := &Message{
		ConversationID: conv.ID,
		Role:           RoleAssistant,
		Content:        reply,
	}
	if err := s.repo.AppendMessage(ctx, aiMsg); err != nil {
		return nil, err
	}
	unlock()

	log.Info("turn completed",
		zap.Uint64("user_message_id", userMsg.ID),
		zap.Uint64("ai_message_id", aiMsg.ID),
		zap.Duration("gen_cost", time.Since(start)),
	)

	// 6) first exchange: title the conversation
	if len(conv.Messages) == 0 {
		s.titleFirstTurn(ctx, conv.ID, userID, conv.Title, content)
	}

	return &TurnResult{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

func (s *Service) titleFirstTurn(ctx context.Context, conversationID uint64, userID, currentTitle, firstMessage string) {
	log := logging.FromContext(ctx).With(zap.Uint64("conversation_id", conversationID))

	if s.titles != nil {
		err := s.titles.PublishTitleJob(ctx, conversationID, userID, currentTitle)
		if err == nil {
			return
		}
		log.Warn("title job publish failed, titling inline", zap.Error(err))
	}

	title := s.gateway.GenerateTitle(ctx, firstMessage)
	updated, err := s.repo.SetSystemTitle(ctx, conversationID, userID, currentTitle, title)
	if err != nil {
		log.Warn("title update failed", zap.Error(err))
		return
	}
	if !updated {
		log.Debug("title changed during the turn, keeping it")
	}
}

// GenerateTitleFor titles a conversation from its first user message. It is
// the worker side of TitleQueue. The title is written only while it still
// equals expectedTitle; otherwise ErrAlreadyTitled is returned. A provider
// failure is returned unless final is set, in which case FallbackTitle is
// stored.
func (s *Service) GenerateTitleFor(ctx context.Context, conversationID uint64, userID, expectedTitle string, final bool) (string, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return "", notFound(err)
	}
	if conv.Title != expectedTitle {
		return "", ErrAlreadyTitled
	}
	first, err := s.repo.FirstUserMessage(ctx, conversationID)
	if err != nil {
		return "", notFound(err)
	}

	title, err := s.gateway.Title(ctx, first.Content)
	if err != nil {
		if !final {
			return "", err
		}
		logging.FromContext(ctx).Warn("title generation failed, storing fallback", zap.Error(err))
		title = FallbackTitle
	}

	updated, err := s.repo.SetSystemTitle(ctx, conversationID, userID, expectedTitle, title)
	if err != nil {
		return "", err
	}
	if !updated {
		return "", ErrAlreadyTitled
	}
	return title, nil
}
