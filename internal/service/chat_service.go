package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

// DefaultPreview is shown for rooms with no messages yet
const DefaultPreview = "Say hi"

// MessageNotifier receives messages after they are persisted, for live
// fan-out to connected clients. Implemented by the relay hub.
type MessageNotifier interface {
	Publish(roomID string, message models.Message)
}

// ChatService handles conversation logic between matched pairs
type ChatService struct {
	chatRepo *repository.ChatRepository
	notifier MessageNotifier
}

// NewChatService creates a new chat service. notifier may be nil.
func NewChatService(chatRepo *repository.ChatRepository, notifier MessageNotifier) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		notifier: notifier,
	}
}

// RoomID derives the canonical chat room identifier for a pair of
// participants: both identifiers sorted lexicographically, joined by "_".
// Symmetric: RoomID(a, b) == RoomID(b, a).
func RoomID(participantA, participantB string) string {
	pair := []string{participantA, participantB}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// Send appends a message to the room and updates its preview. A message
// that is empty after trimming is silently dropped: no log entry, no
// preview change, no error.
func (s *ChatService) Send(roomID, senderID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	message, err := s.chatRepo.AppendMessage(roomID, senderID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Publish(roomID, *message)
	}

	return message, nil
}

// Messages returns the room's full ordered history, empty if none exists
func (s *ChatService) Messages(roomID string) ([]models.Message, error) {
	messages, err := s.chatRepo.GetMessages(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// Preview returns the room's last message text, or the default placeholder
func (s *ChatService) Preview(roomID string) (string, error) {
	preview, err := s.chatRepo.GetPreview(roomID)
	if err != nil {
		return "", fmt.Errorf("failed to load preview: %w", err)
	}
	if preview == "" {
		return DefaultPreview, nil
	}
	return preview, nil
}

// ParseLegacyRecord decodes the old "sender:text" chat record encoding,
// splitting on the first colon. A record without a colon is treated as
// body text with no identifiable sender. Only backup import of old
// exports still produces records in this form.
func ParseLegacyRecord(record string) (sender, text string) {
	if idx := strings.Index(record, ":"); idx >= 0 {
		return record[:idx], record[idx+1:]
	}
	return "", record
}
