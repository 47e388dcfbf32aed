package service

import (
	"testing"

	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

func TestRoomID(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected string
	}{
		{
			name:     "already ordered",
			a:        "alice@x.com",
			b:        "bob@x.com",
			expected: "alice@x.com_bob@x.com",
		},
		{
			name:     "reversed input gives same room",
			a:        "bob@x.com",
			b:        "alice@x.com",
			expected: "alice@x.com_bob@x.com",
		},
		{
			name:     "same participant twice",
			a:        "alice@x.com",
			b:        "alice@x.com",
			expected: "alice@x.com_alice@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoomID(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("RoomID(%q, %q) = %q, want %q", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestRoomIDSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"a@x.com", "b@x.com"},
		{"nanny@care.lv", "parent@care.lv"},
		{"z@x.com", "a@x.com"},
	}

	for _, pair := range pairs {
		if RoomID(pair[0], pair[1]) != RoomID(pair[1], pair[0]) {
			t.Errorf("RoomID not symmetric for %q and %q", pair[0], pair[1])
		}
	}
}

func TestParseLegacyRecord(t *testing.T) {
	tests := []struct {
		name       string
		record     string
		wantSender string
		wantText   string
	}{
		{
			name:       "simple record",
			record:     "alice:hi",
			wantSender: "alice",
			wantText:   "hi",
		},
		{
			name:       "text contains colons",
			record:     "alice:see you at 10:30",
			wantSender: "alice",
			wantText:   "see you at 10:30",
		},
		{
			name:       "no colon",
			record:     "just some text",
			wantSender: "",
			wantText:   "just some text",
		},
		{
			name:       "empty sender",
			record:     ":hello",
			wantSender: "",
			wantText:   "hello",
		},
		{
			name:       "empty record",
			record:     "",
			wantSender: "",
			wantText:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, text := ParseLegacyRecord(tt.record)
			if sender != tt.wantSender || text != tt.wantText {
				t.Errorf("ParseLegacyRecord(%q) = (%q, %q), want (%q, %q)",
					tt.record, sender, text, tt.wantSender, tt.wantText)
			}
		})
	}
}

func TestChatServiceSendAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	chatService := NewChatService(repository.NewChatRepository(db), nil)

	roomID := RoomID("alice@x.com", "bob@x.com")

	// Empty room: no history, default preview
	messages, err := chatService.Messages(roomID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(messages))
	}

	preview, err := chatService.Preview(roomID)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview != DefaultPreview {
		t.Errorf("Preview() = %q, want %q", preview, DefaultPreview)
	}

	// Send two messages
	if _, err := chatService.Send(roomID, "alice@x.com", "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err := chatService.Send(roomID, "bob@x.com", "hi alice"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	messages, err = chatService.Messages(roomID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != "alice@x.com" || messages[0].Body != "hello" {
		t.Errorf("first message = %q from %q", messages[0].Body, messages[0].Sender)
	}
	if messages[1].Sender != "bob@x.com" || messages[1].Body != "hi alice" {
		t.Errorf("second message = %q from %q", messages[1].Body, messages[1].Sender)
	}

	// Preview reflects the last message
	preview, err = chatService.Preview(roomID)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview != "hi alice" {
		t.Errorf("Preview() = %q, want %q", preview, "hi alice")
	}
}

func TestChatServiceEmptySendIsNoOp(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	chatService := NewChatService(repository.NewChatRepository(db), nil)

	roomID := RoomID("alice@x.com", "bob@x.com")

	for _, text := range []string{"", "   ", "\t\n"} {
		message, err := chatService.Send(roomID, "alice@x.com", text)
		if err != nil {
			t.Fatalf("Send(%q) error = %v", text, err)
		}
		if message != nil {
			t.Errorf("Send(%q) returned a message, want nil", text)
		}
	}

	messages, err := chatService.Messages(roomID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages after empty sends, got %d", len(messages))
	}

	preview, err := chatService.Preview(roomID)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if preview != DefaultPreview {
		t.Errorf("Preview() = %q after empty sends, want %q", preview, DefaultPreview)
	}
}
