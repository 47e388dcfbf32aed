package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/relay"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
)

// ChatHandler handles chat history, sending and the live relay socket
type ChatHandler struct {
	chatService  *service.ChatService
	matchService *service.MatchService
	hub          *relay.Hub
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, matchService *service.MatchService, hub *relay.Hub) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		matchService: matchService,
		hub:          hub,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	ID        int64  `json:"id"`
	RoomID    string `json:"room_id"`
	Sender    string `json:"sender"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

func toMessageResponse(m models.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Sender:    m.Sender,
		Body:      m.Body,
		CreatedAt: m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// requireRoomAccess resolves the room from the path and checks the caller
// belongs to it. Writes the error response itself on failure.
func (h *ChatHandler) requireRoomAccess(w http.ResponseWriter, r *http.Request) (string, bool) {
	roomID := r.PathValue("roomId")
	account := GetAccountFromContext(r.Context())

	member, err := h.matchService.IsParticipant(roomID, account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to check room access", "", err)
		return "", false
	}
	if !member {
		respondWithError(w, http.StatusForbidden, "Not a participant of this room", "", nil)
		return "", false
	}

	return roomID, true
}

// GetMessages handles GET /chat/{roomId}/messages
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.requireRoomAccess(w, r)
	if !ok {
		return
	}

	messages, err := h.chatService.Messages(roomID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load messages", "", err)
		return
	}

	responses := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, toMessageResponse(m))
	}
	respondJSON(w, http.StatusOK, responses)
}

// SendMessage handles POST /chat/{roomId}/messages. A whitespace-only
// message is accepted and dropped without creating anything.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.requireRoomAccess(w, r)
	if !ok {
		return
	}
	account := GetAccountFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	message, err := h.chatService.Send(roomID, account.Email, req.Text)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to send message", "", err)
		return
	}
	if message == nil {
		respondJSON(w, http.StatusNoContent, nil)
		return
	}

	respondJSON(w, http.StatusCreated, toMessageResponse(*message))
}

// GetPreview handles GET /chat/{roomId}/preview
func (h *ChatHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.requireRoomAccess(w, r)
	if !ok {
		return
	}

	preview, err := h.chatService.Preview(roomID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load preview", "", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"room_id": roomID,
		"preview": preview,
	})
}

// Subscribe handles GET /ws/chat/{roomId}, upgrading to a websocket that
// receives each message persisted to the room.
func (h *ChatHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.requireRoomAccess(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		return
	}

	client := relay.NewClient(h.hub, conn, roomID)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}
