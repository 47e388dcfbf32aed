package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
)

// MatchHandler handles the swipe browser and match listing
type MatchHandler struct {
	matchService *service.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

type swipeRequest struct {
	Email string `json:"email"`
	Liked bool   `json:"liked"`
}

type swipeResponse struct {
	Matched bool   `json:"matched"`
	RoomID  string `json:"room_id,omitempty"`
}

type matchResponse struct {
	RoomID      string `json:"room_id"`
	ParentEmail string `json:"parent_email"`
	NannyEmail  string `json:"nanny_email"`
	Preview     string `json:"preview"`
}

// Candidates handles GET /matches/candidates
func (h *MatchHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	candidates, err := h.matchService.Candidates(account)
	if err != nil {
		if errors.Is(err, service.ErrProfileIncomplete) {
			respondWithError(w, http.StatusConflict, "Complete your profile before browsing", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to load candidates", "", err)
		return
	}

	responses := make([]profileResponse, 0, len(candidates))
	for i := range candidates {
		responses = append(responses, toProfileResponse(&candidates[i]))
	}
	respondJSON(w, http.StatusOK, responses)
}

// Swipe handles POST /matches/swipe
func (h *MatchHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Email == "" {
		respondWithError(w, http.StatusBadRequest, "email is required", "", nil)
		return
	}

	match, err := h.matchService.Swipe(r.Context(), account, req.Email, req.Liked)
	if err != nil {
		if errors.Is(err, service.ErrCandidateNotFound) {
			respondWithError(w, http.StatusNotFound, "Candidate not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to record swipe", "", err)
		return
	}

	resp := swipeResponse{}
	if match != nil {
		resp.Matched = true
		resp.RoomID = match.RoomID
	}
	respondJSON(w, http.StatusOK, resp)
}

// Matches handles GET /matches
func (h *MatchHandler) Matches(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	matches, err := h.matchService.Matches(account)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load matches", "", err)
		return
	}

	responses := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		responses = append(responses, toMatchResponse(m))
	}
	respondJSON(w, http.StatusOK, responses)
}

func toMatchResponse(m models.MatchWithPreview) matchResponse {
	return matchResponse{
		RoomID:      m.RoomID,
		ParentEmail: m.ParentEmail,
		NannyEmail:  m.NannyEmail,
		Preview:     m.Preview,
	}
}
