package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Rupmejs/CareRemote-sub000/internal/imagestore"
	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
	"github.com/Rupmejs/CareRemote-sub000/internal/validation"
)

const maxImageUploadBytes = 5 << 20

// ProfileHandler handles profile reads, updates and photo storage
type ProfileHandler struct {
	profileService *service.ProfileService
	images         *imagestore.Store
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, images *imagestore.Store) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		images:         images,
	}
}

type profileRequest struct {
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Description string   `json:"description"`
	ImageRefs   []string `json:"image_refs"`
}

type profileResponse struct {
	UserType    string   `json:"user_type"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Description string   `json:"description"`
	ImageRefs   []string `json:"image_refs"`
	Complete    bool     `json:"complete"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	refs := p.ImageRefs
	if refs == nil {
		refs = []string{}
	}
	return profileResponse{
		UserType:    string(p.UserType),
		Email:       p.Email,
		Name:        p.Name,
		Age:         p.Age,
		Description: p.Description,
		ImageRefs:   refs,
		Complete:    p.IsComplete(),
	}
}

// GetProfile handles GET /profile, returning the caller's own profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	profile, err := h.profileService.Load(account.UserType, account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile", "", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusNotFound, "Profile not found", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile handles PUT /profile. Incomplete profiles are accepted;
// completeness only gates the match browser.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if req.Name != "" {
		if err := validation.ValidateName(req.Name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
	}
	if req.Age != 0 {
		if err := validation.ValidateAge(req.Age); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
	}

	profile := &models.Profile{
		UserType:    account.UserType,
		Email:       account.Email,
		Name:        req.Name,
		Age:         req.Age,
		Description: req.Description,
		ImageRefs:   req.ImageRefs,
	}
	if err := h.profileService.Save(profile); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile", "", err)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// SearchProfile handles GET /profiles/search?email=..., looking a profile
// up across user types when the caller only knows the address.
func (h *ProfileHandler) SearchProfile(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondWithError(w, http.StatusBadRequest, "email query parameter is required", "", nil)
		return
	}

	profile, err := h.profileService.FindByEmail(email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to search profiles", "", err)
		return
	}
	if profile == nil {
		respondWithError(w, http.StatusNotFound, "Profile not found", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, toProfileResponse(profile))
}

// UploadImage handles POST /profile/images: stores the uploaded photo and
// appends its reference to the caller's profile.
func (h *ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required", "", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to read image", "", err)
		return
	}

	ref, err := h.images.Save(data)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to store image", "", err)
		return
	}

	profile, err := h.profileService.Load(account.UserType, account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile", "", err)
		return
	}
	if profile == nil {
		profile = &models.Profile{UserType: account.UserType, Email: account.Email}
	}
	profile.ImageRefs = append(profile.ImageRefs, ref)

	if err := h.profileService.Save(profile); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save profile", "", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

// GetImage handles GET /profile/images/{ref}
func (h *ProfileHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	data, err := h.images.Load(ref)
	if errors.Is(err, imagestore.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Image not found", "", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load image", "", err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
