package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/service"
)

// DashboardHandler handles widget management and the row layout endpoint
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

type toggleWidgetRequest struct {
	Type string `json:"type"`
}

type updateWidgetRequest struct {
	Data models.WidgetData `json:"data"`
}

type widgetResponse struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Size     string            `json:"size"`
	Position int               `json:"position"`
	Data     models.WidgetData `json:"data"`
}

type layoutRowResponse struct {
	Widgets   []widgetResponse `json:"widgets"`
	EmptySlot bool             `json:"empty_slot"`
}

type addLegacyWidgetRequest struct {
	Label string `json:"label"`
}

type legacyWidgetResponse struct {
	ID       int64  `json:"id"`
	Label    string `json:"label"`
	Position int    `json:"position"`
}

func toWidgetResponse(w models.Widget) widgetResponse {
	return widgetResponse{
		ID:       w.ID,
		Type:     string(w.Type),
		Size:     string(w.Size),
		Position: w.Position,
		Data:     w.Data,
	}
}

// GetWidgets handles GET /dashboard/widgets
func (h *DashboardHandler) GetWidgets(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	widgets, err := h.dashboardService.Widgets(account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load widgets", "", err)
		return
	}

	responses := make([]widgetResponse, 0, len(widgets))
	for _, widget := range widgets {
		responses = append(responses, toWidgetResponse(widget))
	}
	respondJSON(w, http.StatusOK, responses)
}

// ToggleWidget handles POST /dashboard/widgets: adds the widget type, or
// removes it when it is already on the dashboard.
func (h *DashboardHandler) ToggleWidget(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req toggleWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	widget, err := h.dashboardService.ToggleWidget(account.Email, models.WidgetType(req.Type))
	if err != nil {
		if errors.Is(err, service.ErrInvalidWidgetType) {
			respondWithError(w, http.StatusBadRequest, "Unknown widget type", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to toggle widget", "", err)
		return
	}

	if widget == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
		return
	}
	respondJSON(w, http.StatusCreated, toWidgetResponse(*widget))
}

// UpdateWidget handles PUT /dashboard/widgets/{id}
func (h *DashboardHandler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	widgetID := r.PathValue("id")

	var req updateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	if err := h.dashboardService.UpdateWidgetData(account.Email, widgetID, req.Data); err != nil {
		if errors.Is(err, service.ErrWidgetNotFound) {
			respondWithError(w, http.StatusNotFound, "Widget not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update widget", "", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteWidget handles DELETE /dashboard/widgets/{id}
func (h *DashboardHandler) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	widgetID := r.PathValue("id")

	if err := h.dashboardService.RemoveWidget(account.Email, widgetID); err != nil {
		if errors.Is(err, service.ErrWidgetNotFound) {
			respondWithError(w, http.StatusNotFound, "Widget not found", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete widget", "", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetLayout handles GET /dashboard/layout, returning the widgets packed
// into rendered rows.
func (h *DashboardHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	widgets, err := h.dashboardService.Widgets(account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load widgets", "", err)
		return
	}

	rows := service.Layout(widgets)
	responses := make([]layoutRowResponse, 0, len(rows))
	for _, row := range rows {
		rowWidgets := make([]widgetResponse, 0, len(row.Widgets))
		for _, widget := range row.Widgets {
			rowWidgets = append(rowWidgets, toWidgetResponse(widget))
		}
		responses = append(responses, layoutRowResponse{
			Widgets:   rowWidgets,
			EmptySlot: row.EmptySlot,
		})
	}

	respondJSON(w, http.StatusOK, responses)
}

// GetLegacyWidgets handles GET /legacy/widgets
func (h *DashboardHandler) GetLegacyWidgets(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.dashboardService.LegacyWidgets()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load legacy widgets", "", err)
		return
	}

	responses := make([]legacyWidgetResponse, 0, len(widgets))
	for _, widget := range widgets {
		responses = append(responses, legacyWidgetResponse{
			ID:       widget.ID,
			Label:    widget.Label,
			Position: widget.Position,
		})
	}
	respondJSON(w, http.StatusOK, responses)
}

// AddLegacyWidget handles POST /legacy/widgets
func (h *DashboardHandler) AddLegacyWidget(w http.ResponseWriter, r *http.Request) {
	var req addLegacyWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}
	if req.Label == "" {
		respondWithError(w, http.StatusBadRequest, "label is required", "", nil)
		return
	}

	widget, err := h.dashboardService.AddLegacyWidget(req.Label)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to add legacy widget", "", err)
		return
	}

	respondJSON(w, http.StatusCreated, legacyWidgetResponse{
		ID:       widget.ID,
		Label:    widget.Label,
		Position: widget.Position,
	})
}

// DeleteLegacyWidget handles DELETE /legacy/widgets/{id}
func (h *DashboardHandler) DeleteLegacyWidget(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid widget id", "", nil)
		return
	}

	if err := h.dashboardService.RemoveLegacyWidget(id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete legacy widget", "", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
