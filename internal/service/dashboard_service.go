package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

var (
	ErrInvalidWidgetType = errors.New("unknown widget type")
	ErrWidgetNotFound    = errors.New("widget not found")
)

// WidgetRow is one row of the dashboard: a single large widget, or up to
// two small ones. EmptySlot marks a lone small widget with no partner.
type WidgetRow struct {
	Widgets   []models.Widget
	EmptySlot bool
}

// DashboardService handles widget management and row layout
type DashboardService struct {
	widgetRepo *repository.WidgetRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(widgetRepo *repository.WidgetRepository) *DashboardService {
	return &DashboardService{widgetRepo: widgetRepo}
}

// Widgets returns the account's widgets in dashboard order
func (s *DashboardService) Widgets(ownerEmail string) ([]models.Widget, error) {
	widgets, err := s.widgetRepo.GetWidgets(ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load widgets: %w", err)
	}
	return widgets, nil
}

// ToggleWidget adds a widget of the given type to the end of the dashboard,
// or removes it if one already exists. This mirrors the selector UI, where
// tapping a type toggles its presence. Returns the widget when added, nil
// when removed.
func (s *DashboardService) ToggleWidget(ownerEmail string, widgetType models.WidgetType) (*models.Widget, error) {
	if !widgetType.Valid() {
		return nil, ErrInvalidWidgetType
	}

	existing, err := s.widgetRepo.GetWidgets(ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load widgets: %w", err)
	}
	for _, w := range existing {
		if w.Type == widgetType {
			if err := s.widgetRepo.DeleteWidget(ownerEmail, w.ID); err != nil {
				return nil, fmt.Errorf("failed to remove widget: %w", err)
			}
			return nil, nil
		}
	}

	position, err := s.widgetRepo.NextPosition(ownerEmail)
	if err != nil {
		return nil, err
	}

	widget := &models.Widget{
		ID:         uuid.New().String(),
		OwnerEmail: ownerEmail,
		Type:       widgetType,
		Size:       widgetType.DefaultSize(),
		Position:   position,
	}
	if err := s.widgetRepo.CreateWidget(widget); err != nil {
		return nil, fmt.Errorf("failed to add widget: %w", err)
	}

	return widget, nil
}

// UpdateWidgetData replaces a widget's payload in place
func (s *DashboardService) UpdateWidgetData(ownerEmail, widgetID string, data models.WidgetData) error {
	widget, err := s.widgetRepo.GetWidget(ownerEmail, widgetID)
	if err != nil {
		return fmt.Errorf("failed to load widget: %w", err)
	}
	if widget == nil {
		return ErrWidgetNotFound
	}

	if err := s.widgetRepo.UpdateWidgetData(ownerEmail, widgetID, data); err != nil {
		return fmt.Errorf("failed to update widget: %w", err)
	}
	return nil
}

// RemoveWidget deletes a widget from the dashboard
func (s *DashboardService) RemoveWidget(ownerEmail, widgetID string) error {
	widget, err := s.widgetRepo.GetWidget(ownerEmail, widgetID)
	if err != nil {
		return fmt.Errorf("failed to load widget: %w", err)
	}
	if widget == nil {
		return ErrWidgetNotFound
	}

	if err := s.widgetRepo.DeleteWidget(ownerEmail, widgetID); err != nil {
		return fmt.Errorf("failed to remove widget: %w", err)
	}
	return nil
}

// Layout arranges widgets into rows, scanning left to right. A large
// widget takes a full row. A small widget pairs with the immediately
// following widget when that neighbor is small and unplaced; otherwise it
// sits alone with an empty slot. Every widget lands in exactly one row and
// row order follows widget order; pairing never reaches past a large
// widget.
func Layout(widgets []models.Widget) []WidgetRow {
	rows := []WidgetRow{}
	placed := make([]bool, len(widgets))

	for i, w := range widgets {
		if placed[i] {
			continue
		}

		if w.Size == models.WidgetSizeLarge {
			rows = append(rows, WidgetRow{Widgets: []models.Widget{w}})
			placed[i] = true
			continue
		}

		if i+1 < len(widgets) && !placed[i+1] && widgets[i+1].Size == models.WidgetSizeSmall {
			rows = append(rows, WidgetRow{Widgets: []models.Widget{w, widgets[i+1]}})
			placed[i] = true
			placed[i+1] = true
			continue
		}

		rows = append(rows, WidgetRow{Widgets: []models.Widget{w}, EmptySlot: true})
		placed[i] = true
	}

	return rows
}

// LegacyWidgets returns the pre-login device-wide widget list
func (s *DashboardService) LegacyWidgets() ([]models.LegacyWidget, error) {
	widgets, err := s.widgetRepo.GetLegacyWidgets()
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy widgets: %w", err)
	}
	return widgets, nil
}

// AddLegacyWidget appends an untyped widget to the pre-login list
func (s *DashboardService) AddLegacyWidget(label string) (*models.LegacyWidget, error) {
	position, err := s.widgetRepo.NextLegacyPosition()
	if err != nil {
		return nil, err
	}

	widget, err := s.widgetRepo.CreateLegacyWidget(label, position)
	if err != nil {
		return nil, fmt.Errorf("failed to add legacy widget: %w", err)
	}
	return widget, nil
}

// RemoveLegacyWidget deletes a legacy widget by ID
func (s *DashboardService) RemoveLegacyWidget(id int64) error {
	if err := s.widgetRepo.DeleteLegacyWidget(id); err != nil {
		return fmt.Errorf("failed to remove legacy widget: %w", err)
	}
	return nil
}
