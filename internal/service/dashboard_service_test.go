package service

import (
	"testing"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

func sized(sizes ...models.WidgetSize) []models.Widget {
	widgets := make([]models.Widget, len(sizes))
	for i, size := range sizes {
		widgets[i] = models.Widget{ID: string(rune('a' + i)), Size: size, Position: i}
	}
	return widgets
}

func TestLayout(t *testing.T) {
	small := models.WidgetSizeSmall
	large := models.WidgetSizeLarge

	tests := []struct {
		name      string
		sizes     []models.WidgetSize
		wantRows  [][]int // widget counts per row
		wantEmpty []bool  // empty-slot flag per row
	}{
		{
			name:      "empty dashboard",
			sizes:     nil,
			wantRows:  [][]int{},
			wantEmpty: []bool{},
		},
		{
			name:      "single small widget gets empty slot",
			sizes:     []models.WidgetSize{small},
			wantRows:  [][]int{{1}},
			wantEmpty: []bool{true},
		},
		{
			name:      "single large widget fills its row",
			sizes:     []models.WidgetSize{large},
			wantRows:  [][]int{{1}},
			wantEmpty: []bool{false},
		},
		{
			name:      "two smalls pair up",
			sizes:     []models.WidgetSize{small, small},
			wantRows:  [][]int{{2}},
			wantEmpty: []bool{false},
		},
		{
			name:      "small small large small",
			sizes:     []models.WidgetSize{small, small, large, small},
			wantRows:  [][]int{{2}, {1}, {1}},
			wantEmpty: []bool{false, false, true},
		},
		{
			name:      "pairing never crosses a large widget",
			sizes:     []models.WidgetSize{small, large, small},
			wantRows:  [][]int{{1}, {1}, {1}},
			wantEmpty: []bool{true, false, true},
		},
		{
			name:      "two larges stack",
			sizes:     []models.WidgetSize{large, large},
			wantRows:  [][]int{{1}, {1}},
			wantEmpty: []bool{false, false},
		},
		{
			name:      "odd run of smalls leaves last alone",
			sizes:     []models.WidgetSize{small, small, small},
			wantRows:  [][]int{{2}, {1}},
			wantEmpty: []bool{false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Layout(sized(tt.sizes...))

			if len(rows) != len(tt.wantRows) {
				t.Fatalf("got %d rows, want %d", len(rows), len(tt.wantRows))
			}
			for i, row := range rows {
				if len(row.Widgets) != tt.wantRows[i][0] {
					t.Errorf("row %d: got %d widgets, want %d", i, len(row.Widgets), tt.wantRows[i][0])
				}
				if row.EmptySlot != tt.wantEmpty[i] {
					t.Errorf("row %d: EmptySlot = %v, want %v", i, row.EmptySlot, tt.wantEmpty[i])
				}
			}
		})
	}
}

func TestLayoutPlacesEveryWidgetOnceInOrder(t *testing.T) {
	small := models.WidgetSizeSmall
	large := models.WidgetSizeLarge
	widgets := sized(small, large, small, small, large, small, small, small)

	rows := Layout(widgets)

	var flattened []models.Widget
	for _, row := range rows {
		flattened = append(flattened, row.Widgets...)
	}

	if len(flattened) != len(widgets) {
		t.Fatalf("layout placed %d widgets, want %d", len(flattened), len(widgets))
	}
	for i, w := range flattened {
		if w.ID != widgets[i].ID {
			t.Errorf("position %d: got widget %s, want %s", i, w.ID, widgets[i].ID)
		}
	}
}

func TestToggleWidget(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	dashboardService := NewDashboardService(repository.NewWidgetRepository(db))
	owner := "parent@x.com"

	// Adding creates a widget with the type's default size
	widget, err := dashboardService.ToggleWidget(owner, models.WidgetSchedule)
	if err != nil {
		t.Fatalf("ToggleWidget() error = %v", err)
	}
	if widget == nil {
		t.Fatal("ToggleWidget() returned nil on add")
	}
	if widget.Size != models.WidgetSizeLarge {
		t.Errorf("schedule widget size = %v, want large", widget.Size)
	}
	if widget.Position != 0 {
		t.Errorf("first widget position = %d, want 0", widget.Position)
	}

	// A second type appends after the first
	reminders, err := dashboardService.ToggleWidget(owner, models.WidgetReminders)
	if err != nil {
		t.Fatalf("ToggleWidget() error = %v", err)
	}
	if reminders.Position != 1 {
		t.Errorf("second widget position = %d, want 1", reminders.Position)
	}
	if reminders.Size != models.WidgetSizeSmall {
		t.Errorf("reminders widget size = %v, want small", reminders.Size)
	}

	// Toggling an existing type removes it
	removed, err := dashboardService.ToggleWidget(owner, models.WidgetSchedule)
	if err != nil {
		t.Fatalf("ToggleWidget() error = %v", err)
	}
	if removed != nil {
		t.Error("ToggleWidget() on existing type should return nil")
	}

	widgets, err := dashboardService.Widgets(owner)
	if err != nil {
		t.Fatalf("Widgets() error = %v", err)
	}
	if len(widgets) != 1 || widgets[0].Type != models.WidgetReminders {
		t.Errorf("expected only the reminders widget to remain, got %d widgets", len(widgets))
	}

	// Unknown type is rejected
	if _, err := dashboardService.ToggleWidget(owner, "bogus"); err != ErrInvalidWidgetType {
		t.Errorf("ToggleWidget(bogus) error = %v, want ErrInvalidWidgetType", err)
	}
}

func TestWidgetDataRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	dashboardService := NewDashboardService(repository.NewWidgetRepository(db))
	owner := "parent@x.com"

	widget, err := dashboardService.ToggleWidget(owner, models.WidgetReminders)
	if err != nil {
		t.Fatalf("ToggleWidget() error = %v", err)
	}

	data := models.WidgetData{Reminders: []string{"pick up milk", "call school"}}
	if err := dashboardService.UpdateWidgetData(owner, widget.ID, data); err != nil {
		t.Fatalf("UpdateWidgetData() error = %v", err)
	}

	widgets, err := dashboardService.Widgets(owner)
	if err != nil {
		t.Fatalf("Widgets() error = %v", err)
	}
	if len(widgets) != 1 {
		t.Fatalf("expected 1 widget, got %d", len(widgets))
	}
	if len(widgets[0].Data.Reminders) != 2 || widgets[0].Data.Reminders[0] != "pick up milk" {
		t.Errorf("reminders payload not preserved: %+v", widgets[0].Data)
	}

	// Another owner's widget is invisible
	if err := dashboardService.UpdateWidgetData("other@x.com", widget.ID, data); err != ErrWidgetNotFound {
		t.Errorf("cross-owner update error = %v, want ErrWidgetNotFound", err)
	}
}

func TestLegacyWidgets(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	dashboardService := NewDashboardService(repository.NewWidgetRepository(db))

	first, err := dashboardService.AddLegacyWidget("extra 1")
	if err != nil {
		t.Fatalf("AddLegacyWidget() error = %v", err)
	}
	second, err := dashboardService.AddLegacyWidget("extra 2")
	if err != nil {
		t.Fatalf("AddLegacyWidget() error = %v", err)
	}
	if second.Position != first.Position+1 {
		t.Errorf("legacy positions = %d, %d; want consecutive", first.Position, second.Position)
	}

	if err := dashboardService.RemoveLegacyWidget(first.ID); err != nil {
		t.Fatalf("RemoveLegacyWidget() error = %v", err)
	}

	widgets, err := dashboardService.LegacyWidgets()
	if err != nil {
		t.Fatalf("LegacyWidgets() error = %v", err)
	}
	if len(widgets) != 1 || widgets[0].Label != "extra 2" {
		t.Errorf("expected only 'extra 2' to remain, got %+v", widgets)
	}
}
