package models

import "time"

// WidgetType identifies a dashboard panel variant.
type WidgetType string

const (
	WidgetReminders         WidgetType = "reminders"
	WidgetSchedule          WidgetType = "schedule"
	WidgetChildLog          WidgetType = "childLog"
	WidgetWeather           WidgetType = "weather"
	WidgetNotes             WidgetType = "notes"
	WidgetEmergencyContacts WidgetType = "emergencyContacts"
)

// Valid reports whether the widget type is known.
func (t WidgetType) Valid() bool {
	switch t {
	case WidgetReminders, WidgetSchedule, WidgetChildLog,
		WidgetWeather, WidgetNotes, WidgetEmergencyContacts:
		return true
	}
	return false
}

// WidgetSize affects row layout: large widgets take a full row, small
// widgets share a row in pairs.
type WidgetSize string

const (
	WidgetSizeSmall WidgetSize = "small"
	WidgetSizeLarge WidgetSize = "large"
)

// DefaultSize returns the layout size a widget type is created with.
func (t WidgetType) DefaultSize() WidgetSize {
	switch t {
	case WidgetSchedule, WidgetChildLog, WidgetNotes:
		return WidgetSizeLarge
	default:
		return WidgetSizeSmall
	}
}

// Widget is a self-contained dashboard panel owned by one account.
type Widget struct {
	ID         string
	OwnerEmail string
	Type       WidgetType
	Size       WidgetSize
	Position   int
	Data       WidgetData
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WidgetData carries the type-specific payload. Only the field matching the
// widget's Type is meaningful; the rest stay zero and are omitted at rest.
type WidgetData struct {
	Reminders         []string           `json:"reminders,omitempty"`
	Schedule          []ScheduleEntry    `json:"schedule,omitempty"`
	ChildLog          []ChildLogEntry    `json:"child_log,omitempty"`
	Weather           *WeatherData       `json:"weather,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts,omitempty"`
}

// ScheduleEntry is one planned slot in the schedule widget
type ScheduleEntry struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// ChildLogEntry is one entry in the child activity log widget
type ChildLogEntry struct {
	LoggedAt time.Time `json:"logged_at"`
	Note     string    `json:"note"`
}

// WeatherData configures the weather widget
type WeatherData struct {
	Location string `json:"location"`
}

// EmergencyContact is one entry in the emergency contacts widget
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// LegacyWidget is the pre-login, untyped widget kept for backward
// compatibility with stores written before accounts existed.
type LegacyWidget struct {
	ID        int64
	Label     string
	Position  int
	CreatedAt time.Time
}
