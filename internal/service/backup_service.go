package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Rupmejs/CareRemote-sub000/internal/database"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exported_at"`
	DatabaseType  string               `json:"database_type"`
	Accounts      []AccountBackup      `json:"accounts"`
	Profiles      []ProfileBackup      `json:"profiles"`
	Messages      []MessageBackup      `json:"messages"`
	LegacyRecords []LegacyRecordBackup `json:"legacy_records,omitempty"`
	Previews      []PreviewBackup      `json:"previews"`
	Swipes        []SwipeBackup        `json:"swipes"`
	Matches       []MatchBackup        `json:"matches"`
	Widgets       []WidgetBackup       `json:"widgets"`
	LegacyWidgets []LegacyWidgetBackup `json:"legacy_widgets"`
}

// AccountBackup represents an account record for backup
type AccountBackup struct {
	ID            int64     `json:"id"`
	UserType      string    `json:"user_type"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProfileBackup represents a profile record for backup
type ProfileBackup struct {
	UserType    string    `json:"user_type"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Description string    `json:"description"`
	ImageRefs   string    `json:"image_refs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageBackup represents a chat message record for backup
type MessageBackup struct {
	RoomID    string    `json:"room_id"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// LegacyRecordBackup carries a message in the old "sender:text" string
// encoding. Present only in backups produced by pre-migration installs;
// import decodes them into structured message rows.
type LegacyRecordBackup struct {
	RoomID string `json:"room_id"`
	Record string `json:"record"`
}

// PreviewBackup represents a room preview record for backup
type PreviewBackup struct {
	RoomID string `json:"room_id"`
	Body   string `json:"body"`
}

// SwipeBackup represents a swipe record for backup
type SwipeBackup struct {
	FromEmail string    `json:"from_email"`
	ToEmail   string    `json:"to_email"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
}

// MatchBackup represents a mutual-match record for backup
type MatchBackup struct {
	RoomID      string    `json:"room_id"`
	ParentEmail string    `json:"parent_email"`
	NannyEmail  string    `json:"nanny_email"`
	CreatedAt   time.Time `json:"created_at"`
}

// WidgetBackup represents a dashboard widget record for backup
type WidgetBackup struct {
	ID         string    `json:"id"`
	OwnerEmail string    `json:"owner_email"`
	Type       string    `json:"type"`
	Size       string    `json:"size"`
	Position   int       `json:"position"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"created_at"`
}

// LegacyWidgetBackup represents a pre-login widget record for backup
type LegacyWidgetBackup struct {
	Label     string    `json:"label"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations. Export
// reads through the repositories; import writes raw rows because repository
// create methods cannot preserve the original timestamps.
type BackupService struct {
	db          *database.DB
	accountRepo *repository.AccountRepository
	profileRepo *repository.ProfileRepository
	chatRepo    *repository.ChatRepository
	matchRepo   *repository.MatchRepository
	widgetRepo  *repository.WidgetRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:          db,
		accountRepo: repository.NewAccountRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		chatRepo:    repository.NewChatRepository(db),
		matchRepo:   repository.NewMatchRepository(db),
		widgetRepo:  repository.NewWidgetRepository(db),
	}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportAccounts(backup); err != nil {
		return fmt.Errorf("failed to export accounts: %w", err)
	}
	if err := s.exportProfiles(backup); err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}
	if err := s.exportMessages(backup); err != nil {
		return fmt.Errorf("failed to export messages: %w", err)
	}
	if err := s.exportPreviews(backup); err != nil {
		return fmt.Errorf("failed to export previews: %w", err)
	}
	if err := s.exportSwipes(backup); err != nil {
		return fmt.Errorf("failed to export swipes: %w", err)
	}
	if err := s.exportMatches(backup); err != nil {
		return fmt.Errorf("failed to export matches: %w", err)
	}
	if err := s.exportWidgets(backup); err != nil {
		return fmt.Errorf("failed to export widgets: %w", err)
	}
	if err := s.exportLegacyWidgets(backup); err != nil {
		return fmt.Errorf("failed to export legacy widgets: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d accounts, %d profiles, %d messages, %d previews, %d swipes, %d matches, %d widgets, %d legacy widgets",
		len(backup.Accounts), len(backup.Profiles), len(backup.Messages), len(backup.Previews),
		len(backup.Swipes), len(backup.Matches), len(backup.Widgets), len(backup.LegacyWidgets))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	if err := s.importAccounts(backup.Accounts); err != nil {
		return fmt.Errorf("failed to import accounts: %w", err)
	}
	if err := s.importProfiles(backup.Profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}
	if err := s.importMessages(backup.Messages); err != nil {
		return fmt.Errorf("failed to import messages: %w", err)
	}
	if err := s.importLegacyRecords(backup.LegacyRecords); err != nil {
		return fmt.Errorf("failed to import legacy records: %w", err)
	}
	if err := s.importPreviews(backup.Previews); err != nil {
		return fmt.Errorf("failed to import previews: %w", err)
	}
	if err := s.importSwipes(backup.Swipes); err != nil {
		return fmt.Errorf("failed to import swipes: %w", err)
	}
	if err := s.importMatches(backup.Matches); err != nil {
		return fmt.Errorf("failed to import matches: %w", err)
	}
	if err := s.importWidgets(backup.Widgets); err != nil {
		return fmt.Errorf("failed to import widgets: %w", err)
	}
	if err := s.importLegacyWidgets(backup.LegacyWidgets); err != nil {
		return fmt.Errorf("failed to import legacy widgets: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportAccounts(backup *BackupData) error {
	accounts, err := s.accountRepo.GetAllAccounts()
	if err != nil {
		return err
	}
	for _, a := range accounts {
		backup.Accounts = append(backup.Accounts, AccountBackup{
			ID:            a.ID,
			UserType:      string(a.UserType),
			Username:      a.Username,
			Email:         a.Email,
			PasswordHash:  a.PasswordHash,
			OAuthProvider: a.OAuthProvider,
			OAuthSubject:  a.OAuthSubject,
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportProfiles(backup *BackupData) error {
	profiles, err := s.profileRepo.GetAllProfiles()
	if err != nil {
		return err
	}
	for _, p := range profiles {
		refs := "[]"
		if len(p.ImageRefs) > 0 {
			encoded, err := json.Marshal(p.ImageRefs)
			if err != nil {
				return fmt.Errorf("failed to encode image refs for %s: %w", p.Email, err)
			}
			refs = string(encoded)
		}
		backup.Profiles = append(backup.Profiles, ProfileBackup{
			UserType:    string(p.UserType),
			Email:       p.Email,
			Name:        p.Name,
			Age:         p.Age,
			Description: p.Description,
			ImageRefs:   refs,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportMessages(backup *BackupData) error {
	messages, err := s.chatRepo.GetAllMessages()
	if err != nil {
		return err
	}
	for _, m := range messages {
		backup.Messages = append(backup.Messages, MessageBackup{
			RoomID:    m.RoomID,
			Sender:    m.Sender,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportPreviews(backup *BackupData) error {
	previews, err := s.chatRepo.GetAllPreviews()
	if err != nil {
		return err
	}
	for _, p := range previews {
		backup.Previews = append(backup.Previews, PreviewBackup{
			RoomID: p.RoomID,
			Body:   p.Body,
		})
	}
	return nil
}

func (s *BackupService) exportSwipes(backup *BackupData) error {
	swipes, err := s.matchRepo.GetAllSwipes()
	if err != nil {
		return err
	}
	for _, sw := range swipes {
		backup.Swipes = append(backup.Swipes, SwipeBackup{
			FromEmail: sw.FromEmail,
			ToEmail:   sw.ToEmail,
			Liked:     sw.Liked,
			CreatedAt: sw.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportMatches(backup *BackupData) error {
	matches, err := s.matchRepo.GetAllMatches()
	if err != nil {
		return err
	}
	for _, m := range matches {
		backup.Matches = append(backup.Matches, MatchBackup{
			RoomID:      m.RoomID,
			ParentEmail: m.ParentEmail,
			NannyEmail:  m.NannyEmail,
			CreatedAt:   m.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportWidgets(backup *BackupData) error {
	widgets, err := s.widgetRepo.GetAllWidgets()
	if err != nil {
		return err
	}
	for _, w := range widgets {
		data, err := json.Marshal(w.Data)
		if err != nil {
			return fmt.Errorf("failed to encode data for widget %s: %w", w.ID, err)
		}
		backup.Widgets = append(backup.Widgets, WidgetBackup{
			ID:         w.ID,
			OwnerEmail: w.OwnerEmail,
			Type:       string(w.Type),
			Size:       string(w.Size),
			Position:   w.Position,
			Data:       string(data),
			CreatedAt:  w.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) exportLegacyWidgets(backup *BackupData) error {
	widgets, err := s.widgetRepo.GetLegacyWidgets()
	if err != nil {
		return err
	}
	for _, w := range widgets {
		backup.LegacyWidgets = append(backup.LegacyWidgets, LegacyWidgetBackup{
			Label:     w.Label,
			Position:  w.Position,
			CreatedAt: w.CreatedAt,
		})
	}
	return nil
}

func (s *BackupService) importAccounts(accounts []AccountBackup) error {
	log.Printf("Importing %d accounts...", len(accounts))
	for _, a := range accounts {
		query := "INSERT INTO accounts (user_type, username, email, password_hash, oauth_provider, oauth_subject, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, a.UserType, a.Username, a.Email, a.PasswordHash, nullIfEmpty(a.OAuthProvider), nullIfEmpty(a.OAuthSubject), a.CreatedAt, a.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import account %d: %w", a.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importProfiles(profiles []ProfileBackup) error {
	log.Printf("Importing %d profiles...", len(profiles))
	for _, p := range profiles {
		imageRefs := p.ImageRefs
		if imageRefs == "" {
			imageRefs = "[]"
		}
		query := "INSERT INTO profiles (user_type, email, name, age, description, image_refs, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
		_, err := s.db.Exec(query, p.UserType, p.Email, p.Name, p.Age, p.Description, imageRefs, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import profile %s/%s: %w", p.UserType, p.Email, err)
		}
	}
	return nil
}

func (s *BackupService) importMessages(messages []MessageBackup) error {
	log.Printf("Importing %d messages...", len(messages))
	for _, m := range messages {
		query := "INSERT INTO messages (room_id, sender, body, created_at) VALUES (?, ?, ?, ?)"
		if _, err := s.db.Exec(query, m.RoomID, m.Sender, m.Body, m.CreatedAt); err != nil {
			return fmt.Errorf("failed to import message in room %s: %w", m.RoomID, err)
		}
	}
	return nil
}

// importLegacyRecords decodes old "sender:text" strings into structured
// message rows. A record with no colon has no identifiable sender.
func (s *BackupService) importLegacyRecords(records []LegacyRecordBackup) error {
	if len(records) == 0 {
		return nil
	}
	log.Printf("Importing %d legacy chat records...", len(records))
	for _, r := range records {
		sender, text := ParseLegacyRecord(r.Record)
		query := "INSERT INTO messages (room_id, sender, body) VALUES (?, ?, ?)"
		if _, err := s.db.Exec(query, r.RoomID, sender, text); err != nil {
			return fmt.Errorf("failed to import legacy record in room %s: %w", r.RoomID, err)
		}
	}
	return nil
}

func (s *BackupService) importPreviews(previews []PreviewBackup) error {
	log.Printf("Importing %d previews...", len(previews))
	for _, p := range previews {
		query := s.db.GetDialect().UpsertPreviewQuery()
		if _, err := s.db.Exec(query, p.RoomID, p.Body); err != nil {
			return fmt.Errorf("failed to import preview for room %s: %w", p.RoomID, err)
		}
	}
	return nil
}

func (s *BackupService) importSwipes(swipes []SwipeBackup) error {
	log.Printf("Importing %d swipes...", len(swipes))
	for _, sw := range swipes {
		query := "INSERT INTO swipes (from_email, to_email, liked, created_at) VALUES (?, ?, ?, ?)"
		if _, err := s.db.Exec(query, sw.FromEmail, sw.ToEmail, sw.Liked, sw.CreatedAt); err != nil {
			return fmt.Errorf("failed to import swipe %s -> %s: %w", sw.FromEmail, sw.ToEmail, err)
		}
	}
	return nil
}

func (s *BackupService) importMatches(matches []MatchBackup) error {
	log.Printf("Importing %d matches...", len(matches))
	for _, m := range matches {
		query := "INSERT INTO matches (room_id, parent_email, nanny_email, created_at) VALUES (?, ?, ?, ?)"
		if _, err := s.db.Exec(query, m.RoomID, m.ParentEmail, m.NannyEmail, m.CreatedAt); err != nil {
			return fmt.Errorf("failed to import match %s: %w", m.RoomID, err)
		}
	}
	return nil
}

func (s *BackupService) importWidgets(widgets []WidgetBackup) error {
	log.Printf("Importing %d widgets...", len(widgets))
	for _, w := range widgets {
		data := w.Data
		if data == "" {
			data = "{}"
		}
		query := "INSERT INTO widgets (id, owner_email, type, size, position, data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
		if _, err := s.db.Exec(query, w.ID, w.OwnerEmail, w.Type, w.Size, w.Position, data, w.CreatedAt); err != nil {
			return fmt.Errorf("failed to import widget %s: %w", w.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importLegacyWidgets(widgets []LegacyWidgetBackup) error {
	log.Printf("Importing %d legacy widgets...", len(widgets))
	for _, w := range widgets {
		query := "INSERT INTO legacy_widgets (label, position, created_at) VALUES (?, ?, ?)"
		if _, err := s.db.Exec(query, w.Label, w.Position, w.CreatedAt); err != nil {
			return fmt.Errorf("failed to import legacy widget %q: %w", w.Label, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
