package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

type matchFixture struct {
	matchService *MatchService
	chatService  *ChatService
	profileRepo  *repository.ProfileRepository
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	db := newTestDB(t)
	profileRepo := repository.NewProfileRepository(db)
	chatRepo := repository.NewChatRepository(db)
	return &matchFixture{
		matchService: NewMatchService(profileRepo, repository.NewMatchRepository(db), chatRepo, nil),
		chatService:  NewChatService(chatRepo, nil),
		profileRepo:  profileRepo,
	}
}

func (f *matchFixture) saveProfile(t *testing.T, userType models.UserType, email, name string) {
	t.Helper()
	err := f.profileRepo.Save(&models.Profile{
		UserType:  userType,
		Email:     email,
		Name:      name,
		Age:       30,
		ImageRefs: []string{"ref-" + email},
	})
	if err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}
}

func parentAccount(email string) *models.Account {
	return &models.Account{ID: 1, UserType: models.UserTypeParent, Username: "Parent", Email: email}
}

func nannyAccount(email string) *models.Account {
	return &models.Account{ID: 2, UserType: models.UserTypeNanny, Username: "Nanny", Email: email}
}

func TestCandidatesRequiresCompleteProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newMatchFixture(t)
	parent := parentAccount("parent@x.com")

	// No profile at all
	if _, err := f.matchService.Candidates(parent); !errors.Is(err, ErrProfileIncomplete) {
		t.Errorf("Candidates() error = %v, want ErrProfileIncomplete", err)
	}

	// Incomplete profile (no photos)
	if err := f.profileRepo.Save(&models.Profile{
		UserType: models.UserTypeParent, Email: parent.Email, Name: "Anna", Age: 34,
	}); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}
	if _, err := f.matchService.Candidates(parent); !errors.Is(err, ErrProfileIncomplete) {
		t.Errorf("Candidates() with incomplete profile error = %v, want ErrProfileIncomplete", err)
	}
}

func TestCandidatesFiltersOppositeTypeAndSwiped(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newMatchFixture(t)
	parent := parentAccount("parent@x.com")
	f.saveProfile(t, models.UserTypeParent, parent.Email, "Anna")
	f.saveProfile(t, models.UserTypeNanny, "nanny1@x.com", "Marta")
	f.saveProfile(t, models.UserTypeNanny, "nanny2@x.com", "Ilze")
	f.saveProfile(t, models.UserTypeParent, "otherparent@x.com", "Liga")

	// Incomplete nanny profile never shows up
	if err := f.profileRepo.Save(&models.Profile{
		UserType: models.UserTypeNanny, Email: "incomplete@x.com", Name: "Eva",
	}); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	candidates, err := f.matchService.Candidates(parent)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}

	// After swiping one away, only the other remains
	if _, err := f.matchService.Swipe(context.Background(), parent, "nanny1@x.com", false); err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}

	candidates, err = f.matchService.Candidates(parent)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].Email != "nanny2@x.com" {
		t.Errorf("candidates after swipe = %+v, want only nanny2", candidates)
	}
}

func TestMutualLikeCreatesMatch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newMatchFixture(t)
	parent := parentAccount("parent@x.com")
	nanny := nannyAccount("nanny@x.com")
	f.saveProfile(t, models.UserTypeParent, parent.Email, "Anna")
	f.saveProfile(t, models.UserTypeNanny, nanny.Email, "Marta")

	// One-sided like: no match yet
	match, err := f.matchService.Swipe(context.Background(), parent, nanny.Email, true)
	if err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}
	if match != nil {
		t.Fatal("one-sided like should not create a match")
	}

	// Reciprocal like completes the match
	match, err = f.matchService.Swipe(context.Background(), nanny, parent.Email, true)
	if err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}
	if match == nil {
		t.Fatal("mutual like should create a match")
	}

	wantRoom := RoomID(parent.Email, nanny.Email)
	if match.RoomID != wantRoom {
		t.Errorf("match room = %q, want %q", match.RoomID, wantRoom)
	}
	if match.ParentEmail != parent.Email || match.NannyEmail != nanny.Email {
		t.Errorf("match sides = (%q, %q), want (%q, %q)",
			match.ParentEmail, match.NannyEmail, parent.Email, nanny.Email)
	}

	// Both parties see it, with the default preview
	for _, account := range []*models.Account{parent, nanny} {
		matches, err := f.matchService.Matches(account)
		if err != nil {
			t.Fatalf("Matches() error = %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("got %d matches for %s, want 1", len(matches), account.Email)
		}
		if matches[0].Preview != DefaultPreview {
			t.Errorf("preview = %q, want %q", matches[0].Preview, DefaultPreview)
		}
	}

	// Room membership follows the match
	member, err := f.matchService.IsParticipant(wantRoom, parent.Email)
	if err != nil || !member {
		t.Errorf("IsParticipant(parent) = (%v, %v), want (true, nil)", member, err)
	}
	member, err = f.matchService.IsParticipant(wantRoom, "stranger@x.com")
	if err != nil || member {
		t.Errorf("IsParticipant(stranger) = (%v, %v), want (false, nil)", member, err)
	}

	// Chatting updates the preview both see
	if _, err := f.chatService.Send(wantRoom, parent.Email, "hello!"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	matches, err := f.matchService.Matches(nanny)
	if err != nil {
		t.Fatalf("Matches() error = %v", err)
	}
	if matches[0].Preview != "hello!" {
		t.Errorf("preview after message = %q, want %q", matches[0].Preview, "hello!")
	}
}

func TestReswipeReplacesDecision(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newMatchFixture(t)
	parent := parentAccount("parent@x.com")
	nanny := nannyAccount("nanny@x.com")
	f.saveProfile(t, models.UserTypeParent, parent.Email, "Anna")
	f.saveProfile(t, models.UserTypeNanny, nanny.Email, "Marta")

	// Pass first, then change of heart
	if _, err := f.matchService.Swipe(context.Background(), parent, nanny.Email, false); err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}
	if _, err := f.matchService.Swipe(context.Background(), parent, nanny.Email, true); err != nil {
		t.Fatalf("re-swipe error = %v", err)
	}

	// The replaced like counts toward a mutual match
	match, err := f.matchService.Swipe(context.Background(), nanny, parent.Email, true)
	if err != nil {
		t.Fatalf("Swipe() error = %v", err)
	}
	if match == nil {
		t.Fatal("mutual like after a re-swipe should create a match")
	}
}

func TestSwipeUnknownCandidate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	f := newMatchFixture(t)
	parent := parentAccount("parent@x.com")
	f.saveProfile(t, models.UserTypeParent, parent.Email, "Anna")

	if _, err := f.matchService.Swipe(context.Background(), parent, "ghost@x.com", true); !errors.Is(err, ErrCandidateNotFound) {
		t.Errorf("Swipe() error = %v, want ErrCandidateNotFound", err)
	}
}
