package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

var (
	ErrProfileIncomplete = errors.New("profile must be completed before matching")
	ErrCandidateNotFound = errors.New("candidate profile not found")
)

// MatchService handles the swipe browser and mutual-match bookkeeping
type MatchService struct {
	profileRepo  *repository.ProfileRepository
	matchRepo    *repository.MatchRepository
	chatRepo     *repository.ChatRepository
	emailService *EmailService
}

// NewMatchService creates a new match service. emailService may be nil.
func NewMatchService(profileRepo *repository.ProfileRepository, matchRepo *repository.MatchRepository, chatRepo *repository.ChatRepository, emailService *EmailService) *MatchService {
	return &MatchService{
		profileRepo:  profileRepo,
		matchRepo:    matchRepo,
		chatRepo:     chatRepo,
		emailService: emailService,
	}
}

// Candidates returns the complete profiles on the opposite side of the
// marketplace that the account has not yet swiped on, in stable order.
func (s *MatchService) Candidates(account *models.Account) ([]models.Profile, error) {
	own, err := s.profileRepo.Get(account.UserType, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load own profile: %w", err)
	}
	if own == nil || !own.IsComplete() {
		return nil, ErrProfileIncomplete
	}

	profiles, err := s.profileRepo.GetAllByType(account.UserType.Opposite())
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	swiped, err := s.matchRepo.GetSwipedEmails(account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load swipe history: %w", err)
	}

	candidates := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsComplete() && !swiped[p.Email] {
			candidates = append(candidates, p)
		}
	}

	return candidates, nil
}

// Swipe records a like or pass on a candidate. A mutual like creates a
// match keyed by the pair's chat room ID and notifies both parties by
// email when the email service is configured.
func (s *MatchService) Swipe(ctx context.Context, account *models.Account, candidateEmail string, liked bool) (*models.Match, error) {
	candidate, err := s.profileRepo.Get(account.UserType.Opposite(), candidateEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	if err := s.matchRepo.RecordSwipe(account.Email, candidateEmail, liked); err != nil {
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	if !liked {
		return nil, nil
	}

	mutual, err := s.matchRepo.HasLiked(candidateEmail, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}
	if !mutual {
		return nil, nil
	}

	parentEmail, nannyEmail := account.Email, candidateEmail
	if account.UserType == models.UserTypeNanny {
		parentEmail, nannyEmail = candidateEmail, account.Email
	}

	roomID := RoomID(parentEmail, nannyEmail)
	match, err := s.matchRepo.CreateMatch(roomID, parentEmail, nannyEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.notifyMatch(ctx, account, candidate)

	return match, nil
}

// IsParticipant reports whether the email belongs to one side of the
// match behind a chat room. Rooms only exist for mutual matches.
func (s *MatchService) IsParticipant(roomID, email string) (bool, error) {
	match, err := s.matchRepo.GetMatchByRoom(roomID)
	if err != nil {
		return false, fmt.Errorf("failed to load match: %w", err)
	}
	if match == nil {
		return false, nil
	}
	return match.ParentEmail == email || match.NannyEmail == email, nil
}

// Matches returns the account's mutual matches with conversation previews
func (s *MatchService) Matches(account *models.Account) ([]models.MatchWithPreview, error) {
	matches, err := s.matchRepo.GetMatchesForEmail(account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	result := make([]models.MatchWithPreview, 0, len(matches))
	for _, m := range matches {
		preview, err := s.chatRepo.GetPreview(m.RoomID)
		if err != nil {
			return nil, fmt.Errorf("failed to load preview: %w", err)
		}
		if preview == "" {
			preview = DefaultPreview
		}
		result = append(result, models.MatchWithPreview{Match: m, Preview: preview})
	}

	return result, nil
}

// notifyMatch sends best-effort match notifications; failures are logged,
// never surfaced, since the match itself is already committed.
func (s *MatchService) notifyMatch(ctx context.Context, account *models.Account, candidate *models.Profile) {
	if s.emailService == nil || !s.emailService.IsEnabled() {
		return
	}

	own, err := s.profileRepo.Get(account.UserType, account.Email)
	ownName := account.Username
	if err == nil && own != nil && own.Name != "" {
		ownName = own.Name
	}

	if err := s.emailService.SendMatchNotification(ctx, account.Email, ownName, candidate.Name); err != nil {
		log.Printf("Failed to send match notification to %s: %v", account.Email, err)
	}
	if err := s.emailService.SendMatchNotification(ctx, candidate.Email, candidate.Name, ownName); err != nil {
		log.Printf("Failed to send match notification to %s: %v", candidate.Email, err)
	}
}
