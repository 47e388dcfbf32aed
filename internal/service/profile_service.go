package service

import (
	"fmt"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
	"github.com/Rupmejs/CareRemote-sub000/internal/repository"
)

// ProfileService handles profile persistence and completeness checks
type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Save persists the profile under its (userType, email) key. The store
// accepts incomplete profiles; completeness only gates the match browser.
func (s *ProfileService) Save(profile *models.Profile) error {
	if !profile.UserType.Valid() {
		return ErrInvalidUserType
	}
	if err := s.profileRepo.Save(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Load retrieves the profile for (userType, email), or nil if absent
func (s *ProfileService) Load(userType models.UserType, email string) (*models.Profile, error) {
	if !userType.Valid() {
		return nil, ErrInvalidUserType
	}
	profile, err := s.profileRepo.Get(userType, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// FindByEmail retrieves the profile registered under an email address when
// the caller does not know the user type. Direct indexed lookup.
func (s *ProfileService) FindByEmail(email string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// CompleteProfiles returns every complete profile in a user-type partition
func (s *ProfileService) CompleteProfiles(userType models.UserType) ([]models.Profile, error) {
	profiles, err := s.profileRepo.GetAllByType(userType)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	complete := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.IsComplete() {
			complete = append(complete, p)
		}
	}

	return complete, nil
}
