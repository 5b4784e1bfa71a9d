package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/remiblancher/mceliece/internal/api/dto"
	"github.com/remiblancher/mceliece/internal/profile"
)

// ProfileService provides profile operations for the REST API.
type ProfileService struct{}

// NewProfileService creates a new ProfileService.
func NewProfileService() *ProfileService {
	return &ProfileService{}
}

// List returns all builtin profiles.
func (s *ProfileService) List(ctx context.Context) (*dto.ProfileListResponse, error) {
	all, err := profile.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	names, err := profile.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]dto.ProfileListItem, 0, len(names))
	for _, name := range names {
		prof := all[name]
		profiles = append(profiles, dto.ProfileListItem{
			Name:        name,
			Description: prof.Description,
			Category:    extractCategory(name),
			Algorithm:   string(prof.Algorithm),
		})
	}

	return &dto.ProfileListResponse{
		Profiles: profiles,
	}, nil
}

// Get returns detailed information about a builtin profile.
func (s *ProfileService) Get(ctx context.Context, name string) (*dto.ProfileInfoResponse, error) {
	all, err := profile.Builtin()
	if err != nil {
		return nil, err
	}
	prof, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", profile.ErrNotFound, name)
	}
	params, err := prof.Parameters()
	if err != nil {
		return nil, err
	}

	// The raw key stores the full k x n generator, the CCA2 key only the
	// k x (n-k) redundant part.
	cols := params.N()
	if prof.Algorithm.IsCCA2() {
		cols = params.N() - params.K()
	}

	return &dto.ProfileInfoResponse{
		Name:          prof.Name,
		Description:   prof.Description,
		Category:      extractCategory(prof.Name),
		Algorithm:     algorithmInfo(prof.Algorithm),
		Params:        paramsInfo(prof.Algorithm, params),
		PublicKeySize: params.K() * ((cols + 7) / 8),
	}, nil
}

// extractCategory returns the first path segment of a profile name.
func extractCategory(name string) string {
	if i := strings.Index(name, "/"); i > 0 {
		return name[:i]
	}
	return ""
}
