package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Service manages user profile documents
type Service struct {
	store  store.Store
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new user service
func New(st store.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		clock:  clk,
		logger: logger.With(slog.String("component", "users")),
	}
}

// ProfileInput is the user-editable portion of a profile
type ProfileInput struct {
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	SkillLevel int    `json:"skillLevel,omitempty"`
}

// ListUsers returns all user profiles ordered by name
func (s *Service) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	docs, err := s.store.Query(ctx, model.CollectionUsers, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	profiles := make([]model.UserProfile, 0, len(docs))
	for _, doc := range docs {
		profile, err := store.Decode[model.UserProfile](doc)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// GetUser returns one user profile
func (s *Service) GetUser(ctx context.Context, uid model.UID) (*model.UserProfile, error) {
	doc, err := s.store.Get(ctx, model.CollectionUsers, string(uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	profile, err := store.Decode[model.UserProfile](doc)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Register creates a profile for a new user, or returns the existing one.
// New profiles start with empty legacy fields and no passes.
func (s *Service) Register(ctx context.Context, uid model.UID, email, name string) (*model.UserProfile, error) {
	if existing, err := s.GetUser(ctx, uid); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	profile := model.UserProfile{
		UID:         uid,
		Email:       email,
		Name:        name,
		Regulars:    map[string]bool{},
		GameHistory: []model.GameHistoryEntry{},
		CreatedAt:   s.clock.Now(),
	}

	doc, err := store.Encode(profile)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, model.CollectionUsers, string(uid), doc); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("uid", string(uid)))
	return &profile, nil
}

// UpdateProfile applies the editable fields of a profile
func (s *Service) UpdateProfile(ctx context.Context, uid model.UID, input ProfileInput) error {
	err := s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"name":       store.Set(input.Name),
		"position":   store.Set(input.Position),
		"skillLevel": store.Set(input.SkillLevel),
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.ErrUserNotFound
	}
	return err
}

// SetAdmin grants or revokes admin. With a city id the flag is scoped to
// that city's membership data; without one the legacy global flag is set.
func (s *Service) SetAdmin(ctx context.Context, uid model.UID, cityID model.CityID, isAdmin bool) error {
	field := "isAdmin"
	if cityID != "" {
		field = fmt.Sprintf("cityData.%s.isAdmin", cityID)
	}

	err := s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		field: store.Set(isAdmin),
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	s.logger.Info("admin flag updated",
		slog.String("uid", string(uid)),
		slog.String("cityId", string(cityID)),
		slog.Bool("isAdmin", isAdmin))
	return nil
}

// SetRegular marks the user as a regular (or not) for a recurring
// schedule slot, e.g. "sunday_1030pm_civic"
func (s *Service) SetRegular(ctx context.Context, uid model.UID, scheduleKey string, regular bool) error {
	err := s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"regulars." + scheduleKey: store.Set(regular),
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.ErrUserNotFound
	}
	return err
}
