package cities

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gosimple/slug"

	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Service manages city reference data. Reads go through a TTL cache;
// every write invalidates the cache and reloads it so subsequent reads
// see the change immediately.
type Service struct {
	store  store.Store
	clock  clock.Clock
	cache  *Cache
	logger *slog.Logger
}

// New creates a new city service with a cache at the default TTL
func New(st store.Store, clk clock.Clock, logger *slog.Logger) *Service {
	s := &Service{
		store:  st,
		clock:  clk,
		logger: logger.With(slog.String("component", "cities")),
	}
	s.cache = NewCache(s.fetchAll, clk, DefaultTTL, logger)
	return s
}

// CityInput is the caller-supplied portion of a city document
type CityInput struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Logo         string `json:"logo,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// GetCities returns all cities, served from cache within the TTL.
// force bypasses the cache. stale is true when the backing store was
// unreachable and an expired cached list was served instead.
func (s *Service) GetCities(ctx context.Context, force bool) (cities []model.City, stale bool, err error) {
	return s.cache.Get(ctx, force)
}

// GetCity returns one city by id
func (s *Service) GetCity(ctx context.Context, id model.CityID) (*model.City, error) {
	cities, _, err := s.cache.Get(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		if cities[i].ID == id {
			return &cities[i], nil
		}
	}
	return nil, model.ErrCityNotFound
}

// CreateCity creates a city. The id is the slugified name, so city ids
// are stable and human-readable ("halifax", "new-glasgow").
func (s *Service) CreateCity(ctx context.Context, input CityInput) (*model.City, error) {
	now := s.clock.Now()
	id := model.CityID(slug.Make(input.Name))

	city := model.City{
		ID:           id,
		Name:         input.Name,
		DisplayName:  input.DisplayName,
		Slug:         string(id),
		Logo:         input.Logo,
		ContactEmail: input.ContactEmail,
		PrimaryColor: input.PrimaryColor,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc, err := store.Encode(city)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, model.CollectionCities, string(id), doc); err != nil {
		return nil, err
	}

	s.reloadCache(ctx)
	s.logger.Info("city created", slog.String("cityId", string(id)))
	return &city, nil
}

// UpdateCity applies the input to an existing city. The id, slug and
// creation time are immutable.
func (s *Service) UpdateCity(ctx context.Context, id model.CityID, input CityInput) (*model.City, error) {
	doc, err := s.store.Get(ctx, model.CollectionCities, string(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrCityNotFound
	}
	if err != nil {
		return nil, err
	}
	city, err := store.Decode[model.City](doc)
	if err != nil {
		return nil, err
	}

	city.Name = input.Name
	city.DisplayName = input.DisplayName
	city.Logo = input.Logo
	city.ContactEmail = input.ContactEmail
	city.PrimaryColor = input.PrimaryColor
	city.UpdatedAt = s.clock.Now()

	updated, err := store.Encode(city)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, model.CollectionCities, string(id), updated); err != nil {
		return nil, err
	}

	s.reloadCache(ctx)
	return &city, nil
}

// SetActive toggles whether a city is shown to players
func (s *Service) SetActive(ctx context.Context, id model.CityID, active bool) error {
	err := s.store.Patch(ctx, model.CollectionCities, string(id), map[string]store.FieldUpdate{
		"isActive":  store.Set(active),
		"updatedAt": store.Set(s.clock.Now()),
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.ErrCityNotFound
	}
	if err != nil {
		return err
	}

	s.reloadCache(ctx)
	return nil
}

// DeleteCity removes a city document
func (s *Service) DeleteCity(ctx context.Context, id model.CityID) error {
	if err := s.store.Delete(ctx, model.CollectionCities, string(id)); err != nil {
		return err
	}
	s.reloadCache(ctx)
	return nil
}

// SeedDefaults creates the default cities when the collection is empty.
// Safe to run on every startup.
func (s *Service) SeedDefaults(ctx context.Context) error {
	docs, err := s.store.Query(ctx, model.CollectionCities, store.Query{})
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return nil
	}

	defaults := []CityInput{
		{Name: "Halifax", DisplayName: "Halifax"},
		{Name: "Bridgewater", DisplayName: "Bridgewater"},
	}
	for _, input := range defaults {
		if _, err := s.CreateCity(ctx, input); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default cities", slog.Int("count", len(defaults)))
	return nil
}

// reloadCache drops the cache and refetches so reads after a write are
// current. A reload failure is logged, not returned; the write itself
// succeeded.
func (s *Service) reloadCache(ctx context.Context) {
	s.cache.Invalidate()
	if _, _, err := s.cache.Get(ctx, true); err != nil {
		s.logger.Warn("city cache reload failed", slog.String("error", err.Error()))
	}
}

// fetchAll is the cache's backing fetch: all cities ordered by name
func (s *Service) fetchAll(ctx context.Context) ([]model.City, error) {
	docs, err := s.store.Query(ctx, model.CollectionCities, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	cities := make([]model.City, 0, len(docs))
	for _, doc := range docs {
		city, err := store.Decode[model.City](doc)
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, nil
}
