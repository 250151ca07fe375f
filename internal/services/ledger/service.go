package ledger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rinkhq/pickup-admin/internal/dependencies/clock"
	"github.com/rinkhq/pickup-admin/internal/dependencies/random"
	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Service manages the consumable pass ledger stored on each user
// profile: purchases, manual adjustments, FIFO debit selection and the
// one-shot migration of legacy single-pass fields.
type Service struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new ledger service
func New(st store.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "ledger")),
	}
}

// GetPasses returns the user's full pass set
func (s *Service) GetPasses(ctx context.Context, uid model.UID) ([]model.Pass, error) {
	profile, err := s.getProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	return profile.Passes, nil
}

// AddPass grants the user a new pass of the given type. The pass starts
// active with a full balance and a purchase date of now.
func (s *Service) AddPass(ctx context.Context, uid model.UID, passType model.PassType) (*model.Pass, error) {
	total := model.GamesTotalFor(passType)
	if total == 0 {
		return nil, model.ErrInvalidPassType
	}

	pass := model.Pass{
		ID:             model.PassID(s.random.ID()),
		Type:           passType,
		GamesTotal:     total,
		GamesRemaining: total,
		PurchaseDate:   s.clock.Now(),
		Status:         model.PassActive,
		UsageHistory:   []model.UsageRecord{},
	}

	err := s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"passes": store.ArrayUnion(pass),
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("pass added",
		slog.String("uid", string(uid)),
		slog.String("passId", string(pass.ID)),
		slog.String("type", string(passType)))
	return &pass, nil
}

// RemovePass deletes a pass from the user's ledger. The removal key is
// the stored pass value read moments before, so a concurrent debit makes
// the removal miss rather than delete the wrong element.
func (s *Service) RemovePass(ctx context.Context, uid model.UID, passID model.PassID) error {
	doc, err := s.getProfileDoc(ctx, uid)
	if err != nil {
		return err
	}

	raw, ok := rawPassEntry(doc, passID)
	if !ok {
		return model.ErrPassNotFound
	}

	return s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"passes": store.ArrayRemove(raw),
	})
}

// UpdatePass replaces the stored pass with the same id. The whole pass
// set is rewritten in one patch; element-level array updates cannot
// express an in-place replacement. For countable passes the stored
// status is derived from the balance, not taken from the caller, so an
// admin topping up an exhausted pass reactivates it.
func (s *Service) UpdatePass(ctx context.Context, uid model.UID, pass model.Pass) error {
	profile, err := s.getProfile(ctx, uid)
	if err != nil {
		return err
	}

	if pass.Type != model.PassFullSeason {
		if pass.GamesRemaining <= 0 {
			pass.GamesRemaining = 0
			pass.Status = model.PassExhausted
		} else {
			pass.Status = model.PassActive
		}
	}

	found := false
	for i := range profile.Passes {
		if profile.Passes[i].ID == pass.ID {
			profile.Passes[i] = pass
			found = true
			break
		}
	}
	if !found {
		return model.ErrPassNotFound
	}

	return s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"passes": store.Set(profile.Passes),
	})
}

// SelectPassToDebit picks which pass pays for a game: the oldest
// eligible pass by purchase date, ties broken by position in the set.
// Returns nil when no pass is eligible.
func SelectPassToDebit(passes []model.Pass) *model.Pass {
	var best *model.Pass
	for i := range passes {
		p := &passes[i]
		if !p.Eligible() {
			continue
		}
		if best == nil || p.PurchaseDate.Before(best.PurchaseDate) {
			best = p
		}
	}
	return best
}

// Debit consumes one game from the pass and appends the usage record.
// Full-season passes record usage but never decrement or exhaust.
func Debit(pass *model.Pass, usage model.UsageRecord) {
	pass.UsageHistory = append(pass.UsageHistory, usage)
	if pass.Type == model.PassFullSeason {
		return
	}
	pass.GamesRemaining--
	if pass.GamesRemaining <= 0 {
		pass.GamesRemaining = 0
		pass.Status = model.PassExhausted
	}
}

// MigrateLegacy converts a user's legacy single-pass fields into a
// ledger entry. Runs at most once per user: the guard requires a legacy
// pass type to be set and the pass set to be empty, and the same patch
// that writes the new pass clears the legacy fields, so a repeat call is
// a no-op. Returns whether a migration was performed.
func (s *Service) MigrateLegacy(ctx context.Context, uid model.UID) (bool, error) {
	profile, err := s.getProfile(ctx, uid)
	if err != nil {
		return false, err
	}

	if !profile.HasLegacyPass() || len(profile.Passes) > 0 {
		return false, nil
	}

	total := model.GamesTotalFor(profile.PassType)
	if total == 0 {
		// Unrecognized legacy type; leave the profile untouched
		s.logger.Warn("unknown legacy pass type, skipping migration",
			slog.String("uid", string(uid)),
			slog.String("passType", string(profile.PassType)))
		return false, nil
	}

	// The legacy balance carries over as-is. For full-season passes the
	// value is cosmetic; eligibility never consults it.
	remaining := profile.PassGamesRemaining

	purchaseDate := s.clock.Now()
	if profile.PassStartDate != nil {
		purchaseDate = *profile.PassStartDate
	}

	status := model.PassActive
	if profile.PassType != model.PassFullSeason && remaining <= 0 {
		remaining = 0
		status = model.PassExhausted
	}

	pass := model.Pass{
		ID:             model.PassID(s.random.ID()),
		Type:           profile.PassType,
		GamesTotal:     total,
		GamesRemaining: remaining,
		PurchaseDate:   purchaseDate,
		Status:         status,
		UsageHistory:   []model.UsageRecord{},
	}

	err = s.store.Patch(ctx, model.CollectionUsers, string(uid), map[string]store.FieldUpdate{
		"passes":             store.Set([]model.Pass{pass}),
		"passType":           store.Set(nil),
		"passGamesRemaining": store.Set(0),
		"passStartDate":      store.Set(nil),
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("legacy pass migrated",
		slog.String("uid", string(uid)),
		slog.String("passId", string(pass.ID)),
		slog.String("type", string(pass.Type)))
	return true, nil
}

func (s *Service) getProfile(ctx context.Context, uid model.UID) (*model.UserProfile, error) {
	doc, err := s.getProfileDoc(ctx, uid)
	if err != nil {
		return nil, err
	}
	profile, err := store.Decode[model.UserProfile](doc)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Service) getProfileDoc(ctx context.Context, uid model.UID) (store.Document, error) {
	doc, err := s.store.Get(ctx, model.CollectionUsers, string(uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrUserNotFound
	}
	return doc, err
}

// rawPassEntry finds the stored value for a pass by id, suitable as an
// ArrayRemove key
func rawPassEntry(doc store.Document, passID model.PassID) (any, bool) {
	arr, _ := doc["passes"].([]any)
	for _, el := range arr {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := entry["id"].(string); id == string(passID) {
			return el, true
		}
	}
	return nil, false
}
