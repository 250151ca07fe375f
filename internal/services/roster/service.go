package roster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rinkhq/pickup-admin/internal/model"
	"github.com/rinkhq/pickup-admin/internal/store"
)

// Service moves players between the mutually exclusive roster lists of a
// game (waitlist, players) and manages team assignments.
//
// The store removes array elements by full value equality, so every
// removal key is taken from the document read at the top of the
// operation, never from a caller-supplied Player value. Multi-write
// operations are not atomic; see MoveBetweenLists.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a new roster service
func New(st store.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger.With(slog.String("component", "roster")),
	}
}

// GetGame retrieves a game by id
func (s *Service) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	doc, err := s.getGameDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	game, err := store.Decode[model.Game](doc)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// ListGames returns all games ordered by date descending, optionally
// restricted to one city
func (s *Service) ListGames(ctx context.Context, cityID model.CityID) ([]model.Game, error) {
	query := store.Query{OrderBy: "date", Descending: true}
	if cityID != "" {
		query.Filters = []store.Filter{{Field: "cityId", Value: cityID}}
	}

	docs, err := s.store.Query(ctx, model.CollectionGames, query)
	if err != nil {
		return nil, err
	}

	games := make([]model.Game, 0, len(docs))
	for _, doc := range docs {
		game, err := store.Decode[model.Game](doc)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// MoveFromWaitlistToPlayers promotes a waitlisted player onto the player
// list. The removal and insertion go out as a single patch. Succeeds as
// a no-op if the player is already on the player list; fails with
// ErrPlayerNotInWaitlist otherwise when the player is not waitlisted.
func (s *Service) MoveFromWaitlistToPlayers(ctx context.Context, gameID model.GameID, uid model.UID) error {
	doc, err := s.getGameDoc(ctx, gameID)
	if err != nil {
		return err
	}

	raw, inWaitlist := rawListEntry(doc, string(model.ListWaitlist), uid)
	if !inWaitlist {
		if _, inPlayers := rawListEntry(doc, string(model.ListPlayers), uid); inPlayers {
			return nil
		}
		return model.ErrPlayerNotInWaitlist
	}

	return s.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
		string(model.ListWaitlist): store.ArrayRemove(raw),
		string(model.ListPlayers):  store.ArrayUnion(raw),
	})
}

// RemovePlayer removes a player from the indicated list. Fails with
// ErrPlayerNotInList if the player is not present there.
func (s *Service) RemovePlayer(ctx context.Context, gameID model.GameID, uid model.UID, fromWaitlist bool) error {
	doc, err := s.getGameDoc(ctx, gameID)
	if err != nil {
		return err
	}

	list := model.ListPlayers
	if fromWaitlist {
		list = model.ListWaitlist
	}

	raw, ok := rawListEntry(doc, string(list), uid)
	if !ok {
		return model.ErrPlayerNotInList
	}

	return s.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
		string(list): store.ArrayRemove(raw),
	})
}

// MoveBetweenLists removes the player from one list and unions them into
// the other. The two writes are not atomic: a failure between them
// leaves the player on neither list. Callers recover by re-adding the
// player; the store never duplicates membership on retry.
func (s *Service) MoveBetweenLists(ctx context.Context, gameID model.GameID, player model.Player, from, to model.RosterList) error {
	if !from.Valid() || !to.Valid() {
		return model.ErrInvalidRosterList
	}

	doc, err := s.getGameDoc(ctx, gameID)
	if err != nil {
		return err
	}

	// Remove the exact stored value if the player is on the source list
	if raw, ok := rawListEntry(doc, string(from), player.UID); ok {
		err := s.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
			string(from): store.ArrayRemove(raw),
		})
		if err != nil {
			return err
		}
	}

	return s.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
		string(to): store.ArrayUnion(player),
	})
}

// AssignTeams replaces the game's team assignments wholesale. No
// validation that assigned players are on the roster; that is the
// caller's responsibility.
func (s *Service) AssignTeams(ctx context.Context, gameID model.GameID, assignments map[string][]model.Player) error {
	err := s.store.Patch(ctx, model.CollectionGames, string(gameID), map[string]store.FieldUpdate{
		"teamAssignments": store.Set(assignments),
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.ErrGameNotFound
	}
	return err
}

func (s *Service) getGameDoc(ctx context.Context, id model.GameID) (store.Document, error) {
	doc, err := s.store.Get(ctx, model.CollectionGames, string(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, model.ErrGameNotFound
	}
	return doc, err
}

// rawListEntry finds the stored value for a player in a list field,
// matching by uid. The returned value is the exact element as read from
// the store, suitable as an ArrayRemove key.
func rawListEntry(doc store.Document, field string, uid model.UID) (any, bool) {
	arr, _ := doc[field].([]any)
	for _, el := range arr {
		entry, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := entry["uid"].(string); id == string(uid) {
			return el, true
		}
	}
	return nil, false
}
