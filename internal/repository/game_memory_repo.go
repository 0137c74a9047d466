package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"GamerReviewsAPI/internal/model"
)

// MemoryGameRepository keeps games and reviews in process memory.
// It backs the API when no DATABASE_URL is configured.
type MemoryGameRepository struct {
	mu       sync.RWMutex
	games    map[int64]model.Game
	reviews  []model.Review
	nextID   int64
	reviewID int64
}

func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{games: make(map[int64]model.Game)}
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// must hold mu
func (r *MemoryGameRepository) nameTaken(name string, excludeID int64) bool {
	key := nameKey(name)
	for id, g := range r.games {
		if id != excludeID && g.Active && nameKey(g.Name) == key {
			return true
		}
	}
	return false
}

func (r *MemoryGameRepository) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nameTaken(name, excludeID), nil
}

func (r *MemoryGameRepository) CreateGame(_ context.Context, g *model.Game) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(g.Name, 0) {
		return 0, ErrDuplicateName
	}
	r.nextID++
	g.GameID = r.nextID
	g.Active = true
	g.CreatedAt = time.Now()
	r.games[g.GameID] = *g
	return g.GameID, nil
}

func (r *MemoryGameRepository) UpdateGame(_ context.Context, g *model.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.games[g.GameID]
	if !ok || !current.Active {
		return ErrGameNotFound
	}
	if r.nameTaken(g.Name, g.GameID) {
		return ErrDuplicateName
	}
	current.Name = g.Name
	current.Description = g.Description
	current.PublishedAt = g.PublishedAt
	current.Developer = g.Developer
	current.Publisher = g.Publisher
	current.Platform = g.Platform
	current.ImageURL = g.ImageURL
	r.games[g.GameID] = current
	return nil
}

func (r *MemoryGameRepository) GetByID(_ context.Context, id int64) (*model.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok || !g.Active {
		return nil, ErrGameNotFound
	}
	return &g, nil
}

// Find returns a game whether or not it is active.
func (r *MemoryGameRepository) Find(id int64) (model.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// must hold mu
func (r *MemoryGameRepository) active(keep func(model.Game) bool) []model.Game {
	list := []model.Game{}
	for _, g := range r.games {
		if g.Active && (keep == nil || keep(g)) {
			list = append(list, g)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].GameID < list[j].GameID })
	return list
}

func (r *MemoryGameRepository) ListActive(_ context.Context) ([]model.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(nil), nil
}

func (r *MemoryGameRepository) ListSummaries(_ context.Context, limit, offset int) ([]model.GameSummary, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.active(nil)
	out := []model.GameSummary{}
	if offset >= len(all) {
		return out, nil
	}
	end := offset + limit
	if end > len(all) || end < offset {
		end = len(all)
	}
	for _, g := range all[offset:end] {
		out = append(out, g.Summary())
	}
	return out, nil
}

func (r *MemoryGameRepository) ListByOwner(_ context.Context, ownerID int64) ([]model.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(func(g model.Game) bool { return g.OwnerID == ownerID }), nil
}

func (r *MemoryGameRepository) DeactivateGame(_ context.Context, id int64) (model.DeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok || !g.Active {
		return model.DeleteResult{Status: model.DeleteStatusNotFound, Message: "Juego no encontrado o ya dado de baja"}, nil
	}
	g.Active = false
	r.games[id] = g
	return model.DeleteResult{Status: model.DeleteStatusDeleted, Message: "Juego dado de baja correctamente"}, nil
}

// AddReview records a score for an existing game.
func (r *MemoryGameRepository) AddReview(gameID, userID int64, score int, comment string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[gameID]; !ok {
		return 0, ErrGameNotFound
	}
	r.reviewID++
	r.reviews = append(r.reviews, model.Review{
		ReviewID:  r.reviewID,
		GameID:    gameID,
		UserID:    userID,
		Score:     score,
		Comment:   comment,
		CreatedAt: time.Now(),
	})
	return r.reviewID, nil
}

func (r *MemoryGameRepository) Ranking(_ context.Context, limit int) ([]model.RankingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sums := map[int64]int{}
	counts := map[int64]int{}
	for _, rv := range r.reviews {
		sums[rv.GameID] += rv.Score
		counts[rv.GameID]++
	}

	list := []model.RankingEntry{}
	for id, n := range counts {
		g := r.games[id]
		if !g.Active {
			continue
		}
		avg := float64(sums[id]) / float64(n)
		list = append(list, model.RankingEntry{
			GameID:       id,
			Name:         g.Name,
			ImageURL:     g.ImageURL,
			Platform:     g.Platform,
			AverageScore: float64(int(avg*100+0.5)) / 100,
			ReviewCount:  n,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.GameID < b.GameID
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	for i := range list {
		list[i].Position = i + 1
	}
	return list, nil
}
