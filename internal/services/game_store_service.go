package services

import (
	"context"

	"GamerReviewsAPI/internal/model"
)

// GameStore is the persistence contract for games. Implementations report
// repository.ErrGameNotFound and repository.ErrDuplicateName.
type GameStore interface {
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateGame(ctx context.Context, g *model.Game) (int64, error)
	UpdateGame(ctx context.Context, g *model.Game) error
	GetByID(ctx context.Context, id int64) (*model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	ListSummaries(ctx context.Context, limit, offset int) ([]model.GameSummary, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Game, error)
	DeactivateGame(ctx context.Context, id int64) (model.DeleteResult, error)
	Ranking(ctx context.Context, limit int) ([]model.RankingEntry, error)
}
