package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"GamerReviewsAPI/internal/model"
	"GamerReviewsAPI/internal/repository"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GameInput carries the editable fields of a game.
// A nil PublishedAt means "today".
type GameInput struct {
	Name        string
	Description string
	PublishedAt *model.Date
	Developer   string
	Publisher   string
	Platform    string
	ImageURL    string
	OwnerID     int64
}

type GameService struct {
	Store       GameStore
	RankingSize int
	Now         func() time.Time
}

func NewGameService(store GameStore, rankingSize int) *GameService {
	if rankingSize <= 0 {
		rankingSize = 10
	}
	return &GameService{Store: store, RankingSize: rankingSize, Now: time.Now}
}

func (s *GameService) normalize(in GameInput) (GameInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Developer = strings.TrimSpace(in.Developer)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.Platform = strings.TrimSpace(in.Platform)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	required := []struct{ field, value string }{
		{"nombre", in.Name},
		{"descripcion", in.Description},
		{"desarrollador", in.Developer},
		{"editor", in.Publisher},
		{"plataforma", in.Platform},
	}
	for _, r := range required {
		if r.value == "" {
			return in, &ValidationError{Field: r.field}
		}
	}
	if in.OwnerID < 0 {
		return in, &ValidationError{Field: "usuarioId", Message: "usuarioId inválido"}
	}
	if in.PublishedAt == nil {
		today := model.NewDate(s.Now())
		in.PublishedAt = &today
	}
	return in, nil
}

// Validate checks the required fields without touching the store.
func (s *GameService) Validate(in GameInput) error {
	_, err := s.normalize(in)
	return err
}

// AddGame stores a new active game unless an active game already has the name.
func (s *GameService) AddGame(ctx context.Context, in GameInput) (Outcome, error) {
	in, err := s.normalize(in)
	if err != nil {
		return OutcomeUnknown, err
	}

	exists, err := s.Store.NameExists(ctx, in.Name, 0)
	if err != nil {
		return OutcomeUnknown, err
	}
	if exists {
		return OutcomeAlreadyExists, nil
	}

	g := &model.Game{
		Name:        in.Name,
		Description: in.Description,
		PublishedAt: *in.PublishedAt,
		Developer:   in.Developer,
		Publisher:   in.Publisher,
		Platform:    in.Platform,
		ImageURL:    in.ImageURL,
		Active:      true,
		OwnerID:     in.OwnerID,
	}
	if _, err := s.Store.CreateGame(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return OutcomeAlreadyExists, nil
		}
		return OutcomeUnknown, err
	}
	return OutcomeOK, nil
}

// EditGame replaces every field of an active game. The current image is kept
// when in.ImageURL is empty; the owner never changes.
func (s *GameService) EditGame(ctx context.Context, id int64, in GameInput) (Outcome, error) {
	in, err := s.normalize(in)
	if err != nil {
		return OutcomeUnknown, err
	}
	if id <= 0 {
		return OutcomeNotFoundOrInactive, nil
	}

	existing, err := s.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return OutcomeNotFoundOrInactive, nil
		}
		return OutcomeUnknown, err
	}

	taken, err := s.Store.NameExists(ctx, in.Name, id)
	if err != nil {
		return OutcomeUnknown, err
	}
	if taken {
		return OutcomeAlreadyExists, nil
	}

	update := *existing
	update.Name = in.Name
	update.Description = in.Description
	update.PublishedAt = *in.PublishedAt
	update.Developer = in.Developer
	update.Publisher = in.Publisher
	update.Platform = in.Platform
	if in.ImageURL != "" {
		update.ImageURL = in.ImageURL
	}

	if err := s.Store.UpdateGame(ctx, &update); err != nil {
		switch {
		case errors.Is(err, repository.ErrGameNotFound):
			return OutcomeNotFoundOrInactive, nil
		case errors.Is(err, repository.ErrDuplicateName):
			return OutcomeAlreadyExists, nil
		}
		return OutcomeUnknown, err
	}
	return OutcomeOK, nil
}

// GetGame returns an active game or repository.ErrGameNotFound.
func (s *GameService) GetGame(ctx context.Context, id int64) (*model.Game, error) {
	if id <= 0 {
		return nil, repository.ErrGameNotFound
	}
	return s.Store.GetByID(ctx, id)
}

func (s *GameService) ListGames(ctx context.Context) ([]model.Game, error) {
	list, err := s.Store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Game{}
	}
	return list, nil
}

// NormalizePage clamps page and limit to the accepted range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// PageOffset returns the row offset of page. ok is false when the offset
// does not fit in an int, which can only mean a page past the end.
func PageOffset(page, limit int) (offset int, ok bool) {
	if page < 1 || limit < 1 || page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

func (s *GameService) ListGamesPage(ctx context.Context, page, limit int) ([]model.GameSummary, error) {
	page, limit = NormalizePage(page, limit)
	offset, ok := PageOffset(page, limit)
	if !ok {
		return []model.GameSummary{}, nil
	}
	rows, err := s.Store.ListSummaries(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.GameSummary{}
	}
	return rows, nil
}

func (s *GameService) ListGamesByOwner(ctx context.Context, ownerID int64) ([]model.Game, error) {
	if ownerID <= 0 {
		return nil, &ValidationError{Field: "usuarioId", Message: "usuarioId inválido"}
	}
	list, err := s.Store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Game{}
	}
	return list, nil
}

// DeleteGame soft-deletes an active game.
func (s *GameService) DeleteGame(ctx context.Context, id int64) (model.DeleteResult, error) {
	if id <= 0 {
		return model.DeleteResult{Status: model.DeleteStatusNotFound, Message: "No encontrado"}, nil
	}
	return s.Store.DeactivateGame(ctx, id)
}

func (s *GameService) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	rows, err := s.Store.Ranking(ctx, s.RankingSize)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.RankingEntry{}
	}
	return rows, nil
}
