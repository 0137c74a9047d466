package repository

import (
	"context"
	"time"

	"GamerReviewsAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type GameRepository struct {
	DB DBTX
}

func NewGameRepository(db DBTX) *GameRepository {
	return &GameRepository{DB: db}
}

const gameColumns = `juego_id, nombre, descripcion, fecha_publicacion, desarrollador, editor, plataforma,
	COALESCE(imagen_url, ''), activo, COALESCE(usuario_id, 0), fecha_alta`

func scanGame(row pgx.Row) (*model.Game, error) {
	var g model.Game
	if err := row.Scan(&g.GameID, &g.Name, &g.Description, &g.PublishedAt.Time, &g.Developer, &g.Publisher,
		&g.Platform, &g.ImageURL, &g.Active, &g.OwnerID, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func collectGames(rows pgx.Rows) ([]model.Game, error) {
	defer rows.Close()

	list := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning game")
		}
		list = append(list, *g)
	}
	return list, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return &n
}

// NameExists reports whether an active game other than excludeID uses name.
func (r *GameRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM juegos
		WHERE lower(btrim(nombre)) = lower(btrim($1)) AND activo AND juego_id <> $2
	)`
	if err := r.DB.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "checking game name")
	}
	return exists, nil
}

func (r *GameRepository) CreateGame(ctx context.Context, g *model.Game) (int64, error) {
	var id int64
	query := `INSERT INTO juegos
		(nombre, descripcion, fecha_publicacion, desarrollador, editor, plataforma, imagen_url, activo, usuario_id, fecha_alta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9)
		RETURNING juego_id`
	now := time.Now()
	err := r.DB.QueryRow(ctx, query, g.Name, g.Description, g.PublishedAt.Time, g.Developer, g.Publisher,
		g.Platform, nullString(g.ImageURL), nullInt(g.OwnerID), now).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateName
		}
		return 0, errors.Wrap(err, "inserting game")
	}
	g.GameID = id
	g.Active = true
	g.CreatedAt = now
	return id, nil
}

func (r *GameRepository) UpdateGame(ctx context.Context, g *model.Game) error {
	query := `UPDATE juegos
		SET nombre=$1, descripcion=$2, fecha_publicacion=$3, desarrollador=$4, editor=$5, plataforma=$6, imagen_url=$7
		WHERE juego_id=$8 AND activo`
	tag, err := r.DB.Exec(ctx, query, g.Name, g.Description, g.PublishedAt.Time, g.Developer, g.Publisher,
		g.Platform, nullString(g.ImageURL), g.GameID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return errors.Wrap(err, "updating game")
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (*model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM juegos WHERE juego_id=$1 AND activo`
	g, err := scanGame(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, errors.Wrap(err, "loading game")
	}
	return g, nil
}

func (r *GameRepository) ListActive(ctx context.Context) ([]model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM juegos WHERE activo ORDER BY juego_id`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing games")
	}
	return collectGames(rows)
}

func (r *GameRepository) ListSummaries(ctx context.Context, limit, offset int) ([]model.GameSummary, error) {
	if err := checkPage(limit, offset); err != nil {
		return nil, err
	}
	query := `SELECT juego_id, nombre, plataforma, COALESCE(imagen_url, ''), fecha_publicacion
		FROM juegos WHERE activo ORDER BY juego_id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "listing game page")
	}
	defer rows.Close()

	list := []model.GameSummary{}
	for rows.Next() {
		var s model.GameSummary
		if err := rows.Scan(&s.GameID, &s.Name, &s.Platform, &s.ImageURL, &s.PublishedAt.Time); err != nil {
			return nil, errors.Wrap(err, "scanning game summary")
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *GameRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM juegos WHERE usuario_id=$1 AND activo ORDER BY juego_id`
	rows, err := r.DB.Query(ctx, query, ownerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing user games")
	}
	return collectGames(rows)
}

// DeactivateGame flips activo to false. The row is kept.
func (r *GameRepository) DeactivateGame(ctx context.Context, id int64) (model.DeleteResult, error) {
	query := `UPDATE juegos SET activo = FALSE WHERE juego_id=$1 AND activo`
	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return model.DeleteResult{}, errors.Wrap(err, "deactivating game")
	}
	if tag.RowsAffected() == 0 {
		return model.DeleteResult{Status: model.DeleteStatusNotFound, Message: "Juego no encontrado o ya dado de baja"}, nil
	}
	return model.DeleteResult{Status: model.DeleteStatusDeleted, Message: "Juego dado de baja correctamente"}, nil
}

// Ranking returns active games ordered by average review score.
func (r *GameRepository) Ranking(ctx context.Context, limit int) ([]model.RankingEntry, error) {
	query := `SELECT j.juego_id, j.nombre, COALESCE(j.imagen_url, ''), j.plataforma,
			ROUND(AVG(r.puntuacion)::numeric, 2)::float8 AS promedio,
			COUNT(r.resena_id) AS total
		FROM juegos j
		JOIN resenas r ON r.juego_id = j.juego_id
		WHERE j.activo
		GROUP BY j.juego_id
		ORDER BY promedio DESC, total DESC, j.juego_id
		LIMIT $1`
	rows, err := r.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "computing ranking")
	}
	defer rows.Close()

	list := []model.RankingEntry{}
	for rows.Next() {
		var (
			e     model.RankingEntry
			total int64
		)
		if err := rows.Scan(&e.GameID, &e.Name, &e.ImageURL, &e.Platform, &e.AverageScore, &total); err != nil {
			return nil, errors.Wrap(err, "scanning ranking row")
		}
		e.ReviewCount = int(total)
		e.Position = len(list) + 1
		list = append(list, e)
	}
	return list, rows.Err()
}
