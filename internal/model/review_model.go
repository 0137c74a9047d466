package model

import "time"

// Review is a user's score for a game. Reviews feed the ranking.
type Review struct {
	ReviewID  int64     `json:"resenaId"`
	GameID    int64     `json:"juegoId"`
	UserID    int64     `json:"usuarioId"`
	Score     int       `json:"puntuacion"`
	Comment   string    `json:"comentario,omitempty"`
	CreatedAt time.Time `json:"fechaAlta"`
}

// RankingEntry is one row of the top games by average review score.
type RankingEntry struct {
	Position     int     `json:"posicion"`
	GameID       int64   `json:"juegoId"`
	Name         string  `json:"nombre"`
	ImageURL     string  `json:"imagenUrl,omitempty"`
	Platform     string  `json:"plataforma"`
	AverageScore float64 `json:"promedio"`
	ReviewCount  int     `json:"totalResenas"`
}
