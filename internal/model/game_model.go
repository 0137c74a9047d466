package model

import "time"

// Game is a catalog entry. Deactivated games stay in storage with Active=false.
type Game struct {
	GameID      int64     `json:"juegoId"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	PublishedAt Date      `json:"fechaPublicacion"`
	Developer   string    `json:"desarrollador"`
	Publisher   string    `json:"editor"`
	Platform    string    `json:"plataforma"`
	ImageURL    string    `json:"imagenUrl,omitempty"`
	Active      bool      `json:"activo"`
	OwnerID     int64     `json:"usuarioId,omitempty"`
	CreatedAt   time.Time `json:"fechaAlta"`
}

// GameSummary is the lighter row returned by the paginated listing.
type GameSummary struct {
	GameID      int64  `json:"juegoId"`
	Name        string `json:"nombre"`
	Platform    string `json:"plataforma"`
	ImageURL    string `json:"imagenUrl,omitempty"`
	PublishedAt Date   `json:"fechaPublicacion"`
}

func (g Game) Summary() GameSummary {
	return GameSummary{
		GameID:      g.GameID,
		Name:        g.Name,
		Platform:    g.Platform,
		ImageURL:    g.ImageURL,
		PublishedAt: g.PublishedAt,
	}
}

type DeleteStatus int

const (
	DeleteStatusNotFound DeleteStatus = iota
	DeleteStatusDeleted
)

// DeleteResult is what the store reports after a soft delete attempt.
type DeleteResult struct {
	Status  DeleteStatus
	Message string
}
