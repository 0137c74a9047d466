package services

import (
	"context"
	"mime/multipart"
)

// ImageCategoryGames is the storage folder for game cover images.
const ImageCategoryGames = "games"

type ImageStorage interface {
	SaveImage(ctx context.Context, file *multipart.FileHeader, category string) (string, error)
	DeleteImageByURL(ctx context.Context, url string) error
}
