package main

import (
	"GamerReviewsAPI/internal/storage"

	"github.com/labstack/echo/v4"
)

// registerStaticRoutes serves uploaded images from the local upload folder.
func registerStaticRoutes(e *echo.Echo, uploadDir string) {
	e.Static(storage.URLPrefix, uploadDir)
}
