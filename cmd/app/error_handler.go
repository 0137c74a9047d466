package main

import (
	"fmt"
	"net/http"

	"GamerReviewsAPI/internal/model"
	"GamerReviewsAPI/internal/storage"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// newHTTPErrorHandler renders errors raised by echo itself (unknown routes,
// body limit, recovered panics) in the same envelope the handlers use.
// An oversized body can only be an oversized image, so it is answered like
// one rejected by the image storage.
func newHTTPErrorHandler(maxUploadBytes int64) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		}

		if code == http.StatusRequestEntityTooLarge {
			code = http.StatusBadRequest
			message = errors.WithMessagef(storage.ErrInvalidImage, "la solicitud supera el máximo de %s",
				humanize.Bytes(uint64(maxUploadBytes))).Error()
		}
		if code >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, model.NewBaseResponse(code, message))
		}
		if werr != nil {
			c.Logger().Error(werr)
		}
	}
}
