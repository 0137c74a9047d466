package main

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"GamerReviewsAPI/internal/model"
	"GamerReviewsAPI/internal/repository"
	"GamerReviewsAPI/internal/services"
	"GamerReviewsAPI/internal/storage"

	"github.com/asaskevich/govalidator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	msgCreated        = "Juego agregado correctamente"
	msgEdited         = "Juego editado correctamente"
	msgDeleted        = "Juego dado de baja correctamente"
	msgAlreadyExists  = "El juego ya existe"
	msgNotFoundOrGone = "Juego no encontrado o dado de baja"
	msgNotFound       = "Juego no encontrado"
	msgDeleteNotFound = "No encontrado"
	msgUnknown        = "Error desconocido"
	msgInvalidDate    = "Fecha inválida, usar AAAA-MM-DD"
)

func reply(c echo.Context, code int, message string) error {
	return c.JSON(code, model.NewBaseResponse(code, message))
}

func replyData[T any](c echo.Context, data T) error {
	return c.JSON(http.StatusOK, model.NewDataResponse(http.StatusOK, "OK", data))
}

// parseGameForm reads the editable game fields. dateField is fechaCreacion on
// create and fechaPublicacion on edit; a blank date is left nil.
func parseGameForm(c echo.Context, dateField string) (services.GameInput, error) {
	in := services.GameInput{
		Name:        c.FormValue("nombre"),
		Description: c.FormValue("descripcion"),
		Developer:   c.FormValue("desarrollador"),
		Publisher:   c.FormValue("editor"),
		Platform:    c.FormValue("plataforma"),
	}
	if raw := strings.TrimSpace(c.FormValue(dateField)); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return in, &services.ValidationError{Field: dateField, Message: msgInvalidDate}
		}
		in.PublishedAt = &d
	}
	return in, nil
}

// parseID accepts a positive decimal id, surrounding blanks ignored.
func parseID(raw string) (int64, bool) {
	id, err := govalidator.ToInt(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formImage returns the optional "imagen" part; nil when absent or empty.
func formImage(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("imagen")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	return fh, nil
}

func imageFailure(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrInvalidImage) {
		return reply(c, http.StatusBadRequest, err.Error())
	}
	return reply(c, http.StatusInternalServerError, err.Error())
}

// discardImage deletes a stored image. Failures are logged only.
func discardImage(c echo.Context, images services.ImageStorage, url string) {
	if url == "" {
		return
	}
	if err := images.DeleteImageByURL(c.Request().Context(), url); err != nil {
		c.Logger().Warnf("could not delete image %s: %v", url, err)
	}
}

func writeFailure(c echo.Context, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return reply(c, http.StatusBadRequest, verr.Error())
	}
	return reply(c, http.StatusInternalServerError, err.Error())
}

// registerGameRoutes mounts the game resource under <g>/juego.
//
//	POST   /create-juego              -> create (form + optional imagen)
//	GET    /get-all-games             -> every active game
//	GET    /get-one-game?game_id=     -> one game
//	GET    /get-all-games-lazy        -> paginated summaries (?page=&limit=)
//	PATCH  /edit-game                 -> full edit (form + optional imagen, imagenVieja)
//	DELETE /delete-juego?id=          -> soft delete
//	GET    /get-my-games/:usuarioId   -> games owned by a user
//	GET    /get-ranking               -> top games by review score
func registerGameRoutes(g *echo.Group, gs *services.GameService, images services.ImageStorage) {
	j := g.Group("/juego")

	j.POST("/create-juego", func(c echo.Context) error {
		ctx := c.Request().Context()

		in, err := parseGameForm(c, "fechaCreacion")
		if err != nil {
			return writeFailure(c, err)
		}
		if raw := strings.TrimSpace(c.FormValue("usuarioId")); raw != "" {
			owner, ok := parseID(raw)
			if !ok {
				return reply(c, http.StatusBadRequest, "usuarioId inválido")
			}
			in.OwnerID = owner
		}
		if err := gs.Validate(in); err != nil {
			return writeFailure(c, err)
		}

		fh, err := formImage(c)
		if err != nil {
			return reply(c, http.StatusBadRequest, err.Error())
		}
		if fh != nil {
			url, err := images.SaveImage(ctx, fh, services.ImageCategoryGames)
			if err != nil {
				return imageFailure(c, err)
			}
			in.ImageURL = url
		}

		outcome, err := gs.AddGame(ctx, in)
		if outcome != services.OutcomeOK {
			discardImage(c, images, in.ImageURL)
		}
		if err != nil {
			return writeFailure(c, err)
		}

		switch outcome {
		case services.OutcomeOK:
			return reply(c, http.StatusOK, msgCreated)
		case services.OutcomeAlreadyExists:
			return reply(c, http.StatusBadRequest, msgAlreadyExists)
		default:
			return reply(c, http.StatusInternalServerError, msgUnknown)
		}
	})

	j.GET("/get-all-games", func(c echo.Context) error {
		list, err := gs.ListGames(c.Request().Context())
		if err != nil {
			return reply(c, http.StatusInternalServerError, err.Error())
		}
		return replyData(c, list)
	})

	j.GET("/get-one-game", func(c echo.Context) error {
		id, ok := parseID(c.QueryParam("game_id"))
		if !ok {
			return reply(c, http.StatusNotFound, msgNotFound)
		}
		game, err := gs.GetGame(c.Request().Context(), id)
		if err != nil {
			if !errors.Is(err, repository.ErrGameNotFound) {
				c.Logger().Errorf("loading game %d: %v", id, err)
			}
			return reply(c, http.StatusNotFound, msgNotFound)
		}
		return replyData(c, game)
	})

	j.GET("/get-all-games-lazy", func(c echo.Context) error {
		page, err := strconv.Atoi(c.QueryParam("page"))
		if err != nil {
			page = services.DefaultPage
		}
		limit, err := strconv.Atoi(c.QueryParam("limit"))
		if err != nil {
			limit = services.DefaultPageSize
		}
		rows, err := gs.ListGamesPage(c.Request().Context(), page, limit)
		if err != nil {
			return reply(c, http.StatusInternalServerError, err.Error())
		}
		return replyData(c, rows)
	})

	j.PATCH("/edit-game", func(c echo.Context) error {
		ctx := c.Request().Context()

		id, ok := parseID(c.FormValue("juegoId"))
		if !ok {
			return reply(c, http.StatusBadRequest, "juegoId inválido")
		}
		in, err := parseGameForm(c, "fechaPublicacion")
		if err != nil {
			return writeFailure(c, err)
		}
		if err := gs.Validate(in); err != nil {
			return writeFailure(c, err)
		}

		fh, err := formImage(c)
		if err != nil {
			return reply(c, http.StatusBadRequest, err.Error())
		}
		if fh != nil {
			url, err := images.SaveImage(ctx, fh, services.ImageCategoryGames)
			if err != nil {
				return imageFailure(c, err)
			}
			in.ImageURL = url
		}

		outcome, err := gs.EditGame(ctx, id, in)
		if outcome == services.OutcomeOK {
			// the old image only goes once the new one is attached
			if in.ImageURL != "" {
				discardImage(c, images, strings.TrimSpace(c.FormValue("imagenVieja")))
			}
		} else {
			discardImage(c, images, in.ImageURL)
		}
		if err != nil {
			return writeFailure(c, err)
		}

		switch outcome {
		case services.OutcomeOK:
			return reply(c, http.StatusOK, msgEdited)
		case services.OutcomeNotFoundOrInactive:
			return reply(c, http.StatusBadRequest, msgNotFoundOrGone)
		case services.OutcomeAlreadyExists:
			return reply(c, http.StatusBadRequest, msgAlreadyExists)
		default:
			return reply(c, http.StatusInternalServerError, msgUnknown)
		}
	})

	j.DELETE("/delete-juego", func(c echo.Context) error {
		id, ok := parseID(c.QueryParam("id"))
		if !ok {
			return reply(c, http.StatusBadRequest, msgDeleteNotFound)
		}
		res, err := gs.DeleteGame(c.Request().Context(), id)
		if err != nil {
			return reply(c, http.StatusInternalServerError, err.Error())
		}
		if res.Status == model.DeleteStatusDeleted {
			return reply(c, http.StatusOK, msgDeleted)
		}
		if res.Message == "" {
			res.Message = msgDeleteNotFound
		}
		return reply(c, http.StatusBadRequest, res.Message)
	})

	j.GET("/get-my-games/:usuarioId", func(c echo.Context) error {
		owner, ok := parseID(c.Param("usuarioId"))
		if !ok {
			return reply(c, http.StatusBadRequest, "usuarioId inválido")
		}
		list, err := gs.ListGamesByOwner(c.Request().Context(), owner)
		if err != nil {
			return writeFailure(c, err)
		}
		return replyData(c, list)
	})

	j.GET("/get-ranking", func(c echo.Context) error {
		rows, err := gs.Ranking(c.Request().Context())
		if err != nil {
			return reply(c, http.StatusInternalServerError, err.Error())
		}
		return replyData(c, rows)
	})
}
