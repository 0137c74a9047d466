package repository

import (
	"context"
	"testing"
	"time"

	"GamerReviewsAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/suite"
)

type GameRepositorySuite struct {
	suite.Suite
	mock pgxmock.PgxPoolIface
	repo *GameRepository
}

func (suite *GameRepositorySuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	suite.Require().NoError(err)
	suite.mock = mock
	suite.repo = NewGameRepository(mock)
}

func (suite *GameRepositorySuite) TearDownTest() {
	suite.Require().NoError(suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

var gameCols = []string{"juego_id", "nombre", "descripcion", "fecha_publicacion", "desarrollador", "editor",
	"plataforma", "imagen_url", "activo", "usuario_id", "fecha_alta"}

func sampleGame() *model.Game {
	return &model.Game{
		Name:        "Chrono Trigger",
		Description: "RPG",
		PublishedAt: model.NewDate(time.Date(1995, 3, 11, 0, 0, 0, 0, time.UTC)),
		Developer:   "Square",
		Publisher:   "Square",
		Platform:    "SNES",
	}
}

func (suite *GameRepositorySuite) TestNameExists() {
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Chrono Trigger", int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.NameExists(context.Background(), "Chrono Trigger", 4)
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *GameRepositorySuite) TestCreateGame() {
	g := sampleGame()
	suite.mock.ExpectQuery(`INSERT INTO juegos`).
		WithArgs("Chrono Trigger", "RPG", g.PublishedAt.Time, "Square", "Square", "SNES",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"juego_id"}).AddRow(int64(12)))

	id, err := suite.repo.CreateGame(context.Background(), g)
	suite.Require().NoError(err)
	suite.Equal(int64(12), id)
	suite.Equal(int64(12), g.GameID)
	suite.True(g.Active)
}

func (suite *GameRepositorySuite) TestCreateGameUniqueViolation() {
	suite.mock.ExpectQuery(`INSERT INTO juegos`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := suite.repo.CreateGame(context.Background(), sampleGame())
	suite.ErrorIs(err, ErrDuplicateName)
}

func (suite *GameRepositorySuite) TestUpdateGameNotFound() {
	g := sampleGame()
	g.GameID = 99
	suite.mock.ExpectExec(`UPDATE juegos\s+SET nombre`).
		WithArgs("Chrono Trigger", "RPG", g.PublishedAt.Time, "Square", "Square", "SNES", pgxmock.AnyArg(), int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateGame(context.Background(), g)
	suite.ErrorIs(err, ErrGameNotFound)
}

func (suite *GameRepositorySuite) TestGetByID() {
	published := time.Date(1995, 3, 11, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	suite.mock.ExpectQuery(`FROM juegos WHERE juego_id=\$1 AND activo`).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(gameCols).
			AddRow(int64(3), "Chrono Trigger", "RPG", published, "Square", "Square", "SNES",
				"/uploads/games/a.png", true, int64(8), created))

	g, err := suite.repo.GetByID(context.Background(), 3)
	suite.Require().NoError(err)
	suite.Equal(int64(3), g.GameID)
	suite.Equal("1995-03-11", g.PublishedAt.String())
	suite.Equal("/uploads/games/a.png", g.ImageURL)
	suite.Equal(int64(8), g.OwnerID)
}

func (suite *GameRepositorySuite) TestGetByIDNotFound() {
	suite.mock.ExpectQuery(`FROM juegos WHERE juego_id=\$1 AND activo`).
		WithArgs(int64(9999)).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(context.Background(), 9999)
	suite.ErrorIs(err, ErrGameNotFound)
}

func (suite *GameRepositorySuite) TestListSummaries() {
	published := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.mock.ExpectQuery(`LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 20).
		WillReturnRows(pgxmock.NewRows([]string{"juego_id", "nombre", "plataforma", "imagen_url", "fecha_publicacion"}).
			AddRow(int64(21), "Doom", "PC", "", published).
			AddRow(int64(22), "Quake", "PC", "", published))

	rows, err := suite.repo.ListSummaries(context.Background(), 20, 20)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("Doom", rows[0].Name)
	suite.Equal(int64(22), rows[1].GameID)
}

func (suite *GameRepositorySuite) TestListSummariesRejectsNegativeOffset() {
	_, err := suite.repo.ListSummaries(context.Background(), 20, -40)
	suite.ErrorIs(err, ErrInvalidPage)
}

func (suite *GameRepositorySuite) TestDeactivateGame() {
	suite.mock.ExpectExec(`UPDATE juegos SET activo = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE juegos SET activo = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	res, err := suite.repo.DeactivateGame(context.Background(), 7)
	suite.Require().NoError(err)
	suite.Equal(model.DeleteStatusDeleted, res.Status)

	res, err = suite.repo.DeactivateGame(context.Background(), 7)
	suite.Require().NoError(err)
	suite.Equal(model.DeleteStatusNotFound, res.Status)
	suite.NotEmpty(res.Message)
}

func (suite *GameRepositorySuite) TestRanking() {
	suite.mock.ExpectQuery(`FROM juegos j\s+JOIN resenas r`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows([]string{"juego_id", "nombre", "imagen_url", "plataforma", "promedio", "total"}).
			AddRow(int64(2), "Chrono Trigger", "", "SNES", 9.5, int64(4)).
			AddRow(int64(1), "Doom", "", "PC", 8.0, int64(2)))

	rows, err := suite.repo.Ranking(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal(1, rows[0].Position)
	suite.Equal(4, rows[0].ReviewCount)
	suite.Equal(2, rows[1].Position)
}

func TestGameRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameRepositorySuite))
}
