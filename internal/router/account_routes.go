package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
)

// registerAccount mounts the requester-owned resources.
func registerAccount(g *echo.Group, p *handler.ProfileHandler, l *handler.LibraryHandler) {
	g.GET("/users", p.List)
	g.GET("/users/:id", p.Get)
	g.PUT("/users/:id", p.Update)
	g.PATCH("/users/:id", p.Update)
	g.DELETE("/users/:id", p.Delete)

	g.GET("/favorite", l.Favorites)
	g.POST("/favorite", l.CreateFavorite)
	g.GET("/favorite/:id", l.Favorite)
	g.DELETE("/favorite/:id", l.DeleteFavorite)

	g.GET("/favorite_movie", l.FavoriteMovies)
	g.POST("/favorite_movie", l.AddFavoriteMovie)
	g.GET("/favorite_movie/:id", l.FavoriteMovie)
	g.DELETE("/favorite_movie/:id", l.RemoveFavoriteMovie)

	g.GET("/history", l.History)
	g.POST("/history", l.RecordView)
	g.GET("/history/:id", l.HistoryEntry)
	g.DELETE("/history/:id", l.DeleteHistory)
}

// registerContent mounts user-maintained content attached to movies.
func registerContent(g *echo.Group, m *handler.MediaHandler, r *handler.RatingHandler) {
	g.GET("/movie_languages", m.Languages)
	g.POST("/movie_languages", m.CreateLanguage)
	g.GET("/movie_languages/:id", m.Language)
	g.PUT("/movie_languages/:id", m.UpdateLanguage)
	g.PATCH("/movie_languages/:id", m.UpdateLanguage)
	g.DELETE("/movie_languages/:id", m.DeleteLanguage)

	g.GET("/moments", m.Moments)
	g.POST("/moments", m.CreateMoment)
	g.GET("/moments/:id", m.Moment)
	g.PUT("/moments/:id", m.UpdateMoment)
	g.PATCH("/moments/:id", m.UpdateMoment)
	g.DELETE("/moments/:id", m.DeleteMoment)

	g.GET("/rating", r.List)
	g.POST("/rating", r.Create)
	g.GET("/rating/:id", r.Get)
	g.PUT("/rating/:id", r.Update)
	g.PATCH("/rating/:id", r.Update)
	g.DELETE("/rating/:id", r.Delete)
}
