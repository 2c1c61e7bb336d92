package catalog

import (
	"errors"
	"net/http"

	"bookmyseat/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListMovies handles GET /movies with optional search, genre and
// language query parameters.
func (c *Controller) ListMovies(ctx *gin.Context) {
	filter := MovieFilter{
		Search: ctx.Query("search"),
	}

	if genreParam := ctx.Query("genre"); genreParam != "" {
		genreID, err := uuid.Parse(genreParam)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid genre id", nil)
			return
		}
		filter.GenreID = &genreID
	}

	if languageParam := ctx.Query("language"); languageParam != "" {
		languageID, err := uuid.Parse(languageParam)
		if err != nil {
			response.Error(ctx, http.StatusBadRequest, "Invalid language id", nil)
			return
		}
		filter.LanguageID = &languageID
	}

	movies, err := c.service.ListMovies(ctx.Request.Context(), filter)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list movies", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movies retrieved successfully", gin.H{
		"movies": movies,
		"count":  len(movies),
	})
}

func (c *Controller) GetMovie(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid movie id", nil)
		return
	}

	movie, err := c.service.GetMovie(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get movie", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movie retrieved successfully", movie)
}

// ListTheaters handles GET /movies/:id/theaters.
func (c *Controller) ListTheaters(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid movie id", nil)
		return
	}

	theaters, err := c.service.ListTheatersByMovie(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to list theaters", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Theaters retrieved successfully", gin.H{
		"theaters": theaters,
		"count":    len(theaters),
	})
}

func (c *Controller) ListGenres(ctx *gin.Context) {
	genres, err := c.service.ListGenres(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list genres", nil)
		return
	}
	response.Success(ctx, http.StatusOK, "Genres retrieved successfully", genres)
}

func (c *Controller) ListLanguages(ctx *gin.Context) {
	languages, err := c.service.ListLanguages(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list languages", nil)
		return
	}
	response.Success(ctx, http.StatusOK, "Languages retrieved successfully", languages)
}

func (c *Controller) CreateGenre(ctx *gin.Context) {
	var req CreateGenreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	genre, err := c.service.CreateGenre(ctx.Request.Context(), req.Name)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create genre", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Genre created successfully", genre)
}

func (c *Controller) CreateLanguage(ctx *gin.Context) {
	var req CreateLanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	language, err := c.service.CreateLanguage(ctx.Request.Context(), req.Name)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create language", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Language created successfully", language)
}

func (c *Controller) CreateMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	movie, err := movieFromRequest(req.Name, req.ImageURL, req.Rating, req.GenreID, req.LanguageID, req.Cast, req.Description, req.TrailerURL)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := c.service.CreateMovie(ctx.Request.Context(), movie); err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to create movie", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Movie created successfully", movie)
}

func (c *Controller) UpdateMovie(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid movie id", nil)
		return
	}

	var req UpdateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	movie, err := movieFromRequest(req.Name, req.ImageURL, req.Rating, req.GenreID, req.LanguageID, req.Cast, req.Description, req.TrailerURL)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, err.Error(), nil)
		return
	}
	movie.ID = movieID

	if err := c.service.UpdateMovie(ctx.Request.Context(), movie); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to update movie", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movie updated successfully", movie)
}

func (c *Controller) DeleteMovie(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid movie id", nil)
		return
	}

	if err := c.service.DeleteMovie(ctx.Request.Context(), movieID); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to delete movie", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movie deleted successfully", nil)
}

func (c *Controller) CreateTheater(ctx *gin.Context) {
	var req CreateTheaterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid movie id", nil)
		return
	}

	theater := &Theater{
		Name:     req.Name,
		MovieID:  movieID,
		ShowTime: req.ShowTime,
	}

	if err := c.service.CreateTheater(ctx.Request.Context(), theater); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to create theater", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Theater created successfully", theater)
}

func movieFromRequest(name, imageURL string, rating float64, genreID, languageID, cast, description, trailerURL string) (*Movie, error) {
	movie := &Movie{
		Name:        name,
		ImageURL:    imageURL,
		Rating:      rating,
		Cast:        cast,
		Description: description,
		TrailerURL:  trailerURL,
	}

	if genreID != "" {
		id, err := uuid.Parse(genreID)
		if err != nil {
			return nil, errors.New("invalid genre id")
		}
		movie.GenreID = &id
	}
	if languageID != "" {
		id, err := uuid.Parse(languageID)
		if err != nil {
			return nil, errors.New("invalid language id")
		}
		movie.LanguageID = &id
	}

	return movie, nil
}
