package catalog

import "time"

// create genre request payload
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// create language request payload
type CreateLanguageRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// create movie request payload
type CreateMovieRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	Rating      float64 `json:"rating" binding:"omitempty,min=0,max=10"`
	GenreID     string  `json:"genre_id" binding:"omitempty,uuid"`
	LanguageID  string  `json:"language_id" binding:"omitempty,uuid"`
	Cast        string  `json:"cast"`
	Description string  `json:"description"`
	TrailerURL  string  `json:"trailer_url" binding:"omitempty,url"`
}

// update movie request payload
type UpdateMovieRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
	Rating      float64 `json:"rating" binding:"omitempty,min=0,max=10"`
	GenreID     string  `json:"genre_id" binding:"omitempty,uuid"`
	LanguageID  string  `json:"language_id" binding:"omitempty,uuid"`
	Cast        string  `json:"cast"`
	Description string  `json:"description"`
	TrailerURL  string  `json:"trailer_url" binding:"omitempty,url"`
}

// create theater-showing request payload
type CreateTheaterRequest struct {
	Name     string    `json:"name" binding:"required,min=1,max=255"`
	MovieID  string    `json:"movie_id" binding:"required,uuid"`
	ShowTime time.Time `json:"show_time" binding:"required"`
}
