package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Genre struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Language struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Movie struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null;index"`
	ImageURL    string     `json:"image_url"`
	Rating      float64    `json:"rating" gorm:"type:decimal(3,1)"`
	GenreID     *uuid.UUID `json:"genre_id" gorm:"type:uuid;index"`
	LanguageID  *uuid.UUID `json:"language_id" gorm:"type:uuid;index"`
	Cast        string     `json:"cast" gorm:"type:text"`
	Description string     `json:"description" gorm:"type:text"`
	TrailerURL  string     `json:"trailer_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Genre    *Genre    `json:"genre,omitempty" gorm:"foreignKey:GenreID;constraint:OnDelete:SET NULL"`
	Language *Language `json:"language,omitempty" gorm:"foreignKey:LanguageID;constraint:OnDelete:SET NULL"`
}

// Theater is a showing of a movie at a venue and time. Its seats are
// created once at setup and never change for the life of the showing.
type Theater struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	ShowTime  time.Time `json:"show_time" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Movie *Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

// MovieFilter narrows a movie listing. Zero-valued fields are ignored,
// each set field is applied as an independent predicate.
type MovieFilter struct {
	Search     string
	GenreID    *uuid.UUID
	LanguageID *uuid.UUID
}

// IsEmpty reports whether no predicate is set.
func (f MovieFilter) IsEmpty() bool {
	return f.Search == "" && f.GenreID == nil && f.LanguageID == nil
}
