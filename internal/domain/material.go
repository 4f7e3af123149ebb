package domain

import "time"

type MaterialType string

const (
	MaterialBook      MaterialType = "Book"
	MaterialDVD       MaterialType = "DVD"
	MaterialMagazine  MaterialType = "Magazine"
	MaterialEBook     MaterialType = "E-book"
	MaterialAudiobook MaterialType = "Audiobook"
	MaterialJournal   MaterialType = "Journal"
	MaterialCD        MaterialType = "CD"
	MaterialGame      MaterialType = "Game"
)

type Material struct {
	ID              int32        `json:"id"`
	ISBN            string       `json:"isbn,omitempty"`
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle,omitempty"`
	PublicationYear int32        `json:"publication_year,omitempty"`
	Language        string       `json:"language"`
	Pages           int32        `json:"pages,omitempty"`
	MaterialType    MaterialType `json:"material_type"`
	Description     string       `json:"description,omitempty"`
	CoverImageURL   string       `json:"cover_image_url,omitempty"`
	CreatedDate     time.Time    `json:"created_date"`
}

type Branch struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	CreatedDate  time.Time `json:"created_date"`
}
