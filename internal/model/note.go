package model

import "time"

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FolderID  *string   `json:"folderId"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// NoteMedia points at a blob in object storage. The signed URL is never
// stored; see MediaWithURL.
type NoteMedia struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	UserID    string    `json:"userId"`
	MediaKey  string    `json:"mediaKey"`
	MediaType MediaType `json:"mediaType"`
	Filename  string    `json:"filename"`
	FileSize  *int64    `json:"fileSize"`
	CreatedAt time.Time `json:"createdAt"`
}

type MediaWithURL struct {
	NoteMedia
	URL string `json:"url"`
}
