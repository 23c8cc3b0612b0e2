package model

import "time"

type FolderType string

const (
	FolderTypeNotes FolderType = "notes"
	FolderTypeDiet  FolderType = "diet"
)

const (
	DefaultFolderColor = "blue"
	DefaultFolderIcon  = "folder"
)

type Folder struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Type      FolderType `json:"type"`
	Color     string     `json:"color"`
	Icon      string     `json:"icon"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
