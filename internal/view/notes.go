// Package view holds explicit client-side screen state and pure render
// functions for the planner CLI.
package view

import (
	"context"
	"log/slog"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type NotesAPI interface {
	ListFolders(ctx context.Context, folderType model.FolderType) ([]model.Folder, error)
	CreateFolder(ctx context.Context, in client.FolderInput) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	ListNotes(ctx context.Context, folderID string) ([]model.Note, error)
	CreateNote(ctx context.Context, in client.NoteInput) (*model.Note, error)
	UpdateNote(ctx context.Context, id string, p client.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// NotesScreen is the notes tab: a folder sidebar, the note list for the
// selected folder and an editor modal.
type NotesScreen struct {
	Folders          []model.Folder
	Notes            []model.Note
	SelectedFolderID string
	Editing          *model.Note
	ModalOpen        bool
	Notice           string

	api    NotesAPI
	logger *slog.Logger
}

func NewNotesScreen(api NotesAPI, logger *slog.Logger) *NotesScreen {
	return &NotesScreen{api: api, logger: logger.With("component", "notes_screen")}
}

// Load fetches folders and the notes of the selected folder. A folder
// failure is logged and leaves the sidebar as it was.
func (s *NotesScreen) Load(ctx context.Context) error {
	folders, err := s.api.ListFolders(ctx, model.FolderTypeNotes)
	if err != nil {
		s.logger.Error("failed to load folders", "error", err)
	} else {
		s.Folders = folders
	}

	notes, err := s.api.ListNotes(ctx, s.SelectedFolderID)
	if err != nil {
		s.Notice = "Could not load notes: " + errorMessage(err)
		return err
	}
	s.Notes = notes
	return nil
}

// SelectFolder switches the note list to folderID. Empty selects all notes.
func (s *NotesScreen) SelectFolder(ctx context.Context, folderID string) error {
	notes, err := s.api.ListNotes(ctx, folderID)
	if err != nil {
		s.Notice = "Could not load notes: " + errorMessage(err)
		return err
	}
	s.SelectedFolderID = folderID
	s.Notes = notes
	return nil
}

// OpenEditor opens the modal on n, or on a blank note when n is nil.
func (s *NotesScreen) OpenEditor(n *model.Note) {
	s.Editing = n
	s.ModalOpen = true
}

func (s *NotesScreen) CloseEditor() {
	s.Editing = nil
	s.ModalOpen = false
}

// SaveNote creates a note in the selected folder, or updates the note being
// edited. The modal closes only once the server confirms.
func (s *NotesScreen) SaveNote(ctx context.Context, title, content string, tags []string) error {
	var (
		saved *model.Note
		err   error
	)
	if s.Editing == nil {
		in := client.NoteInput{Title: title, Content: &content, Tags: tags}
		if s.SelectedFolderID != "" {
			folderID := s.SelectedFolderID
			in.FolderID = &folderID
		}
		saved, err = s.api.CreateNote(ctx, in)
	} else {
		saved, err = s.api.UpdateNote(ctx, s.Editing.ID, client.NotePatch{
			Title:   model.Some(title),
			Content: model.Some(content),
			Tags:    model.Some(tags),
		})
	}
	if err != nil {
		s.Notice = "Could not save note: " + errorMessage(err)
		return err
	}

	s.Notes = upsertNote(s.Notes, *saved, s.SelectedFolderID)
	s.CloseEditor()
	s.Notice = "Saved " + saved.Title
	return nil
}

func (s *NotesScreen) DeleteNote(ctx context.Context, id string) error {
	if err := s.api.DeleteNote(ctx, id); err != nil {
		s.Notice = "Could not delete note: " + errorMessage(err)
		return err
	}
	s.Notes = removeByID(s.Notes, id, func(n model.Note) string { return n.ID })
	if s.Editing != nil && s.Editing.ID == id {
		s.CloseEditor()
	}
	s.Notice = "Note deleted"
	return nil
}

func (s *NotesScreen) CreateFolder(ctx context.Context, name, color string) error {
	f, err := s.api.CreateFolder(ctx, client.FolderInput{Name: name, Type: model.FolderTypeNotes, Color: color})
	if err != nil {
		s.Notice = "Could not create folder: " + errorMessage(err)
		return err
	}
	s.Folders = append(s.Folders, *f)
	s.Notice = "Created folder " + f.Name
	return nil
}

// DeleteFolder removes a folder. Its notes go with it on the server, so the
// note list is cleared when it was selected.
func (s *NotesScreen) DeleteFolder(ctx context.Context, id string) error {
	if err := s.api.DeleteFolder(ctx, id); err != nil {
		s.Notice = "Could not delete folder: " + errorMessage(err)
		return err
	}
	s.Folders = removeByID(s.Folders, id, func(f model.Folder) string { return f.ID })
	if s.SelectedFolderID == id {
		s.SelectedFolderID = ""
		s.Notes = nil
	}
	s.Notes = removeMatching(s.Notes, func(n model.Note) bool { return n.FolderID != nil && *n.FolderID == id })
	s.Notice = "Folder deleted"
	return nil
}

// upsertNote replaces n in notes, or prepends it. A note moved out of the
// selected folder is dropped from the list.
func upsertNote(notes []model.Note, n model.Note, selected string) []model.Note {
	inView := selected == "" || (n.FolderID != nil && *n.FolderID == selected)
	out := make([]model.Note, 0, len(notes)+1)
	found := false
	for _, existing := range notes {
		if existing.ID == n.ID {
			found = true
			if inView {
				out = append(out, n)
			}
			continue
		}
		out = append(out, existing)
	}
	if !found && inView {
		out = append([]model.Note{n}, out...)
	}
	return out
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	return removeMatching(items, func(v T) bool { return idOf(v) == id })
}

func removeMatching[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, v := range items {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}
