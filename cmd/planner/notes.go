package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage notes and their attachments",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, optionally within one folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		screen := view.NewNotesScreen(api, logger)
		if prefix, _ := cmd.Flags().GetString("folder"); prefix != "" {
			folderID, err := resolveFolder(ctx, prefix)
			if err != nil {
				return err
			}
			screen.SelectedFolderID = folderID
		}
		if err := screen.Load(ctx); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Print(view.RenderNotes(screen))
		return nil
	},
}

var notesShowCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a note with rendered markdown and attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNote(ctx, args[0])
		if err != nil {
			return err
		}
		note, err := api.GetNote(ctx, id)
		if err != nil {
			return err
		}
		media, err := api.ListMedia(ctx, id)
		if err != nil {
			logger.Warn("failed to list media", "note_id", id, "error", err)
		}
		fmt.Print(view.RenderNoteDetail(*note, media))
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a note",
	Long:  `Create a note. Content comes from --content or --file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		content, _, err := contentFromFlags(cmd)
		if err != nil {
			return err
		}

		screen := view.NewNotesScreen(api, logger)
		if prefix, _ := cmd.Flags().GetString("folder"); prefix != "" {
			if screen.SelectedFolderID, err = resolveFolder(ctx, prefix); err != nil {
				return err
			}
		}
		screen.OpenEditor(nil)
		if err := screen.SaveNote(ctx, args[0], content, tagsFromFlag(cmd)); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(fmt.Sprintf("%s (%s)", screen.Notice, screen.Notes[0].ID)))
		return nil
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Change a note's title, content or tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNote(ctx, args[0])
		if err != nil {
			return err
		}
		note, err := api.GetNote(ctx, id)
		if err != nil {
			return err
		}

		title := note.Title
		if cmd.Flags().Changed("title") {
			title, _ = cmd.Flags().GetString("title")
		}
		content := ""
		if note.Content != nil {
			content = *note.Content
		}
		if c, ok, err := contentFromFlags(cmd); err != nil {
			return err
		} else if ok {
			content = c
		}
		tags := note.Tags
		if cmd.Flags().Changed("tags") {
			tags = tagsFromFlag(cmd)
		}

		screen := view.NewNotesScreen(api, logger)
		screen.Notes = []model.Note{*note}
		screen.OpenEditor(note)
		if err := screen.SaveNote(ctx, title, content, tags); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Delete a note and its attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNote(ctx, args[0])
		if err != nil {
			return err
		}
		screen := view.NewNotesScreen(api, logger)
		if err := screen.DeleteNote(ctx, id); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

var notesAttachCmd = &cobra.Command{
	Use:   "attach <note-id-prefix> <file>",
	Short: "Upload an image or video to a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveNote(ctx, args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		m, err := api.UploadMedia(ctx, id, filepath.Base(args[1]), "", f)
		if err != nil {
			return err
		}
		fmt.Println(view.Success(fmt.Sprintf("Attached %s (%s)", m.Filename, m.MediaType)))
		return nil
	},
}

func resolveNote(ctx context.Context, prefix string) (string, error) {
	notes, err := api.ListNotes(ctx, "")
	if err != nil {
		return "", err
	}
	return resolveID("note", prefix, notes, func(n model.Note) string { return n.ID })
}

func resolveFolder(ctx context.Context, prefix string) (string, error) {
	folders, err := api.ListFolders(ctx, "")
	if err != nil {
		return "", err
	}
	return resolveID("folder", prefix, folders, func(f model.Folder) string { return f.ID })
}

// contentFromFlags reads --content or --file. ok is false when neither is set.
func contentFromFlags(cmd *cobra.Command) (content string, ok bool, err error) {
	if cmd.Flags().Changed("content") {
		content, _ = cmd.Flags().GetString("content")
		return content, true, nil
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}
	return "", false, nil
}

func tagsFromFlag(cmd *cobra.Command) []string {
	raw, _ := cmd.Flags().GetString("tags")
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func init() {
	notesListCmd.Flags().String("folder", "", "folder id prefix")

	notesAddCmd.Flags().String("folder", "", "folder id prefix")
	notesAddCmd.Flags().String("content", "", "note content (markdown)")
	notesAddCmd.Flags().String("file", "", "read content from file")
	notesAddCmd.Flags().String("tags", "", "comma-separated tags")

	notesEditCmd.Flags().String("title", "", "new title")
	notesEditCmd.Flags().String("content", "", "new content (markdown)")
	notesEditCmd.Flags().String("file", "", "read new content from file")
	notesEditCmd.Flags().String("tags", "", "comma-separated tags, replacing the current ones")

	notesCmd.AddCommand(notesListCmd, notesShowCmd, notesAddCmd, notesEditCmd, notesRmCmd, notesAttachCmd)
	rootCmd.AddCommand(notesCmd)
}
