package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Manage note and diet folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folderType, _ := cmd.Flags().GetString("type")
		folders, err := api.ListFolders(cmd.Context(), model.FolderType(folderType))
		if err != nil {
			return err
		}
		fmt.Print(view.RenderFolders(folders, ""))
		return nil
	},
}

var foldersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folderType, _ := cmd.Flags().GetString("type")
		color, _ := cmd.Flags().GetString("color")
		icon, _ := cmd.Flags().GetString("icon")

		f, err := api.CreateFolder(cmd.Context(), client.FolderInput{
			Name:  args[0],
			Type:  model.FolderType(folderType),
			Color: color,
			Icon:  icon,
		})
		if err != nil {
			return err
		}
		fmt.Println(view.Success(fmt.Sprintf("Created folder %s (%s)", f.Name, f.ID)))
		return nil
	},
}

var foldersRmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Delete a folder with its notes, diet entries and media",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		folders, err := api.ListFolders(ctx, "")
		if err != nil {
			return err
		}
		id, err := resolveID("folder", args[0], folders, func(f model.Folder) string { return f.ID })
		if err != nil {
			return err
		}

		screen := view.NewNotesScreen(api, logger)
		screen.Folders = folders
		if err := screen.DeleteFolder(ctx, id); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

func init() {
	foldersListCmd.Flags().String("type", "", "filter by type (notes or diet)")
	foldersAddCmd.Flags().String("type", string(model.FolderTypeNotes), "folder type (notes or diet)")
	foldersAddCmd.Flags().String("color", "", "folder colour")
	foldersAddCmd.Flags().String("icon", "", "folder icon")

	foldersCmd.AddCommand(foldersListCmd, foldersAddCmd, foldersRmCmd)
	rootCmd.AddCommand(foldersCmd)
}
