package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var purge bool

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Manage saved albums",
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved albums",
	Args:  cobra.NoArgs,
	RunE:  listAlbums,
}

var albumsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show an album's images",
	Args:  cobra.ExactArgs(1),
	RunE:  showAlbum,
}

var albumsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete an album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return manager.DeleteAlbum(cmd.Context(), args[0], purge)
	},
}

var albumsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every album and stored setting",
	Long: `Clears the whole store: every album and every other value kept there.
Image files stay in the image store; run "facematch prune" to remove them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return manager.ClearAll(cmd.Context())
	},
}

func init() {
	albumsDeleteCmd.Flags().BoolVar(&purge, "purge", false, "Also delete images no other album uses")

	albumsCmd.AddCommand(albumsListCmd)
	albumsCmd.AddCommand(albumsShowCmd)
	albumsCmd.AddCommand(albumsDeleteCmd)
	albumsCmd.AddCommand(albumsClearCmd)
}

func listAlbums(cmd *cobra.Command, args []string) error {
	albums, err := manager.Albums(cmd.Context())
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		fmt.Println("No albums yet.")
		return nil
	}

	for _, a := range albums {
		shown, more := a.Preview(3)
		names := make([]string, len(shown))
		for i, img := range shown {
			names[i] = img.String()
		}
		line := strings.Join(names, ", ")
		if more > 0 {
			line += fmt.Sprintf(" +%d more", more)
		}
		fmt.Printf("%s  (%d matches, %s)\n  %s\n",
			a.Name, len(a.Matches), a.CreatedAt.Local().Format("2006-01-02 15:04"), line)
	}
	return nil
}

func showAlbum(cmd *cobra.Command, args []string) error {
	a, err := manager.Album(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Name:    %s\n", a.Name)
	if a.ID != "" {
		fmt.Printf("ID:      %s\n", a.ID)
	}
	fmt.Printf("Created: %s\n", a.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Target:  %s\n", manager.RenderablePath(a.TargetImage))
	fmt.Printf("Matches (%d):\n", len(a.Matches))
	for _, m := range a.Matches {
		fmt.Printf("  %s\n", manager.RenderablePath(m))
	}
	return nil
}
