package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/facematch/internal/album"
	"github.com/handiism/facematch/internal/model"
	"github.com/spf13/cobra"
)

var saveName string

var matchCmd = &cobra.Command{
	Use:   "match TARGET COMPARISON COMPARISON [COMPARISON...]",
	Short: "Match a target photo against comparison photos",
	Long: `Copies the target and comparison photos into the image store, sends them
to the verify endpoint and prints which comparisons show the target's face.

Sources may be plain paths or file:// URIs.

Example:
  facematch match me.jpg beach1.jpg beach2.jpg --save "Beach trip"`,
	Args: cobra.MinimumNArgs(1 + model.MinComparisons),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&saveName, "save", "s", "", "Save the matches as an album with this name")
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	outcome, err := manager.Match(ctx, args[0], args[1:])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Matches (%d):\n", len(outcome.Result.Matches))
	printImages(outcome.Result.Matches, outcome.Comparisons, args[1:])
	fmt.Printf("Non-matches (%d):\n", len(outcome.Result.NonMatches))
	printImages(outcome.Result.NonMatches, outcome.Comparisons, args[1:])

	if saveName == "" {
		return nil
	}

	if _, err := manager.SaveAlbum(ctx, saveName, outcome); err != nil {
		var dup *album.DuplicateNameError
		if errors.As(err, &dup) {
			return fmt.Errorf("%w; choose another --save name", err)
		}
		return err
	}
	return nil
}

// printImages lists stored images next to the source they were copied from.
func printImages(images, stored []model.StoredImage, sources []string) {
	if len(images) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, img := range images {
		source := ""
		for i, s := range stored {
			if s == img {
				source = filepath.Base(sources[i])
				break
			}
		}
		fmt.Printf("  %-24s %s\n", source, manager.RenderablePath(img))
	}
}
