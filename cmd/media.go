package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/extract"
)

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:   "media <item-id>",
	Short: "List the media attached to an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runMedia,
}

func runMedia(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	files := operations.Media(cmd.Context(), itemID)
	if len(files) == 0 {
		fmt.Printf("No media found for item %d\n", itemID)
		return nil
	}

	fmt.Printf("\nMedia of item %d (%d):\n\n", itemID, len(files))
	for _, m := range files {
		status := "✓"
		if !extract.IsValidURL(m.URL) {
			status = "✗"
		}
		fmt.Printf("%s [#%d] %s", status, m.ID, m.FileName)
		if m.MediaType != "" {
			fmt.Printf(" (%s", m.MediaType)
			if m.Size > 0 {
				fmt.Printf(", %s", humanize.Bytes(uint64(m.Size)))
			}
			fmt.Print(")")
		}
		fmt.Println()
		if m.URL != "" {
			fmt.Printf("    %s\n", m.URL)
		}
	}

	return nil
}
