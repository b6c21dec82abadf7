package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/extract"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

var (
	showPropertyID int
	showMode       string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show a single item",
	Long: `Show the metadata and media of a single Omeka item.

With --property only the first value of that property is printed, rendered
by --mode: "value" for the literal, "label" for the reference label or
"uri" for a markdown link.

Examples:
  omeka2dsp show 12345
  omeka2dsp show 12345 --property 15 --mode uri`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showPropertyID, "property", "p", 0, "print only the value of this property id")
	showCmd.Flags().StringVar(&showMode, "mode", "value", "rendering of --property: value, uri, label")
	showCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the record as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	mode, err := extract.ParseMode(showMode)
	if err != nil {
		return err
	}

	rec, err := operations.Record(cmd.Context(), itemID)
	if err != nil {
		var reqErr *omeka.RequestError
		if errors.As(err, &reqErr) && reqErr.IsNotFound() {
			return fmt.Errorf("item %d not found", itemID)
		}
		return err
	}

	if cmd.Flags().Changed("property") {
		fmt.Println(extract.Property(rec.Resource().AllValues(), showPropertyID, mode))
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	formatter := collection.NewConsoleFormatter()
	fmt.Print(formatter.FormatRecordList([]collection.Record{rec}, collection.FormatOptions{
		ShowDetails: true,
		ShowMedia:   true,
	}))

	return nil
}
