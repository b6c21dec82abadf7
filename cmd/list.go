package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/filter"
)

var (
	filterExpr  string
	showMedia   bool
	showDetails bool
	jsonOutput  bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the items of the item set",
	Long: `List the items of the configured item set, optionally narrowed by a
filter expression.

Examples:
  omeka2dsp list --filter 'hasSubject("Basel")'
  omeka2dsp list --media --filter 'len(Media) == 0'
  omeka2dsp list --filter 'year() < 1900 and hasProperty(15)'`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().BoolVarP(&showMedia, "media", "m", false, "fetch and show media of each item")
	listCmd.Flags().BoolVar(&showDetails, "details", false, "show descriptive metadata")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "print records as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	records, err := listRecords(cmd, showMedia)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	formatter := collection.NewConsoleFormatter()
	fmt.Print(formatter.FormatRecordList(records, collection.FormatOptions{
		ShowDetails: showDetails,
		ShowMedia:   showMedia,
	}))

	return nil
}

// listRecords fetches the item set's records matching --filter
func listRecords(cmd *cobra.Command, withMedia bool) ([]collection.Record, error) {
	match, err := filter.Match(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Info().
		Str("item_set_id", cfg.Omeka.ItemSetID).
		Str("filter", filterExpr).
		Msg("Fetching items")

	records := operations.ListRecords(cmd.Context(), collection.ListOptions{
		ItemSetID: cfg.Omeka.ItemSetID,
		WithMedia: withMedia,
		Filter:    match,
	})

	logger.Info().Int("count", len(records)).Msg("Items matched")

	return records, nil
}
