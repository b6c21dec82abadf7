package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
)

var propertyID int

// writebackCmd represents the writeback command
var writebackCmd = &cobra.Command{
	Use:   "writeback <item-id> <dsp-uri>",
	Short: "Add a DSP resource URI to an Omeka item",
	Long: `Append a DSP resource URI to an Omeka item as a literal value.

The value goes to the item's field for the given property (default
DSP_PROPERTY_ID). Existing values are kept; the new value is appended.
With --dry-run the change is logged but not sent.`,
	Args: cobra.ExactArgs(2),
	RunE: runWriteback,
}

func init() {
	writebackCmd.Flags().IntVarP(&propertyID, "property", "p", 0, "property id (overrides DSP_PROPERTY_ID)")
}

func runWriteback(cmd *cobra.Command, args []string) error {
	itemID, err := parseItemID(args[0])
	if err != nil {
		return err
	}

	prop := cfg.Omeka.DSPPropertyID
	if cmd.Flags().Changed("property") {
		if propertyID <= 0 {
			return fmt.Errorf("invalid property id: %d", propertyID)
		}
		prop = propertyID
	}

	err = operations.WriteBack(cmd.Context(), collection.WriteBackOptions{
		ItemID:     itemID,
		PropertyID: prop,
		URI:        args[1],
		DryRun:     cfg.Safety.DryRun,
	})
	if err != nil {
		return err
	}

	if cfg.Safety.DryRun {
		fmt.Printf("[DRY RUN] Would add %s to item %d\n", args[1], itemID)
		return nil
	}
	fmt.Printf("✓ Added %s to item %d\n", args[1], itemID)
	return nil
}
