package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/linkeddata"
	"github.com/Stadt-Geschichte-Basel/omeka2dsp/omeka"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the item set's metadata",
	Long: `Export the metadata of the matching items.

Formats:
  json    flattened records
  nquads  the items' JSON-LD converted to RDF N-Quads`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or nquads")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "json" && exportFormat != "nquads" {
		return fmt.Errorf("invalid format %q (must be json or nquads)", exportFormat)
	}

	records, err := listRecords(cmd, exportFormat == "json")
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch exportFormat {
	case "nquads":
		err = writeNQuads(out, records)
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(records)
	}
	if err != nil {
		return err
	}

	logger.Info().
		Int("items", len(records)).
		Str("format", exportFormat).
		Str("output", exportOutput).
		Msg("Export complete")

	return nil
}

func writeNQuads(w io.Writer, records []collection.Record) error {
	resources := make([]omeka.Resource, 0, len(records))
	for _, rec := range records {
		resources = append(resources, rec.Resource())
	}

	converter := linkeddata.NewConverter(omekaClient.HTTPClient(), logger)
	nquads, err := converter.ToNQuads(resources)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, nquads)
	return err
}
