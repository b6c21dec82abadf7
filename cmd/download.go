package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/collection"
)

var downloadDir string

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the media files of the item set",
	Long: `Download the original media files of every item in the item set that
matches the filter. Files are stored as <dir>/<identifier>/<file name>.

A failed download does not stop the run; failures are reported at the end
and make the command exit non-zero.`,
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	downloadCmd.Flags().StringVarP(&downloadDir, "dir", "o", "", "download directory (overrides DOWNLOAD_DIR)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	dir := cfg.Download.Dir
	if cmd.Flags().Changed("dir") {
		dir = downloadDir
	}

	records, err := listRecords(cmd, true)
	if err != nil {
		return err
	}

	var total collection.DownloadResult
	for _, rec := range records {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		result := operations.DownloadMedia(cmd.Context(), rec, dir)
		logger.Info().
			Int("item_id", rec.ID).
			Str("identifier", rec.Identifier).
			Int("files", len(result.Downloaded)).
			Int("failed", len(result.Failed)).
			Msg("Processed item media")
		total.Add(result)
	}

	fmt.Print(collection.NewConsoleFormatter().FormatDownloadResult(total))

	if len(total.Failed) > 0 {
		return fmt.Errorf("%d of %d downloads failed", len(total.Failed), total.Requested)
	}
	return nil
}
