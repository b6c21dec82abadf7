package cmd

import (
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/Stadt-Geschichte-Basel/omeka2dsp/config"
)

const repoSlug = "Stadt-Geschichte-Basel/omeka2dsp"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the version information reported by the CLI
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// skipInit replaces the root's config loading for commands that need none
func skipInit(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	PersistentPreRunE: skipInit,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("omeka2dsp %s (built %s, %s %s/%s)\n",
			version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

// selfUpdateCmd represents the self-update command
var selfUpdateCmd = &cobra.Command{
	Use:               "self-update",
	Short:             "Update omeka2dsp to the latest release",
	PersistentPreRunE: skipInit,
	RunE:              runSelfUpdate,
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return fmt.Errorf("error checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		logger.Info().Str("version", current.String()).Msg("Already up to date")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	logger.Info().
		Str("from", current.String()).
		Str("to", latest.Version()).
		Msg("Updating")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error updating binary: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Msg("Successfully updated")
	return nil
}
