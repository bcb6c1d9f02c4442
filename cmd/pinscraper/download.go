package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pinscraper/pkg/config"
	"pinscraper/pkg/errors"
	"pinscraper/pkg/logger"
	"pinscraper/pkg/pinterest"
	"pinscraper/pkg/scraper"
	"pinscraper/pkg/ui"
)

var (
	// Download command flags
	force      bool
	saveFolder string
	concurrent int
	timeout    int
	maxPages   int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <path>",
	Short: "Download all boards of a Pinterest user",
	Long: `Download the image and video contents of every board of a Pinterest
user.

The path argument is the username as it appears in the profile URL;
leading and trailing slashes are stripped. Files that already exist are
skipped unless --force is given.`,
	Example: `  # Download all boards of a user into ./download
  pinscraper download johndoe

  # Download into a specific folder, re-downloading existing files
  pinscraper download johndoe --save-folder ./boards --force

  # Limit concurrency and tighten the request timeout
  pinscraper download johndoe --concurrent 1 --timeout 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDownload(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().BoolVarP(&force, "force", "f", false, "force re-download, overwrite existing files")
	downloadCmd.Flags().StringVarP(&saveFolder, "save-folder", "s", "download", "folder where boards are saved")
	downloadCmd.Flags().IntVar(&concurrent, "concurrent", 3, "number of concurrent downloads per board")
	downloadCmd.Flags().IntVar(&timeout, "timeout", 30, "request timeout in seconds")
	downloadCmd.Flags().IntVar(&maxPages, "max-pages", 10000, "maximum feed pages per board")
}

func runDownload(cmd *cobra.Command, args []string) {
	path := pinterest.SanitizePath(args[0])
	if path == "" {
		ui.PrintError("Path argument cannot be empty")
		os.Exit(1)
	}

	// Build flags map from command line, only passing values the user
	// changed so environment variables keep their precedence
	flags := make(map[string]interface{})
	if force {
		flags["force"] = true
	}
	if saveFolder != "download" {
		flags["save-folder"] = saveFolder
	}
	if concurrent != 3 {
		flags["concurrent"] = concurrent
	}
	if timeout != 30 {
		flags["timeout"] = time.Duration(timeout) * time.Second
	}
	if maxPages != 10000 {
		flags["max-pages"] = maxPages
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("Pinscraper starting")

	ui.PrintInfo("Downloading from", path)

	// A user-initiated stop cancels pagination and in-flight downloads
	// instead of draining remaining iterations
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scraper.New(cfg)

	summary, err := s.DownloadAll(ctx, path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Error("Download failed")
		if errors.IsFatal(err) {
			ui.PrintError("DOWNLOAD FAILED", err.Error())
		} else {
			// Transport failure or a user-initiated stop
			ui.PrintError("DOWNLOAD INTERRUPTED", err.Error())
		}
		os.Exit(1)
	}

	if summary.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf("Completed with %d failed resources (%d downloaded, %d skipped)",
			summary.Failed, summary.Downloaded, summary.Skipped))
		os.Exit(1)
	}

	logger.WithField("path", path).Info("Download completed successfully")
	ui.PrintSuccess(fmt.Sprintf("Done: %d boards, %d downloaded, %d skipped",
		summary.Boards, summary.Downloaded, summary.Skipped))
}

// Make download the default command so "pinscraper <username>" works
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !isKnownCommand(args[0]) {
			return downloadCmd.RunE(downloadCmd, args)
		}
		return cmd.Help()
	}

	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
