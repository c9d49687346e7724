// Package cfg provides configuration and command-line interface setup for
// Grabarr.
package cfg

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/keys"
	"grabarr/internal/domain/setup"
	"grabarr/internal/utils/logging"
)

var rootCmd = &cobra.Command{
	Use:   "grabarr",
	Short: "Grabarr downloads, trims and transforms videos with yt-dlp and ffmpeg.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.IsSet(keys.ConfigFile) {
			configFile := viper.GetString(keys.ConfigFile)
			info, err := os.Stat(configFile)
			if err != nil {
				return fmt.Errorf("failed check for config file path: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("config file %q is a directory", configFile)
			}
			viper.SetConfigFile(configFile)
			if err := viper.MergeInConfig(); err != nil {
				return fmt.Errorf("failed loading config file: %w", err)
			}
		}

		logging.Level = viper.GetInt(keys.DebugLevel)
		if err := logging.Setup(setup.LogFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "Notice: log file was not created: %v\n", err)
		}
		return nil
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands(ctx context.Context, db *sql.DB) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("grabarr")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	pf := rootCmd.PersistentFlags()
	pf.Int(keys.DebugLevel, 0, "Debug level (0-5)")
	pf.String(keys.ConfigFile, "", "Config file to load settings from")
	pf.String(keys.DownloaderPath, consts.DownloaderName, "Path to the downloader binary")
	pf.String(keys.TranscoderPath, consts.TranscoderName, "Path to the transcoder binary")
	pf.String(keys.ProberPath, consts.ProberName, "Path to the prober binary")
	pf.String(keys.CookieFile, "", "Netscape cookie file passed to the downloader")

	for _, key := range []string{
		keys.DebugLevel, keys.ConfigFile,
		keys.DownloaderPath, keys.TranscoderPath, keys.ProberPath,
		keys.CookieFile,
	} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			logging.E("Failed to bind flag %q: %v", key, err)
		}
	}

	rootCmd.AddCommand(
		initDownloadCmd(ctx, db),
		initPlaylistCmd(ctx, db),
		initTransformCmd(ctx, db),
		initUploadCmd(ctx, db),
		initWatchCmd(ctx, db),
		initServeCmd(ctx, db),
		initHistoryCmd(db),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
