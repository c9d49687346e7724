package cfg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"grabarr/internal/app"
	"grabarr/internal/domain/keys"
	"grabarr/internal/models"
	"grabarr/internal/repo"
	"grabarr/internal/server"
	"grabarr/internal/validation"
)

// addJobFlags attaches the per-job tuning flags shared by the download and
// transform commands.
func addJobFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(keys.Quality, "", "Target height (e.g. 480, 720) or 'none' for audio only")
	f.String(keys.TrimStart, "", "Trim window start (HH:MM:SS)")
	f.String(keys.TrimEnd, "", "Trim window end (HH:MM:SS)")
	f.Float64(keys.Volume, 1.0, "Volume multiplier (0.0-2.0)")
	f.Float64(keys.SpeedLimit, 0, "Download speed limit in MB/s (0 = unlimited)")
	f.String(keys.OutputName, "", "Custom output file name (without extension)")
	f.String(keys.DownloadDir, "", "Directory to write output files to")
}

// jobFromFlags builds a Job from command flags layered over the resolved
// settings.
func jobFromFlags(cmd *cobra.Command, target string, kind models.JobKind, settings models.Settings) (*models.Job, error) {
	f := cmd.Flags()

	j := &models.Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Target:     target,
		Quality:    settings.Quality,
		Volume:     settings.Volume,
		SpeedLimit: settings.SpeedLimit,
		OutputName: settings.OutputName,
		OutputDir:  settings.DownloadDir,
		CreatedAt:  time.Now(),
	}

	if f.Changed(keys.Quality) {
		j.Quality, _ = f.GetString(keys.Quality)
	}
	if f.Changed(keys.Volume) {
		v, _ := f.GetFloat64(keys.Volume)
		j.Volume = validation.ClampVolume(v)
	}
	if f.Changed(keys.SpeedLimit) {
		j.SpeedLimit, _ = f.GetFloat64(keys.SpeedLimit)
	}
	if f.Changed(keys.OutputName) {
		name, _ := f.GetString(keys.OutputName)
		j.OutputName = validation.SanitizeFilename(name)
	}
	if f.Changed(keys.DownloadDir) {
		j.OutputDir, _ = f.GetString(keys.DownloadDir)
	}

	trimStart, _ := f.GetString(keys.TrimStart)
	trimEnd, _ := f.GetString(keys.TrimEnd)
	if trimStart != "" || trimEnd != "" {
		start, err := validation.ParseClockTime(trimStart)
		if err != nil {
			return nil, err
		}
		end, err := validation.ParseClockTime(trimEnd)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateTimeRange(start, end, 0); err != nil {
			return nil, err
		}
		j.Trim = &models.TrimRange{Start: start, End: end}
	}

	return j, nil
}

func initDownloadCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [URL]",
		Short: "Download a video or playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if err := validation.ValidateVideoURL(target); err != nil {
				return err
			}

			kind := models.KindSingleDownload
			if validation.IsPlaylistURL(target) {
				kind = models.KindPlaylistDownload
			}

			settings := GetSettings()
			if err := app.CheckDependencies(ctx, settings.Tools); err != nil {
				return err
			}

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			j, err := jobFromFlags(cmd, target, kind, settings)
			if err != nil {
				return err
			}

			// Trim windows get checked against the real duration when the
			// source reports one; unreachable metadata is not fatal.
			if j.TrimEnabled() {
				if md, err := a.Manager().FetchMetadata(ctx, j); err == nil && md.Duration > 0 {
					j.Duration = md.Duration
					if err := validation.ValidateTimeRange(j.Trim.Start, j.Trim.End, md.Duration); err != nil {
						return err
					}
				}
			}

			return a.RunAndWait(ctx, j, a.Manager().StartDownload)
		},
	}
	addJobFlags(cmd)
	return cmd
}

func initPlaylistCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist [URL]",
		Short: "Download every video in a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if err := validation.ValidateVideoURL(target); err != nil {
				return err
			}
			if !validation.IsPlaylistURL(target) {
				return fmt.Errorf("%q is not a playlist URL", target)
			}

			settings := GetSettings()
			if err := app.CheckDependencies(ctx, settings.Tools); err != nil {
				return err
			}

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			j, err := jobFromFlags(cmd, target, models.KindPlaylistDownload, settings)
			if err != nil {
				return err
			}
			return a.RunAndWait(ctx, j, a.Manager().StartDownload)
		},
	}
	addJobFlags(cmd)
	return cmd
}

func initTransformCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [FILE]",
		Short: "Trim, scale or re-volume a local video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if !validation.IsLocalFile(target) {
				return fmt.Errorf("no such file: %q", target)
			}
			if !validation.IsMediaFile(target) {
				return fmt.Errorf("not a media file: %q", target)
			}

			settings := GetSettings()
			if err := app.CheckDependencies(ctx, settings.Tools); err != nil {
				return err
			}

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			j, err := jobFromFlags(cmd, target, models.KindLocalTransform, settings)
			if err != nil {
				return err
			}
			return a.RunAndWait(ctx, j, a.Manager().StartTransform)
		},
	}
	addJobFlags(cmd)
	return cmd
}

func initUploadCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [FILE]",
		Short: "Upload a finished file to the configured host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := GetSettings()
			settings.AutoUpload = false // explicit upload, no chaining

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}
			defer a.Shutdown()

			return a.UploadAndWait(ctx, args[0])
		},
	}
	cmd.Flags().String(keys.UploadHost, "", "Upload endpoint URL")
	bindFlag(cmd, keys.UploadHost)
	return cmd
}

func initServeCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Grabarr daemon with the HTTP control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := GetSettings()
			if err := app.CheckDependencies(ctx, settings.Tools); err != nil {
				return err
			}

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}

			port := viper.GetString(keys.ServePort)
			if port == "" {
				port = server.DefaultPort
			}
			return a.Serve(ctx, port)
		},
	}

	f := cmd.Flags()
	f.String(keys.ServePort, server.DefaultPort, "Control API port")
	f.Bool(keys.AutoDownload, false, "Watch the clipboard and auto-download copied URLs")
	f.Bool(keys.AutoUpload, false, "Upload every finished download")
	f.String(keys.UploadHost, "", "Upload endpoint URL")
	f.String(keys.DownloadDir, "", "Directory to write output files to")
	f.String(keys.Quality, "", "Default target height for clipboard downloads")
	for _, key := range []string{
		keys.ServePort, keys.AutoDownload, keys.AutoUpload,
		keys.UploadHost, keys.DownloadDir, keys.Quality,
	} {
		bindFlag(cmd, key)
	}
	return cmd
}

func initWatchCmd(ctx context.Context, db *sql.DB) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the clipboard and download every copied URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := GetSettings()
			settings.AutoDownload = true

			if err := app.CheckDependencies(ctx, settings.Tools); err != nil {
				return err
			}

			a, err := app.New(settings, db)
			if err != nil {
				return err
			}
			return a.Watch(ctx)
		},
	}

	f := cmd.Flags()
	f.Bool(keys.AutoUpload, false, "Upload every finished download")
	f.String(keys.UploadHost, "", "Upload endpoint URL")
	f.String(keys.DownloadDir, "", "Directory to write output files to")
	f.String(keys.Quality, "", "Default target height for clipboard downloads")
	for _, key := range []string{
		keys.AutoUpload, keys.UploadHost, keys.DownloadDir, keys.Quality,
	} {
		bindFlag(cmd, key)
	}
	return cmd
}

func initHistoryCmd(db *sql.DB) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recent downloads and uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			hs := repo.GetHistoryStore(db)

			downloads, err := hs.RecentDownloads(20)
			if err != nil {
				return err
			}
			fmt.Println("Recent downloads:")
			for _, d := range downloads {
				fmt.Printf("  %s  %-9s  %s\n", d.CreatedAt.Format(time.DateTime), d.Status, d.Target)
			}

			uploads, err := hs.RecentUploads(20)
			if err != nil {
				return err
			}
			fmt.Println("Recent uploads:")
			for _, u := range uploads {
				fmt.Printf("  %s  %-9s  %s -> %s\n", u.CreatedAt.Format(time.DateTime), u.Status, u.LocalPath, u.RemoteURL)
			}
			return nil
		},
	}
}

func bindFlag(cmd *cobra.Command, key string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
		fmt.Printf("Failed to bind flag %q: %v\n", key, err)
	}
}
