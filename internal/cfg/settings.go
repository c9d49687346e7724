package cfg

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/keys"
	"grabarr/internal/models"
	"grabarr/internal/validation"
)

// GetSettings resolves the effective settings from flags, environment and
// config file, applying defaults and normalization.
func GetSettings() models.Settings {
	s := models.Settings{
		DownloadDir:  viper.GetString(keys.DownloadDir),
		Quality:      viper.GetString(keys.Quality),
		Volume:       1.0,
		SpeedLimit:   viper.GetFloat64(keys.SpeedLimit),
		OutputName:   validation.SanitizeFilename(viper.GetString(keys.OutputName)),
		CookieFile:   viper.GetString(keys.CookieFile),
		AutoUpload:   viper.GetBool(keys.AutoUpload),
		AutoDownload: viper.GetBool(keys.AutoDownload),
		UploadHost:   viper.GetString(keys.UploadHost),
		Tools: models.ToolPaths{
			Downloader: viper.GetString(keys.DownloaderPath),
			Transcoder: viper.GetString(keys.TranscoderPath),
			Prober:     viper.GetString(keys.ProberPath),
		},
	}

	if viper.IsSet(keys.Volume) {
		s.Volume = validation.ClampVolume(viper.GetFloat64(keys.Volume))
	}
	if s.Quality == "" {
		s.Quality = consts.DefaultQuality
	}
	if s.Tools.Downloader == "" {
		s.Tools.Downloader = consts.DownloaderName
	}
	if s.Tools.Transcoder == "" {
		s.Tools.Transcoder = consts.TranscoderName
	}
	if s.Tools.Prober == "" {
		s.Tools.Prober = consts.ProberName
	}
	if s.DownloadDir == "" {
		s.DownloadDir = defaultDownloadDir()
	}
	return s
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
