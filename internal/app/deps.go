package app

import (
	"context"
	"fmt"
	"strings"

	"grabarr/internal/command"
	"grabarr/internal/domain/consts"
	"grabarr/internal/domain/ffcmd"
	"grabarr/internal/models"
	"grabarr/internal/proc"
	"grabarr/internal/utils/logging"
)

// CheckDependencies verifies the external tools respond before any job
// runs. A missing downloader or transcoder is fatal; a missing prober only
// disables local duration probes and is reported as a warning.
func CheckDependencies(ctx context.Context, tools models.ToolPaths) error {
	if _, err := versionOf(ctx, tools.Downloader, command.VersionArgs()); err != nil {
		return fmt.Errorf("downloader %q not usable: %w", tools.Downloader, err)
	}
	if _, err := versionOf(ctx, tools.Transcoder, []string{ffcmd.Version}); err != nil {
		return fmt.Errorf("transcoder %q not usable: %w", tools.Transcoder, err)
	}
	if _, err := versionOf(ctx, tools.Prober, []string{ffcmd.Version}); err != nil {
		logging.W("Prober %q not usable, local duration probes disabled: %v", tools.Prober, err)
	}
	return nil
}

func versionOf(ctx context.Context, bin string, args []string) (string, error) {
	out, err := proc.Output(ctx, consts.DependencyCheckTimeout, bin, args)
	if err != nil {
		return "", err
	}
	version, _, _ := strings.Cut(out, "\n")
	logging.D(1, "Found %s (%s)", bin, strings.TrimSpace(version))
	return version, nil
}
