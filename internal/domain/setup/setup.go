// Package setup initializes the program's files and directories.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	cfgDirName        = ".grabarr"
	dbFileName        = "grabarr.db"
	logFileName       = "grabarr.log"
	clipboardFileName = "clipboard_urls.json"
)

// Main program file/dir locations, filled by InitCfgFilesDirs.
var (
	CfgDir            string
	DBFilePath        string
	LogFilePath       string
	ClipboardListPath string
)

// InitCfgFilesDirs creates the program directories and computes file locations.
func InitCfgFilesDirs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	CfgDir = filepath.Join(home, cfgDirName)
	if err := os.MkdirAll(CfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to make config directory: %w", err)
	}

	DBFilePath = filepath.Join(CfgDir, dbFileName)
	LogFilePath = filepath.Join(CfgDir, logFileName)
	ClipboardListPath = filepath.Join(CfgDir, clipboardFileName)
	return nil
}
