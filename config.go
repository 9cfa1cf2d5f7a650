package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"scrawl/asset"
	"scrawl/internal/logging"
)

type Config struct {
	AssetDirectory    string
	SnapshotDirectory string
	LogFile           string
	LogLevel          string
	DragThreshold     float64
	CellWidth         float64
	CellHeight        float64
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DragThreshold: defaultDragThreshold,
		CellWidth:     defaultCellWidth,
		CellHeight:    defaultCellHeight,
	}
}

// loadConfig reads ~/.scrawlrc and then applies environment overrides.
func loadConfig() *Config {
	config := defaultConfig()

	homeDir, _ := os.UserHomeDir()
	if homeDir != "" {
		if file, err := os.Open(filepath.Join(homeDir, ".scrawlrc")); err == nil {
			config.parse(file, homeDir)
			file.Close()
		}
	}

	config.AssetDirectory = expandPath(getEnv("SCRAWL_ASSET_DIR", config.AssetDirectory), homeDir)
	config.LogFile = expandPath(getEnv("SCRAWL_LOG_FILE", config.LogFile), homeDir)
	config.LogLevel = getEnv("SCRAWL_LOG_LEVEL", config.LogLevel)
	return config
}

// parse applies key=value lines from r. Unknown keys and malformed values
// are ignored.
func (c *Config) parse(r io.Reader, homeDir string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "assetdir", "asset_dir", "assetdirectory":
			c.AssetDirectory = expandPath(value, homeDir)
		case "snapshotdir", "snapshot_dir", "snapshotdirectory":
			c.SnapshotDirectory = expandPath(value, homeDir)
		case "logfile", "log_file":
			c.LogFile = expandPath(value, homeDir)
		case "loglevel", "log_level":
			c.LogLevel = strings.ToLower(value)
		case "dragthreshold", "drag_threshold":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				c.DragThreshold = v
			}
		case "cellwidth", "cell_width":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				c.CellWidth = v
			}
		case "cellheight", "cell_height":
			if v, err := strconv.ParseFloat(value, 64); err == nil && v > 0 {
				c.CellHeight = v
			}
		}
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSnapshotPath(filename string) string {
	if c.SnapshotDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SnapshotDirectory, 0755)
	return filepath.Join(c.SnapshotDirectory, filename)
}

// fetcher returns the asset fetcher for the configured directory, or nil
// when none is configured.
func (c *Config) fetcher() asset.Fetcher {
	if c.AssetDirectory == "" {
		return nil
	}
	return asset.DirFetcher{Root: c.AssetDirectory}
}

// setupLogging sends logs to the configured file. Without a log file the
// packages stay silent, since stdout belongs to the terminal UI.
func (c *Config) setupLogging() (io.Closer, error) {
	if c.LogFile == "" {
		return nil, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: logging.ParseLevel(c.LogLevel),
	})))
	return f, nil
}
