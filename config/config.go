package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the ambient settings. Everything has a default: the tool is
// fully usable with no .env file and an empty environment.
type Config struct {
	RecorderPath string
	FFmpegPath   string
	FFprobePath  string
	GifsiclePath string
	MPVPath      string

	// TempDir is the scratch directory holding the pipeline artifacts.
	// Fixed file names inside it are overwritten on every run.
	TempDir string

	// StopHotkey stops a running capture even when the recording window is
	// not focused, e.g. "ctrl+alt+s".
	StopHotkey string

	// Preview launches mpv alongside the configurator when true.
	Preview bool

	// CopyPathToClipboard puts the destination path on the clipboard after
	// a successful export.
	CopyPathToClipboard bool

	EnableFileLogging bool

	// LockPort is the loopback port claimed to keep a second instance from
	// trampling the scratch directory. 0 disables the guard.
	LockPort int
}

func Load() (*Config, error) {
	// Try a .env next to the working directory or the executable, unless
	// an explicit path is given.
	envPaths := []string{".env"}
	if explicit := os.Getenv("MONONCGIF_ENV_PATH"); explicit != "" {
		envPaths = []string{explicit}
	} else if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		RecorderPath:        getEnvWithDefault("MONONCGIF_RECORDER", "recordmydesktop"),
		FFmpegPath:          getEnvWithDefault("MONONCGIF_FFMPEG", "ffmpeg"),
		FFprobePath:         getEnvWithDefault("MONONCGIF_FFPROBE", "ffprobe"),
		GifsiclePath:        getEnvWithDefault("MONONCGIF_GIFSICLE", "gifsicle"),
		MPVPath:             getEnvWithDefault("MONONCGIF_MPV", "mpv"),
		TempDir:             getEnvWithDefault("MONONCGIF_TMP_DIR", filepath.Join(os.TempDir(), "mononcgif-tmp")),
		StopHotkey:          getEnvWithDefault("MONONCGIF_STOP_HOTKEY", "ctrl+alt+s"),
		Preview:             getEnvBool("MONONCGIF_PREVIEW", true),
		CopyPathToClipboard: getEnvBool("MONONCGIF_COPY_PATH_TO_CLIPBOARD", false),
		EnableFileLogging:   getEnvBool("MONONCGIF_ENABLE_FILE_LOGGING", false),
		LockPort:            getEnvInt("MONONCGIF_LOCK_PORT", 49505),
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
