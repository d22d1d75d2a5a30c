package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/CouldBeFree/rustmission/internal/app"
	"github.com/CouldBeFree/rustmission/internal/transmission"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, empty when none was found.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig          = "RUSTMISSION_CONFIG"
	envURL             = "RUSTMISSION_URL"
	envUsername        = "RUSTMISSION_USERNAME"
	envPassword        = "RUSTMISSION_PASSWORD"
	envTorrentInterval = "RUSTMISSION_TORRENTS_INTERVAL"
	envStatsInterval   = "RUSTMISSION_STATS_INTERVAL"
	envSessionInterval = "RUSTMISSION_SESSION_INTERVAL"
	envDownloadDir     = "RUSTMISSION_DOWNLOAD_DIR"
	envAutoHide        = "RUSTMISSION_AUTO_HIDE"
	envWidth           = "RUSTMISSION_WIDTH"
	envHeight          = "RUSTMISSION_HEIGHT"
	envShowFooter      = "RUSTMISSION_FOOTER"
	envTrace           = "RUSTMISSION_TRACE"
	envLogFile         = "RUSTMISSION_LOG_FILE"
)

const (
	defaultConfigPath      = "~/.config/rustmission/config.toml"
	defaultTorrentInterval = 1500 * time.Millisecond
	defaultStatsInterval   = 3 * time.Second
	defaultSessionInterval = 30 * time.Second
)

// fileConfig is the on-disk TOML layout. Durations are Go duration strings.
type fileConfig struct {
	General struct {
		AutoHide    *bool  `toml:"auto_hide"`
		DownloadDir string `toml:"download_dir"`
		Footer      *bool  `toml:"footer"`
	} `toml:"general"`
	Connection struct {
		URL              string `toml:"url"`
		Username         string `toml:"username"`
		Password         string `toml:"password"`
		TorrentsInterval string `toml:"torrents_interval"`
		StatsInterval    string `toml:"stats_interval"`
		SessionInterval  string `toml:"session_interval"`
	} `toml:"connection"`
	Log struct {
		File  string `toml:"file"`
		Trace *bool  `toml:"trace"`
	} `toml:"log"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values are
// layered defaults < config file < environment < flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("rustmission", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	configPath := fs.String("config", "", "path to the TOML config file (default "+defaultConfigPath+")")
	rpcURL := fs.String("url", "", "Transmission RPC endpoint")
	username := fs.String("username", "", "RPC username")
	password := fs.String("password", "", "RPC password")
	torrentInterval := fs.Duration("torrents-interval", 0, "torrent list refresh interval")
	statsInterval := fs.Duration("stats-interval", 0, "session statistics refresh interval")
	sessionInterval := fs.Duration("session-interval", 0, "session info refresh interval")
	downloadDir := fs.String("download-dir", "", "default download directory offered by the add wizard")
	autoHide := fs.Bool("auto-hide", true, "hide columns no torrent has a value for")
	width := fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", false, "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", false, "enable verbose JSON trace logging")
	logFile := fs.String("log-file", "", "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path := *configPath
	if !set["config"] {
		path = envOrDefault(env, envConfig, "")
	}
	file, loaded, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	fileTorrent, err := parseDuration("torrents_interval", file.Connection.TorrentsInterval)
	if err != nil {
		return Config{}, err
	}
	fileStats, err := parseDuration("stats_interval", file.Connection.StatsInterval)
	if err != nil {
		return Config{}, err
	}
	fileSession, err := parseDuration("session_interval", file.Connection.SessionInterval)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			URL:             pickString(set["url"], *rpcURL, env, envURL, file.Connection.URL, transmission.DefaultURL),
			Username:        pickString(set["username"], *username, env, envUsername, file.Connection.Username, ""),
			Password:        pickString(set["password"], *password, env, envPassword, file.Connection.Password, ""),
			TorrentInterval: pickDuration(set["torrents-interval"], *torrentInterval, env, envTorrentInterval, fileTorrent, defaultTorrentInterval),
			StatsInterval:   pickDuration(set["stats-interval"], *statsInterval, env, envStatsInterval, fileStats, defaultStatsInterval),
			SessionInterval: pickDuration(set["session-interval"], *sessionInterval, env, envSessionInterval, fileSession, defaultSessionInterval),
			DownloadDir:     pickString(set["download-dir"], *downloadDir, env, envDownloadDir, file.General.DownloadDir, ""),
			AutoHide:        pickBool(set["auto-hide"], *autoHide, env, envAutoHide, file.General.AutoHide, true),
			Width:           pickInt(set["width"], *width, env, envWidth),
			Height:          pickInt(set["height"], *height, env, envHeight),
			ShowFooter:      pickBool(set["footer"], *footer, env, envShowFooter, file.General.Footer, false),
		},
		Logging: Logging{
			FilePath: pickString(set["log-file"], *logFile, env, envLogFile, file.Log.File, ""),
			Trace:    pickBool(set["trace"], *trace, env, envTrace, file.Log.Trace, false),
		},
		File: loaded,
		Args: append([]string(nil), args...),
	}
	if cfg.App.DownloadDir != "" {
		cfg.App.DownloadDir = mustExpand(cfg.App.DownloadDir)
	}
	if cfg.Logging.FilePath != "" {
		cfg.Logging.FilePath = mustExpand(cfg.Logging.FilePath)
	}
	endpoint, err := transmission.ParseEndpoint(cfg.App.URL)
	if err != nil {
		return Config{}, err
	}
	cfg.App.URL = endpoint.String()

	if cfg.App.Width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}

	cfg.Flags = map[string]string{
		"config":            loaded,
		"url":               cfg.App.URL,
		"username":          cfg.App.Username,
		"torrents-interval": cfg.App.TorrentInterval.String(),
		"stats-interval":    cfg.App.StatsInterval.String(),
		"session-interval":  cfg.App.SessionInterval.String(),
		"download-dir":      cfg.App.DownloadDir,
		"auto-hide":         strconv.FormatBool(cfg.App.AutoHide),
		"width":             strconv.Itoa(cfg.App.Width),
		"height":            strconv.Itoa(cfg.App.Height),
		"footer":            strconv.FormatBool(cfg.App.ShowFooter),
		"trace":             strconv.FormatBool(cfg.Logging.Trace),
		"logFile":           cfg.Logging.FilePath,
	}

	return cfg, nil
}

// readFile loads the TOML file at path. A missing file is only an error when
// the path was given explicitly.
func readFile(path string) (fileConfig, string, error) {
	var file fileConfig
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		if explicit {
			return file, "", err
		}
		return file, "", nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return file, "", nil
		}
		return file, "", fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return file, "", fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return file, resolved, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	return d, nil
}

func pickString(flagSet bool, flagValue string, env map[string]string, key, fileValue, fallback string) string {
	if flagSet {
		return flagValue
	}
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	if strings.TrimSpace(fileValue) != "" {
		return strings.TrimSpace(fileValue)
	}
	return fallback
}

func pickDuration(flagSet bool, flagValue time.Duration, env map[string]string, key string, fileValue, fallback time.Duration) time.Duration {
	if flagSet {
		return flagValue
	}
	if v, ok := env[key]; ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	if fileValue > 0 {
		return fileValue
	}
	return fallback
}

func pickBool(flagSet bool, flagValue bool, env map[string]string, key string, fileValue *bool, fallback bool) bool {
	if flagSet {
		return flagValue
	}
	if fileValue != nil {
		fallback = *fileValue
	}
	return envOrBool(env, key, fallback)
}

func pickInt(flagSet bool, flagValue int, env map[string]string, key string) int {
	if flagSet {
		return flagValue
	}
	return envOrInt(env, key, 0)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the configuration can reach a daemon.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.App.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", cfg.App.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https (got %q)", cfg.App.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", cfg.App.URL)
	}
	for name, d := range map[string]time.Duration{
		"torrents-interval": cfg.App.TorrentInterval,
		"stats-interval":    cfg.App.StatsInterval,
		"session-interval":  cfg.App.SessionInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive (got %s)", name, d)
		}
	}
	if cfg.App.Password != "" && cfg.App.Username == "" {
		return errors.New("password given without username")
	}
	return nil
}
