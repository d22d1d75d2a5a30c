package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/CouldBeFree/rustmission/internal/app"
	"github.com/CouldBeFree/rustmission/internal/config"
	"github.com/CouldBeFree/rustmission/internal/logging"
	"github.com/CouldBeFree/rustmission/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging. The RPC
// password never reaches the log.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	redacted := cfg.App
	if redacted.Password != "" {
		redacted.Password = "*****"
	}
	payload := map[string]interface{}{
		"argv":       redactArgs(cfg.Args),
		"flags":      flags,
		"configFile": cfg.File,
		"app":        redacted,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

// redactArgs masks the value following a password flag.
func redactArgs(args []string) []string {
	out := append([]string(nil), args...)
	for i, arg := range out {
		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "password" {
			continue
		}
		if hasValue {
			out[i] = arg[:strings.Index(arg, "=")+1] + "*****"
		} else if i+1 < len(out) {
			out[i+1] = "*****"
		}
	}
	return out
}

type ttyDetails struct {
	Detected *ttyDetected      `json:"detected,omitempty"`
	Streams  []ttyStreamResult `json:"streams"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyStreamResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	streams := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyStreamResult, 0, len(streams))
	var detected *ttyDetected
	for _, stream := range streams {
		entry := ttyStreamResult{Name: stream.name}
		fd := int(stream.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: stream.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		} else {
			entry.IsTerminal = false
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Streams: results}
}
