package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Croissong/vdirsyncer/internal/app"
)

// ExitError is an error with a specific process exit code attached.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// config, a boolean indicating a clean early exit (help or no command),
// or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("vdirsyncer", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `vdirsyncer - synchronize calendars and contacts.

Usage:
  vdirsyncer [options] COMMAND

Commands:
  check     Load the config, instantiate every storage and verify pairs.
  discover  Resolve which collections each pair will sync.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the config file.")
	cFlag := flagSet.String("c", "", "Path to the config file (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("max-workers", 4, "Number of pairs processed concurrently.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	command := flagSet.Arg(0)
	switch command {
	case "check", "discover":
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", command)}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = *cFlag
	}
	if configPath == "" {
		configPath = defaultConfigPath()
	}

	return &app.Config{
		Command:    command,
		ConfigPath: configPath,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
		MaxWorkers: *workersFlag,
	}, false, nil
}

// defaultConfigPath resolves the config file location when -c is not given:
// $VDIRSYNCER_CONFIG, else ~/.vdirsyncer/config.
func defaultConfigPath() string {
	if fromEnv := os.Getenv("VDIRSYNCER_CONFIG"); fromEnv != "" {
		return fromEnv
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config"
	}
	return filepath.Join(home, ".vdirsyncer", "config")
}
