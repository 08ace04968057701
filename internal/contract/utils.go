package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/devpick/schema"
)

// Outcome label constants.
const (
	MetValue   = "Met"   // target reached
	ShortValue = "Short" // demand exceeds supply
	NoneValue  = "None"  // nothing feasible
)

// Color variables for console output.
var (
	MetColor   = color.New(color.FgGreen, color.Bold)
	ShortColor = color.New(color.FgYellow)
	NoneColor  = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label describing the outcome of a pick.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(result *schema.PickResult) string {
	switch {
	case result == nil || result.NoFeasible:
		return NoneValue
	case result.DemandExceedsSupply:
		return ShortValue
	default:
		return MetValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(result *schema.PickResult) string {
	text := GetPlainLabel(result)

	switch text {
	case MetValue:
		return MetColor.Sprint(text)
	case ShortValue:
		return ShortColor.Sprint(text)
	default:
		return NoneColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run history.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpick_runs.db"
	}
	return filepath.Join(homeDir, ".devpick_runs.db")
}

// ParseBoolString parses yes/no style flag values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
