package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// Consensus label constants.
const (
	UnanimousValue = "Unanimous" // Every source ranks the title
	BroadValue     = "Broad"     // At least half of the sources rank the title
	SharedValue    = "Shared"    // More than one source ranks the title
	SingleValue    = "Single"    // Only one source ranks the title
)

// Color variables for console output.
var (
	UnanimousColor = color.New(color.FgGreen, color.Bold)
	BroadColor     = color.New(color.FgCyan, color.Bold)
	SharedColor    = color.New(color.FgYellow)
	SingleColor    = color.New(color.FgWhite)
)

// GetPlainLabel returns a plain text label describing how widely a title is
// ranked, given the number of sources that ranked it and the number of sources
// in the run. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(listsAppeared, totalSources int) string {
	switch {
	case totalSources > 0 && listsAppeared >= totalSources:
		return UnanimousValue
	case totalSources > 0 && listsAppeared*2 >= totalSources:
		return BroadValue
	case listsAppeared > 1:
		return SharedValue
	default:
		return SingleValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(listsAppeared, totalSources int) string {
	text := GetPlainLabel(listsAppeared, totalSources)

	switch text {
	case UnanimousValue:
		return UnanimousColor.Sprint(text)
	case BroadValue:
		return BroadColor.Sprint(text)
	case SharedValue:
		return SharedColor.Sprint(text)
	default:
		return SingleColor.Sprint(text)
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
	zap.L().Error(msg, zap.Error(err))
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	zap.L().Warn(msg, zap.Error(err))
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gamerank_cache.db"
	}
	return filepath.Join(homeDir, ".gamerank_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gamerank_history.db"
	}
	return filepath.Join(homeDir, ".gamerank_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one rune.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
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
