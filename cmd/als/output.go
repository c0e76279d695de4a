package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/als-astro/als/internal/config"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// errOut receives status messages; command results go to the command's
// stdout.
var errOut io.Writer = os.Stderr

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(colorGreen, "✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(colorRed, "✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(colorYellow, "⚠ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(errOut, "  %s %s\n", colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}

func printStep(format string, args ...any) {
	fmt.Fprintln(errOut, colorize(colorCyan, "→ "+fmt.Sprintf(format, args...)))
}

// writeSettings prints one "key = value" line per setting, keys padded to a
// common width. Overridden values are marked.
func writeSettings(w io.Writer, infos []config.KeyInfo) {
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Key))
	}
	for _, info := range infos {
		key := colorize(colorBold, info.Key+strings.Repeat(" ", width-len(info.Key)))
		line := fmt.Sprintf("  %s = %s", key, info.Value)
		if info.Overridden {
			line += colorize(colorCyan, "  (user)")
		}
		fmt.Fprintln(w, line)
	}
}
