// Package detector inspects the environment to choose how logs are rendered.
package detector

import (
	"os"

	"go.trai.ch/xo/internal/core/domain"
	"go.trai.ch/xo/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Format is the rendering mode for log output.
type Format int

const (
	// FormatPretty renders colored human-readable lines.
	FormatPretty Format = iota
	// FormatJSON renders one JSON object per record.
	FormatJSON
)

// Log format flag values.
const (
	FlagAuto   = "auto"
	FlagPretty = "pretty"
	FlagJSON   = "json"
)

// Environment describes the terminal the process writes logs to.
type Environment struct {
	TTY bool
	CI  bool
}

// DetectEnvironment reports whether stderr is a terminal and whether CI variables are set.
func DetectEnvironment() Environment {
	ci := os.Getenv("CI")
	return Environment{
		TTY: term.IsTerminal(int(os.Stderr.Fd())),
		CI:  ci == "true" || ci == "1",
	}
}

// Format returns the format auto-detection picks: pretty for terminals and CI logs,
// JSON for everything else.
func (e Environment) Format() Format {
	if e.TTY || e.CI {
		return FormatPretty
	}
	return FormatJSON
}

// Profile returns the color profile selector for pretty output.
func (e Environment) Profile() output.ProfileFunc {
	switch {
	case e.TTY:
		return output.ColorProfile
	case e.CI:
		return output.ColorProfileANSI
	default:
		return output.ColorProfilePlain
	}
}

// ResolveFormat applies the --log-format flag to the detected environment.
func ResolveFormat(env Environment, flag string) (Format, error) {
	switch flag {
	case FlagAuto, "":
		return env.Format(), nil
	case FlagPretty:
		return FormatPretty, nil
	case FlagJSON:
		return FormatJSON, nil
	default:
		return FormatPretty, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown log format"), "format", flag)
	}
}
