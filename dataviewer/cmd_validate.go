package dataviewer

import (
	"fmt"
)

// ValidationResult holds the results of config validation
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

func (v *ValidationResult) AddError(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *ValidationResult) AddWarning(format string, args ...interface{}) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// ValidateConfigFile checks a configuration file without running the
// monitor it describes.
func ValidateConfigFile(path string) *ValidationResult {
	result := &ValidationResult{}

	cfg, err := LoadConfig(path)
	if err != nil {
		result.AddError("%v", err)
		return result
	}
	validateConfig(cfg, result)
	return result
}

func validateConfig(cfg *Config, result *ValidationResult) {
	if _, err := LookupMonitor(cfg.Monitor.Type); err != nil {
		result.AddError("monitor type '%s' not registered (known: %v)", cfg.Monitor.Type, Monitors())
	}
	if _, err := LookupSource(cfg.Source.Kind); err != nil {
		result.AddError("source kind '%s' not registered (known: %v)", cfg.Source.Kind, Sources())
	}

	if cfg.Monitor.Type == "statevector" {
		for _, c := range cfg.Channels {
			if len(c.Bits) == 0 {
				result.AddError("statevector monitor requires bits for channel '%s'", c.Name)
			}
		}
	}

	if cfg.Monitor.Lookback < cfg.Monitor.Refresh {
		result.AddWarning("lookback %s is shorter than refresh %s, snapshots will mostly be empty",
			cfg.Monitor.Lookback, cfg.Monitor.Refresh)
	}
	if cfg.Monitor.StaleAfter < cfg.Source.Frame {
		result.AddWarning("stale-after %s is shorter than the source frame %s, the monitor will flap stale",
			cfg.Monitor.StaleAfter, cfg.Source.Frame)
	}
	if cfg.Output.Snapshots && cfg.Output.Dir == "" {
		result.AddWarning("snapshots enabled without an output dir, nothing will be written")
	}

	for _, c := range cfg.Channels {
		if c.SampleRate*cfg.Source.Frame.Seconds() < 1 {
			result.AddWarning("channel '%s' sample-rate %g yields less than one sample per frame", c.Name, c.SampleRate)
		}
	}
}
