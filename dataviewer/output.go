package dataviewer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	cp "github.com/otiai10/copy"
)

// Output manages the session directory: a copy of the config, log
// files and periodic snapshots.
type Output struct {
	dst string
}

// NewOutput creates the session directory under dir.
func NewOutput(dir, session string) (*Output, error) {
	dst := filepath.Join(dir, session)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Output{dst: dst}, nil
}

// Dir returns the session directory path.
func (o *Output) Dir() string {
	return o.dst
}

// CopyConfig stores the configuration the session was started with.
func (o *Output) CopyConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config for session copy: %w", err)
	}
	return o.WriteFile("config.ini", data)
}

// WriteFile writes data under the session directory, encoding
// non-byte values by file extension (.yaml or .json).
func (o *Output) WriteFile(dst string, data interface{}) error {
	dst = filepath.Join(o.dst, dst)

	var dataRaw []byte
	var err error

	if raw, ok := data.([]byte); ok {
		dataRaw = raw
	} else if raw, ok := data.(string); ok {
		dataRaw = []byte(raw)
	} else {
		switch filepath.Ext(dst) {
		case ".json":
			if dataRaw, err = json.MarshalIndent(data, "", "\t"); err != nil {
				return err
			}
		case ".yaml", ".yml":
			if dataRaw, err = yaml.Marshal(data); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported file extension: %s", filepath.Ext(dst))
		}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, dataRaw, 0o644)
}

// LogOutput creates a log file for the given name under the session
// directory.
func (o *Output) LogOutput(name string) (*os.File, error) {
	path := filepath.Join(o.dst, "logs", name+".log")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// Export copies the whole session directory to dst, e.g. to archive a
// finished run.
func (o *Output) Export(dst string) error {
	if err := cp.Copy(o.dst, dst); err != nil {
		return fmt.Errorf("failed to export session: %w", err)
	}
	return nil
}

// ExportSession copies an existing session directory to dst.
func ExportSession(dir, session, dst string) error {
	src := filepath.Join(dir, session)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("session %s not found in %s: %w", session, dir, err)
	}
	return (&Output{dst: src}).Export(dst)
}
