// Package artifact writes scoreboard configuration documents to disk.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the serialization of written documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml, or yml in any case.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("artifact: unknown format %q (want json or yaml)", value)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Encode serializes v. JSON is indented four spaces with HTML left unescaped;
// YAML is indented two spaces and multi-line strings come out as literal blocks.
func Encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("artifact: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("artifact: encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("artifact: unknown format %q", format)
	}
}

// Store writes named documents into one directory.
type Store struct {
	dir    string
	format Format
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithFormat overrides the default JSON format.
func WithFormat(format Format) StoreOption {
	return func(s *Store) {
		if format != "" {
			s.format = format
		}
	}
}

// NewStore builds a store rooted at dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{
		dir:    dir,
		format: FormatJSON,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Format returns the store's serialization.
func (s *Store) Format() Format {
	return s.format
}

// Path returns where the named document is written, e.g. contest → contest.json.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+"."+s.format.Ext())
}

// Write encodes v fully in memory, then replaces the target file through a
// temporary file and rename so a failed run leaves the previous file intact.
func (s *Store) Write(name string, v any) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("artifact: document name is required")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, s.format, v); err != nil {
		return "", fmt.Errorf("artifact: %s: %w", name, err)
	}
	path := s.Path(name)
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("artifact: write %s: %w", path, err)
	}
	return path, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
