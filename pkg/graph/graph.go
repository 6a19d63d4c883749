package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	kerrors "github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
)

// Format selects a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats in preference order.
var Formats = []Format{FormatJSON, FormatTOML, FormatYAML}

// ParseFormat parses a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", kerrors.New(kerrors.ErrCodeInvalidFormat, "unknown format %q (must be json, toml or yaml)", s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := kerrors.ValidateDocumentPath(path); err != nil {
		return "", err
	}
	return ParseFormat(filepath.Ext(path))
}

// =============================================================================
// Document Serialization API
// =============================================================================

// Marshal encodes a document. JSON output is indented with two spaces, the
// same layout the browser editor exports.
func Marshal(d family.Document, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document without validating it.
func Unmarshal(data []byte, f Format) (family.Document, error) {
	return decode(bytes.NewReader(data), f)
}

// Write encodes a document to w.
func Write(d family.Document, w io.Writer, f Format) error {
	out := FromDocument(d)
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err == nil {
			err = enc.Close()
		}
	default:
		return kerrors.New(kerrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// Read decodes and validates a document from r.
func Read(r io.Reader, f Format) (family.Document, error) {
	d, err := decode(r, f)
	if err != nil {
		return family.Document{}, err
	}
	if err := d.Validate(); err != nil {
		return family.Document{}, kerrors.Wrap(kerrors.ErrCodeInvalidDocument, err, "invalid document")
	}
	return d, nil
}

// ReadFile reads and validates a document, choosing the format from the
// file extension.
func ReadFile(path string) (family.Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return family.Document{}, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return family.Document{}, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "document %s not found", path)
	}
	if err != nil {
		return family.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return Read(file, f)
}

// DecodeFile reads a document without validating it. Used by the validate
// command so every problem can be reported.
func DecodeFile(path string) (family.Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return family.Document{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return family.Document{}, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "document %s not found", path)
	}
	if err != nil {
		return family.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data, f)
}

// WriteFile writes a document, choosing the format from the file extension.
// The file is replaced atomically.
func WriteFile(d family.Document, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(d, f)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// MarshalResult encodes a result as compact JSON.
func MarshalResult(r Result) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalResult decodes a result.
func UnmarshalResult(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, err
	}
	return r, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func decode(r io.Reader, f Format) (family.Document, error) {
	var w Document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&w)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&w)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&w)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return family.Document{}, kerrors.New(kerrors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	if err != nil {
		return family.Document{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return ToDocument(w)
}
