// Package page handles stored page records: one JSON file per manuscript
// page keeping transcription markup together with rendered HTML.
package page

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"estoria/common"
)

// Known record keys.
const (
	KeyDocument = "document"
	KeyName     = "name"
	KeyPrevious = "previous"
	KeyNext     = "next"
	KeyText     = "text"
)

const indent = "    "

// Record is a page record. Keys keep their original order and values not
// touched by the program are written back unchanged.
type Record struct {
	keys   []string
	fields map[string]json.RawMessage
}

// New creates record with mandatory fields set.
func New(document, name, text string) *Record {
	r := &Record{fields: make(map[string]json.RawMessage)}
	for _, kv := range [][2]string{{KeyDocument, document}, {KeyName, name}, {KeyText, text}} {
		// strings always marshal
		_ = r.SetString(kv[0], kv[1])
	}
	return r
}

// Decode parses record from JSON object.
func Decode(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("unable to decode page record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("unable to decode page record: not a JSON object")
	}

	r := &Record{fields: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("unable to decode page record: %w", err)
		}
		key := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("unable to decode page record field %q: %w", key, err)
		}
		if _, exists := r.fields[key]; !exists {
			r.keys = append(r.keys, key)
		}
		r.fields[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("unable to decode page record: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unable to decode page record: trailing data")
	}
	return r, nil
}

// Load reads record from file. Files saved with byte order mark (UTF-8 or
// UTF-16) are accepted.
func Load(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads record from the stream.
func Read(r io.Reader) (*Record, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("unable to read page record: %w", err)
	}
	return Decode(data)
}

// Keys returns record keys in order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// String returns value of string field, absent and non-string (null
// included) fields are returned as empty string.
func (r *Record) String(key string) string {
	raw, ok := r.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Has reports if field is present.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// SetString sets field value, new fields are appended at the end.
func (r *Record) SetString(key, value string) error {
	raw, err := marshal(value)
	if err != nil {
		return fmt.Errorf("unable to set page record field %q: %w", key, err)
	}
	if _, exists := r.fields[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = raw
	return nil
}

func (r *Record) Document() string { return r.String(KeyDocument) }
func (r *Record) Name() string     { return r.String(KeyName) }
func (r *Record) Previous() string { return r.String(KeyPrevious) }
func (r *Record) Next() string     { return r.String(KeyNext) }
func (r *Record) Text() string     { return r.String(KeyText) }

// HTML returns stored rendering for display mode.
func (r *Record) HTML(mode common.DisplayMode) string {
	return r.String(mode.RecordField())
}

// SetHTML stores rendering for display mode, other fields stay unchanged.
func (r *Record) SetHTML(mode common.DisplayMode, html string) error {
	return r.SetString(mode.RecordField(), html)
}

// Encode produces JSON object indented by four spaces. Non-ASCII characters
// and HTML special characters are written as is.
func (r *Record) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if len(r.keys) == 0 {
		buf.WriteString("{}")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, key := range r.keys {
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString(indent)
		buf.Write(k)
		buf.WriteString(": ")
		if err := json.Indent(&buf, r.fields[key], indent, indent); err != nil {
			return nil, fmt.Errorf("unable to encode page record field %q: %w", key, err)
		}
		if i < len(r.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Save writes record to the file. Data is written to temporary file in the
// same directory first, so readers never see partially written record.
func (r *Record) Save(path string) (err error) {
	data, err := r.Encode()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("unable to save page record: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("unable to save page record: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("unable to save page record: %w", err)
	}
	if fi, er := os.Stat(path); er == nil {
		// keep permissions of the original
		_ = os.Chmod(f.Name(), fi.Mode().Perm())
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("unable to save page record: %w", err)
	}
	return nil
}

func marshal(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
