package anglefile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"euler-quat/internal/mathutil"
)

// Supported input formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// record matches one object in JSON and YAML input.
type record struct {
	Name  string  `json:"name" yaml:"name"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Roll  float64 `json:"roll" yaml:"roll"`
}

// Parse reads an angle file and returns its entries in file order.
func Parse(path, format string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("anglefile: read %s: %w", path, err)
	}

	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}

	entries, err := Decode(raw, format)
	if err != nil {
		return nil, fmt.Errorf("anglefile: parse %s: %w", path, err)
	}
	return entries, nil
}

// DetectFormat picks a format from the file extension. Anything that is
// not JSON or YAML is treated as text.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Decode parses raw input in the given format (not auto).
func Decode(raw []byte, format string) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatText:
		entries, err = decodeText(raw)
	case FormatJSON:
		var recs []record
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&recs); err == nil {
			entries = fromRecords(recs)
		}
	case FormatYAML:
		var recs []record
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF; treat it as an empty list.
		if err = dec.Decode(&recs); err == nil || errors.Is(err, io.EOF) {
			entries, err = fromRecords(recs), nil
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Name == "" {
			entries[i].Name = fmt.Sprintf("entry-%d", i+1)
		}
	}
	return entries, nil
}

func fromRecords(recs []record) []Entry {
	entries := make([]Entry, len(recs))
	for i, r := range recs {
		entries[i] = Entry{
			Name:   r.Name,
			Angles: mathutil.Angles{Yaw: r.Yaw, Pitch: r.Pitch, Roll: r.Roll},
		}
	}
	return entries
}

// decodeText reads "yaw pitch roll [name]" lines. Fields may be separated
// by whitespace or commas; '#' starts a comment.
func decodeText(raw []byte) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(bytes.NewReader(raw))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("line %d: want 3 angles and an optional name, got %d fields", lineNo, len(fields))
		}

		var v [3]float64
		for k := 0; k < 3; k++ {
			f, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			v[k] = f
		}

		e := Entry{Angles: mathutil.Angles{Yaw: v[0], Pitch: v[1], Roll: v[2]}}
		if len(fields) == 4 {
			e.Name = fields[3]
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return entries, nil
}
