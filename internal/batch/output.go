package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// OutputEntry is the YAML form of one result.
type OutputEntry struct {
	Name  string    `yaml:"name"`
	Yaw   float64   `yaml:"yaw"`
	Pitch float64   `yaml:"pitch"`
	Roll  float64   `yaml:"roll"`
	Quat  []float64 `yaml:"quat,flow,omitempty"`
	Error string    `yaml:"error,omitempty"`
}

// WriteResults writes results to w in the given format.
func WriteResults(w io.Writer, format string, results []Result) error {
	switch format {
	case "", FormatText:
		return writeText(w, results)
	case FormatYAML:
		return writeYAML(w, results)
	default:
		return fmt.Errorf("batch: unknown output format %q", format)
	}
}

// writeText emits "name\tw\tx\ty\tz" lines. Failed entries become comments.
func writeText(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		name := textName(r.Name)
		if !r.Success {
			fmt.Fprintf(bw, "# %s: %s\n", name, r.Error)
			continue
		}
		bw.WriteString(name)
		for _, v := range r.Quat {
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("batch: write results: %w", err)
	}
	return nil
}

// textName quotes names that would split a tab-separated line.
func textName(name string) string {
	if strings.ContainsAny(name, "\t\r\n") {
		return strconv.Quote(name)
	}
	return name
}

func writeYAML(w io.Writer, results []Result) error {
	entries := make([]OutputEntry, len(results))
	for i, r := range results {
		entries[i] = OutputEntry{
			Name:  r.Name,
			Yaw:   r.Angles.Yaw,
			Pitch: r.Angles.Pitch,
			Roll:  r.Angles.Roll,
		}
		if r.Success {
			entries[i].Quat = r.Quat[:]
		} else {
			entries[i].Error = r.Error
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("batch: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("batch: encode yaml: %w", err)
	}
	return nil
}
