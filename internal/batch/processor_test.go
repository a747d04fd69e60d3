package batch

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"euler-quat/internal/anglefile"
	"euler-quat/internal/mathutil"
)

func makeEntries(n int) []anglefile.Entry {
	entries := make([]anglefile.Entry, n)
	for i := range entries {
		f := float64(i)
		entries[i] = anglefile.Entry{
			Name:   fmt.Sprintf("e%d", i),
			Angles: mathutil.Angles{Yaw: f * 0.1, Pitch: -f * 0.05, Roll: f * 0.3},
		}
	}
	return entries
}

func TestRunPreservesOrder(t *testing.T) {
	t.Parallel()

	entries := makeEntries(500)
	for _, workers := range []int{0, 1, 4, 64, 1000} {
		results := Run(Config{Workers: workers}, entries)
		require.Len(t, results, len(entries))
		for i, r := range results {
			assert.True(t, r.Success)
			assert.Equal(t, entries[i].Name, r.Name)
			assert.Equal(t, entries[i].Angles, r.Angles)
			assert.Equal(t, entries[i].Angles.Quat(), r.Quat)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Run(Config{Workers: 4}, nil))
}

func TestRunNonFinite(t *testing.T) {
	t.Parallel()

	entries := []anglefile.Entry{
		{Name: "ok", Angles: mathutil.Angles{Yaw: 0.5}},
		{Name: "nan", Angles: mathutil.Angles{Pitch: math.NaN()}},
		{Name: "inf", Angles: mathutil.Angles{Roll: math.Inf(1)}},
	}

	t.Run("propagates by default", func(t *testing.T) {
		t.Parallel()
		results := Run(Config{Workers: 2}, entries)
		assert.Empty(t, Failed(results))
		assert.True(t, results[0].Quat.IsFinite())
		assert.False(t, results[1].Quat.IsFinite())
		assert.False(t, results[2].Quat.IsFinite())
	})

	t.Run("rejected when strict", func(t *testing.T) {
		t.Parallel()
		results := Run(Config{Workers: 2, RejectNonFinite: true}, entries)
		failed := Failed(results)
		require.Len(t, failed, 2)
		assert.Equal(t, "nan", failed[0].Name)
		assert.Equal(t, "inf", failed[1].Name)
		assert.Contains(t, failed[0].Error, "non-finite angle")
		assert.Equal(t, mathutil.Quat{}, failed[0].Quat)
		assert.True(t, results[0].Success)
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestRunProgressStops(t *testing.T) {
	t.Parallel()

	out := &syncBuffer{}
	results := Run(Config{Workers: 2, Progress: out, ProgressInterval: time.Millisecond}, makeEntries(10))
	assert.Len(t, results, 10)

	// The reporter has exited, so nothing writes after Run returns.
	n := out.Len()
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, n, out.Len())
}

func TestWriteResultsText(t *testing.T) {
	results := []Result{
		{Name: "identity", Quat: mathutil.Quat{1, 0, 0, 0}, Success: true},
		{Name: "nan", Quat: mathutil.EulerToQuat(math.NaN(), 0, 0), Success: true},
		{Name: "bad", Error: "non-finite angle"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatText, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "identity\t1\t0\t0\t0", lines[0])
	assert.Equal(t, "nan\tNaN\tNaN\tNaN\tNaN", lines[1])
	assert.Equal(t, "# bad: non-finite angle", lines[2])
}

func TestWriteResultsTextUnnamedAndFailed(t *testing.T) {
	entries, err := anglefile.Decode([]byte("0 0 0\nNaN 0 0 broken\n"), anglefile.FormatText)
	require.NoError(t, err)

	results := Run(Config{Workers: 1, RejectNonFinite: true}, entries)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatText, results))

	var data, comments []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		} else {
			data = append(data, line)
		}
	}
	assert.Equal(t, []string{"entry-1\t1\t0\t0\t0"}, data)
	require.Len(t, comments, 1)
	assert.True(t, strings.HasPrefix(comments[0], "# broken: non-finite angle"))
}

func TestWriteResultsTextQuotesNames(t *testing.T) {
	results := []Result{
		{Name: "two\twords", Quat: mathutil.Quat{1, 0, 0, 0}, Success: true},
		{Name: "multi\nline", Error: "non-finite angle"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatText, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{`"two\twords"`, "1", "0", "0", "0"}, strings.Split(lines[0], "\t"))
	assert.Equal(t, `# "multi\nline": non-finite angle`, lines[1])
}

func TestWriteResultsYAML(t *testing.T) {
	results := []Result{
		{Name: "roll", Angles: mathutil.Angles{Roll: 0.25}, Quat: mathutil.Quat{0.5, 0.5, 0.5, 0.5}, Success: true},
		{Name: "bad", Angles: mathutil.Angles{Yaw: math.Inf(-1)}, Error: "non-finite angle"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, FormatYAML, results))

	var got []OutputEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, OutputEntry{Name: "roll", Roll: 0.25, Quat: []float64{0.5, 0.5, 0.5, 0.5}}, got[0])
	assert.Equal(t, "bad", got[1].Name)
	assert.True(t, math.IsInf(got[1].Yaw, -1))
	assert.Nil(t, got[1].Quat)
	assert.Equal(t, "non-finite angle", got[1].Error)
	assert.Contains(t, buf.String(), "quat: [0.5, 0.5, 0.5, 0.5]")
}

func TestWriteResultsUnknownFormat(t *testing.T) {
	err := WriteResults(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}
