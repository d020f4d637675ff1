// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p, _ := fitSample(t)
	path := filepath.Join(t.TempDir(), "models", "features.json")
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, p.FeatureNames(), loaded.FeatureNames())
	assert.Equal(t, p.Blocks(), loaded.Blocks())
	assert.Equal(t, p.Config(), loaded.Config())

	records := append(sampleRecords(), exampleRecord())
	want, err := p.Transform(records)
	require.NoError(t, err)
	got, err := loaded.Transform(records)
	require.NoError(t, err)
	assert.Equal(t, want.Rows, got.Rows, "loaded state must produce bit-identical rows")
}

func TestSaveUnfitted(t *testing.T) {
	err := New(testConfig()).Save(filepath.Join(t.TempDir(), "features.json"))
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReadRejectsCorruptState(t *testing.T) {
	p, _ := fitSample(t)
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	mutate := func(t *testing.T, fn func(s map[string]any)) string {
		t.Helper()
		var s map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &s))
		fn(s)
		out, err := json.Marshal(s)
		require.NoError(t, err)
		return string(out)
	}

	tests := []struct {
		name string
		data string
	}{
		{"truncated json", buf.String()[:buf.Len()/2]},
		{"empty input", ""},
		{"wrong version", mutate(t, func(s map[string]any) { s["version"] = 99 })},
		{"missing encoder", mutate(t, func(s map[string]any) { delete(s, "speaker") })},
		{"idf length mismatch", mutate(t, func(s map[string]any) {
			st := s["statement"].(map[string]any)
			st["idf"] = []any{1.0}
		})},
		{"registry mismatch", mutate(t, func(s map[string]any) {
			blocks := s["blocks"].([]any)
			blocks[2].(map[string]any)["columns"] = []any{"Speaker_someone"}
		})},
		{"missing blocks", mutate(t, func(s map[string]any) { delete(s, "blocks") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	p, _ := fitSample(t)
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, p.Save(path))
	_, err := Load(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestLoadState(t *testing.T) {
	p, _ := fitSample(t)
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, p.Save(path))

	s, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, StateVersion, s.Version)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, p.Blocks(), s.Blocks)
	assert.Equal(t, []string{"barack-obama", "donald-trump"}, s.Speaker.Top)

	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))
	_, err = LoadState(path)
	assert.ErrorIs(t, err, ErrCorruptState)
}
