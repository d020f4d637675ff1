// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runs

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, started time.Time) Run {
	return Run{
		ID:              id,
		StartedAt:       started,
		FinishedAt:      started.Add(3 * time.Second),
		DataFiles:       []string{"data/train.tsv", "data/valid.tsv"},
		Rows:            100,
		DroppedRows:     2,
		TrainRows:       80,
		HoldoutRows:     18,
		FeatureWidth:    326,
		TrainAccuracy:   0.61,
		HoldoutAccuracy: 0.27,
		ModelDir:        "models",
	}
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, sampleRun("a", started)))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sampleRun("a", started), got)
}

func TestGetUnknown(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, s.Record(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].ID)
	assert.Equal(t, "first", all[2].ID)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "second", limited[1].ID)
}

func TestRecordReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	r := sampleRun("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Record(ctx, r))

	r.HoldoutAccuracy = 0.5
	require.NoError(t, s.Record(ctx, r))

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 0.5, all[0].HoldoutAccuracy)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, sampleRun("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))

	var jbuf bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &jbuf))
	var fromJSON []Run
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, 326, fromJSON[0].FeatureWidth)

	var ybuf bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &ybuf))
	var fromYAML []Run
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	require.Len(t, fromYAML, 1)
	assert.Equal(t, []string{"data/train.tsv", "data/valid.tsv"}, fromYAML[0].DataFiles)
}

func TestExportEmpty(t *testing.T) {
	s := testStore(t)
	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(context.Background(), &buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestCorruptDataFilesIsAnError(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, sampleRun("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))

	_, err := s.db.ExecContext(ctx, `UPDATE runs SET data_files = ? WHERE id = ?`, `["data/train.tsv"`, "a")
	require.NoError(t, err)

	_, err = s.Get(ctx, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding data_files of run a")
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)

	_, err = s.List(ctx, 0)
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.Error(t, s.ExportJSON(ctx, &buf))
}
