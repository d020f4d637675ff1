// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/veracity/pkg/types"
)

// --- test helpers ---

func testConfig() types.FeatureConfig {
	return types.FeatureConfig{
		MinSubjectFrequency:  2,
		TopCategories:        2,
		StatementMaxFeatures: 100,
		ContextMaxFeatures:   50,
		MaxDocumentFrequency: 0.7,
	}
}

func exampleRecord() types.Record {
	return types.Record{
		ID:               "12996",
		Label:            types.LabelPantsFire,
		Statement:        "The number of illegal immigrants could be 3 million. It could be 30 million.",
		Subject:          "immigration",
		Speaker:          "donald-trump",
		SpeakerJobTitle:  "President-Elect",
		StateInfo:        "New York",
		PartyAffiliation: "republican",
		Counts:           types.Counts{BarelyTrue: 63, False: 114, HalfTrue: 51, MostlyTrue: 37, PantsOnFire: 61},
		Context:          "a speech in Phoenix, Ariz.",
	}
}

func sampleRecords() []types.Record {
	rec := func(label types.Label, speaker, party, subject, statement, context string) types.Record {
		return types.Record{
			Label: label, Speaker: speaker, PartyAffiliation: party, Subject: subject,
			Statement: statement, Context: context,
			Counts: types.Counts{BarelyTrue: 1, False: 2, HalfTrue: 3, MostlyTrue: 4, PantsOnFire: 5},
		}
	}
	return []types.Record{
		exampleRecord(),
		rec(types.LabelMostlyTrue, "barack-obama", "democrat", "economy,jobs", "Unemployment fell to the lowest rate in a decade.", "a press conference"),
		rec(types.LabelHalfTrue, "barack-obama", "democrat", "health-care", "Health insurance premiums grew slower than ever.", "a speech"),
		rec(types.LabelFalse, "donald-trump", "republican", "immigration,economy", "Mexico will pay for the border wall.", "a rally in Ohio"),
		rec(types.LabelTrue, "hillary-clinton", "democrat", "economy, Jobs", "Wages rose for middle class families.", "a debate"),
		rec(types.LabelBarelyTrue, "rick-perry", "republican", "energy", "Texas created more jobs than any other state.", "an interview on television"),
		rec(types.LabelFalse, "scott-walker", "republican", "education", "Teachers saw their pay rise under the budget.", "a campaign ad"),
		rec(types.LabelMostlyTrue, "nancy-pelosi", "democrat", "health-care,economy", "The health care law cut the deficit.", "a floor speech"),
	}
}

func fitSample(t *testing.T) (*Pipeline, *Matrix) {
	t.Helper()
	p := New(testConfig())
	m, err := p.Fit(sampleRecords())
	require.NoError(t, err)
	return p, m
}

// blockRange returns the column offsets of field within a feature row.
func blockRange(t *testing.T, p *Pipeline, field string) (int, int) {
	t.Helper()
	off := 0
	for _, b := range p.Blocks() {
		if b.Field == field {
			return off, off + len(b.Columns)
		}
		off += len(b.Columns)
	}
	t.Fatalf("no block %q", field)
	return 0, 0
}

func assertZero(t *testing.T, row []float64, lo, hi int, msg string) {
	t.Helper()
	for i := lo; i < hi; i++ {
		assert.Zero(t, row[i], "%s: column %d", msg, i)
	}
}

// --- fit tests ---

func TestFitBlockOrderAndWidth(t *testing.T) {
	p, m := fitSample(t)

	var fields []string
	width := 0
	for _, b := range p.Blocks() {
		fields = append(fields, b.Field)
		width += len(b.Columns)
	}
	assert.Equal(t, []string{FieldNumeric, FieldSubject, FieldSpeaker, FieldParty, FieldStatement, FieldContext}, fields)
	assert.Equal(t, width, p.Width())
	assert.Equal(t, types.NumericFeatures, m.Columns[:5])
	assert.Len(t, m.Rows, len(sampleRecords()))
	for _, row := range m.Rows {
		assert.Len(t, row, p.Width())
	}
}

func TestFitBlocks(t *testing.T) {
	p, _ := fitSample(t)
	blocks := p.Blocks()

	assert.Equal(t, []string{"Subject_economy", "Subject_health-care", "Subject_immigration", "Subject_jobs"}, blocks[1].Columns)
	assert.Equal(t, []string{"Speaker_Other", "Speaker_barack-obama", "Speaker_donald-trump"}, blocks[2].Columns)
	assert.Equal(t, []string{"Party_Affiliation_democrat", "Party_Affiliation_republican"}, blocks[3].Columns)
	assert.Contains(t, blocks[4].Columns, "Statement_immigrants")
	assert.Contains(t, blocks[5].Columns, "Context_speech")
}

func TestFitDoesNotModifyRecords(t *testing.T) {
	records := sampleRecords()
	before := sampleRecords()

	_, err := New(testConfig()).Fit(records)
	require.NoError(t, err)
	assert.Equal(t, before, records)
}

func TestFitNoRecords(t *testing.T) {
	_, err := New(testConfig()).Fit(nil)
	assert.Error(t, err)
}

func TestFitMatrixMatchesTransform(t *testing.T) {
	p, fitted := fitSample(t)
	m, err := p.Transform(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, fitted, m)
}

// --- transform tests ---

func TestTransformBeforeFit(t *testing.T) {
	p := New(testConfig())
	_, err := p.Transform(sampleRecords())
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = p.TransformOne(exampleRecord())
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestBatchMatchesSingleRows(t *testing.T) {
	p, _ := fitSample(t)
	records := append(sampleRecords(), types.Record{
		Statement: "Brand new words entirely", Subject: "space", Speaker: "nobody", PartyAffiliation: "green",
	})

	batch, err := p.Transform(records)
	require.NoError(t, err)
	assert.Equal(t, p.FeatureNames(), batch.Columns)

	for i, r := range records {
		row, err := p.TransformOne(r)
		require.NoError(t, err)
		assert.Equal(t, batch.Rows[i], row, "row %d", i)
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	p, _ := fitSample(t)
	names := p.FeatureNames()

	first, err := p.TransformOne(exampleRecord())
	require.NoError(t, err)
	second, err := p.TransformOne(exampleRecord())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, names, p.FeatureNames())
}

func TestTransformUnknownValues(t *testing.T) {
	p, _ := fitSample(t)
	row, err := p.TransformOne(types.Record{
		Statement:        "Zyzzyva quokka",
		Subject:          "never-seen, also-new",
		Speaker:          "elizabeth-warren",
		PartyAffiliation: "libertarian",
		Context:          "podcast",
	})
	require.NoError(t, err)
	require.Len(t, row, p.Width())

	for _, field := range []string{FieldSubject, FieldSpeaker, FieldParty, FieldStatement, FieldContext} {
		lo, hi := blockRange(t, p, field)
		assertZero(t, row, lo, hi, field)
	}
}

func TestTransformRareValues(t *testing.T) {
	p, _ := fitSample(t)
	row, err := p.TransformOne(types.Record{
		Subject:          "energy, Immigration",
		Speaker:          "rick-perry",
		PartyAffiliation: "republican",
	})
	require.NoError(t, err)

	lo, hi := blockRange(t, p, FieldSubject)
	assert.Equal(t, []float64{0, 0, 1, 0}, row[lo:hi], "rare tag dropped, known tag kept")

	lo, hi = blockRange(t, p, FieldSpeaker)
	assert.Equal(t, []float64{1, 0, 0}, row[lo:hi], "long-tail speaker maps to Other")
}

func TestEndToEndExampleRecord(t *testing.T) {
	p, _ := fitSample(t)
	row, err := p.TransformOne(exampleRecord())
	require.NoError(t, err)

	require.Len(t, row, p.Width())
	assert.Equal(t, []float64{63, 114, 51, 37, 61}, row[:5])

	lo, hi := blockRange(t, p, FieldSpeaker)
	assert.Equal(t, []float64{0, 0, 1}, row[lo:hi])
}

func TestLabels(t *testing.T) {
	y, err := Labels(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1, 2, 4, 0, 3, 4, 1}, y)

	_, err = Labels([]types.Record{{Label: "unknown"}})
	assert.Error(t, err)
}
