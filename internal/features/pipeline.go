// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package features turns raw statement records into fixed-width numeric
// feature vectors. A Pipeline is fit once on training records, persisted as
// a State, and then applied unchanged to every inference record.
//
// Column order is numeric counts, subject tags, speaker, party, statement
// terms, context terms. Values unseen at fit time never cause an error;
// they contribute zeros to their block.
package features

import (
	"errors"
	"fmt"

	"github.com/pdiddy/veracity/internal/label"
	"github.com/pdiddy/veracity/pkg/types"
)

// Logical field names. Output columns are "<field>_<value>".
const (
	FieldNumeric   = "Numeric"
	FieldSubject   = "Subject"
	FieldSpeaker   = "Speaker"
	FieldParty     = "Party_Affiliation"
	FieldStatement = "Statement"
	FieldContext   = "Context"
)

// ErrNotFitted is returned when a pipeline is used before Fit or Load.
var ErrNotFitted = errors.New("feature pipeline is not fitted")

// Block names the ordered output columns of one logical field.
type Block struct {
	Field   string   `json:"field" yaml:"field"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Matrix is a feature table: one row per record, columns in block order.
type Matrix struct {
	Columns []string
	Rows    [][]float64
}

// Pipeline holds the encoders for every field. After Fit (or FromState)
// it is read-only and safe for concurrent Transform calls.
type Pipeline struct {
	cfg types.FeatureConfig

	subjects  *VocabularyFilter
	subject   *SubjectEncoder
	speaker   *CategoricalEncoder
	party     *CategoricalEncoder
	statement *TextVectorizer
	context   *TextVectorizer

	blocks  []Block
	columns []string
	width   int
}

// New returns an unfitted pipeline configured by cfg.
func New(cfg types.FeatureConfig) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		subjects:  NewVocabularyFilter(cfg.MinSubjectFrequency),
		subject:   NewSubjectEncoder(FieldSubject),
		speaker:   NewCategoricalEncoder(FieldSpeaker, cfg.TopCategories),
		party:     NewCategoricalEncoder(FieldParty, cfg.TopCategories),
		statement: NewTextVectorizer(FieldStatement, cfg.StatementMaxFeatures, cfg.MaxDocumentFrequency),
		context:   NewTextVectorizer(FieldContext, cfg.ContextMaxFeatures, cfg.MaxDocumentFrequency),
	}
}

// Fit learns every encoder from records and returns the training matrix.
// records are not modified.
func (p *Pipeline) Fit(records []types.Record) (*Matrix, error) {
	if len(records) == 0 {
		return nil, errors.New("fitting feature pipeline: no records")
	}

	tagLists := make([][]string, len(records))
	speakers := make([]string, len(records))
	parties := make([]string, len(records))
	statements := make([]string, len(records))
	contexts := make([]string, len(records))
	for i, r := range records {
		tagLists[i] = splitTags(r.Subject)
		speakers[i] = r.Speaker
		parties[i] = r.PartyAffiliation
		statements[i] = r.Statement
		contexts[i] = r.Context
	}

	p.subjects.Fit(tagLists)
	filtered := make([][]string, len(tagLists))
	for i, tags := range tagLists {
		filtered[i] = p.subjects.Apply(tags)
	}
	p.subject.Fit(filtered)
	p.speaker.Fit(speakers)
	p.party.Fit(parties)
	if err := p.statement.Fit(statements); err != nil {
		return nil, err
	}
	if err := p.context.Fit(contexts); err != nil {
		return nil, err
	}

	p.freeze()
	return p.Transform(records)
}

// freeze builds the feature registry from the fitted encoders.
func (p *Pipeline) freeze() {
	p.blocks = []Block{
		{Field: FieldNumeric, Columns: append([]string(nil), types.NumericFeatures...)},
		{Field: FieldSubject, Columns: p.subject.Columns()},
		{Field: FieldSpeaker, Columns: p.speaker.Columns()},
		{Field: FieldParty, Columns: p.party.Columns()},
		{Field: FieldStatement, Columns: p.statement.Columns()},
		{Field: FieldContext, Columns: p.context.Columns()},
	}
	p.columns = p.columns[:0]
	for _, b := range p.blocks {
		p.columns = append(p.columns, b.Columns...)
	}
	p.width = len(p.columns)
}

// Fitted reports whether the pipeline has learned its encoders.
func (p *Pipeline) Fitted() bool {
	return p.blocks != nil
}

// Width is the number of columns of every feature row.
func (p *Pipeline) Width() int {
	return p.width
}

// FeatureNames returns a copy of the ordered column names.
func (p *Pipeline) FeatureNames() []string {
	return append([]string(nil), p.columns...)
}

// Blocks returns a copy of the feature registry.
func (p *Pipeline) Blocks() []Block {
	out := make([]Block, len(p.blocks))
	for i, b := range p.blocks {
		out[i] = Block{Field: b.Field, Columns: append([]string(nil), b.Columns...)}
	}
	return out
}

// Config returns the hyperparameters the pipeline was fit with.
func (p *Pipeline) Config() types.FeatureConfig {
	return p.cfg
}

// Transform encodes records with the fitted state. It shares the row
// encoder with TransformOne, so a batch and its rows taken one at a time
// produce identical output.
func (p *Pipeline) Transform(records []types.Record) (*Matrix, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	m := &Matrix{Columns: p.FeatureNames(), Rows: make([][]float64, len(records))}
	for i, r := range records {
		m.Rows[i] = p.row(r)
	}
	return m, nil
}

// TransformOne encodes a single record.
func (p *Pipeline) TransformOne(r types.Record) ([]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	return p.row(r), nil
}

func (p *Pipeline) row(r types.Record) []float64 {
	row := make([]float64, p.width)
	counts := r.Counts.Values()
	off := copy(row, counts[:])

	w := p.subject.Width()
	p.subject.encode(p.subjects.Apply(splitTags(r.Subject)), row[off:off+w])
	off += w

	w = p.speaker.Width()
	p.speaker.encode(r.Speaker, row[off:off+w])
	off += w

	w = p.party.Width()
	p.party.encode(r.PartyAffiliation, row[off:off+w])
	off += w

	w = p.statement.Width()
	p.statement.encode(r.Statement, row[off:off+w])
	off += w

	w = p.context.Width()
	p.context.encode(r.Context, row[off:off+w])
	return row
}

// Labels encodes the labels of records into class indices.
func Labels(records []types.Record) ([]int, error) {
	labels := make([]types.Label, len(records))
	for i, r := range records {
		labels[i] = r.Label
	}
	y, err := label.EncodeAll(labels)
	if err != nil {
		return nil, fmt.Errorf("encoding labels: %w", err)
	}
	return y, nil
}
