// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/pdiddy/veracity/pkg/types"
)

// StateVersion is the schema version written to features.json.
const StateVersion = 1

// ErrCorruptState is returned when persisted state is unreadable or
// internally inconsistent.
var ErrCorruptState = errors.New("corrupt feature state")

// State is the persisted form of a fitted Pipeline: every vocabulary,
// frequency table, idf weight and category list, plus the feature registry.
type State struct {
	Version   int                 `json:"version"`
	CreatedAt time.Time           `json:"created_at"`
	Config    types.FeatureConfig `json:"config"`

	SubjectFilter  *VocabularyFilter   `json:"subject_filter"`
	SubjectEncoder *SubjectEncoder     `json:"subject_encoder"`
	Speaker        *CategoricalEncoder `json:"speaker"`
	Party          *CategoricalEncoder `json:"party"`
	Statement      *TextVectorizer     `json:"statement"`
	Context        *TextVectorizer     `json:"context"`

	Blocks []Block `json:"blocks"`
}

// State snapshots the fitted pipeline for persistence. The returned value
// shares encoder storage with p and must not be modified.
func (p *Pipeline) State() (*State, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	return &State{
		Version:        StateVersion,
		CreatedAt:      time.Now().UTC(),
		Config:         p.cfg,
		SubjectFilter:  p.subjects,
		SubjectEncoder: p.subject,
		Speaker:        p.speaker,
		Party:          p.party,
		Statement:      p.statement,
		Context:        p.context,
		Blocks:         p.Blocks(),
	}, nil
}

// FromState rebuilds a fitted pipeline from s, rejecting state whose parts
// disagree with each other or with the recorded feature registry.
func FromState(s *State) (*Pipeline, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: empty state", ErrCorruptState)
	}
	if s.Version != StateVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrCorruptState, s.Version, StateVersion)
	}
	if s.SubjectFilter == nil || s.SubjectEncoder == nil || s.Speaker == nil ||
		s.Party == nil || s.Statement == nil || s.Context == nil {
		return nil, fmt.Errorf("%w: missing encoder", ErrCorruptState)
	}
	for _, v := range []*TextVectorizer{s.Statement, s.Context} {
		if err := checkVectorizer(v); err != nil {
			return nil, err
		}
	}
	for _, e := range []*CategoricalEncoder{s.Speaker, s.Party} {
		if !sort.StringsAreSorted(e.Categories) {
			return nil, fmt.Errorf("%w: %s categories not sorted", ErrCorruptState, e.Field)
		}
	}
	if !sort.StringsAreSorted(s.SubjectEncoder.Classes) {
		return nil, fmt.Errorf("%w: subject classes not sorted", ErrCorruptState)
	}

	s.SubjectFilter.index()
	s.SubjectEncoder.index()
	s.Speaker.index()
	s.Party.index()
	s.Statement.index()
	s.Context.index()

	p := &Pipeline{
		cfg:       s.Config,
		subjects:  s.SubjectFilter,
		subject:   s.SubjectEncoder,
		speaker:   s.Speaker,
		party:     s.Party,
		statement: s.Statement,
		context:   s.Context,
	}
	p.freeze()

	if len(s.Blocks) != len(p.blocks) {
		return nil, fmt.Errorf("%w: %d feature blocks, want %d", ErrCorruptState, len(s.Blocks), len(p.blocks))
	}
	for i, b := range p.blocks {
		if s.Blocks[i].Field != b.Field || !slices.Equal(s.Blocks[i].Columns, b.Columns) {
			return nil, fmt.Errorf("%w: feature block %q does not match its encoder", ErrCorruptState, s.Blocks[i].Field)
		}
	}
	return p, nil
}

func checkVectorizer(v *TextVectorizer) error {
	n := len(v.Vocabulary)
	if n == 0 {
		return fmt.Errorf("%w: %s vocabulary is empty", ErrCorruptState, v.Field)
	}
	if len(v.IDF) != n || len(v.DocumentFrequency) != n {
		return fmt.Errorf("%w: %s has %d terms, %d idf weights, %d document frequencies",
			ErrCorruptState, v.Field, n, len(v.IDF), len(v.DocumentFrequency))
	}
	for i := 1; i < n; i++ {
		if v.Vocabulary[i-1] >= v.Vocabulary[i] {
			return fmt.Errorf("%w: %s vocabulary not sorted and unique", ErrCorruptState, v.Field)
		}
	}
	return nil
}

// Write encodes the fitted pipeline state as indented JSON.
func (p *Pipeline) Write(w io.Writer) error {
	s, err := p.State()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Read decodes state written by Write and rebuilds the pipeline.
func Read(r io.Reader) (*Pipeline, error) {
	var s State
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return FromState(&s)
}

// Save writes the fitted state to path, replacing any existing file only
// once the new one is fully written.
func (p *Pipeline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".features-*.json")
	if err != nil {
		return fmt.Errorf("creating state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := p.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing feature state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a pipeline saved with Save.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feature state: %w", err)
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// LoadState reads and checks the state file at path without keeping the
// rebuilt pipeline. Use it to inspect a model directory.
func LoadState(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening feature state: %w", err)
	}
	defer f.Close()

	var s State
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("loading %s: %w: %v", path, ErrCorruptState, err)
	}
	if _, err := FromState(&s); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &s, nil
}
