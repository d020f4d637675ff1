// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads the tab-separated statement files used for
// training and cleans them into pipeline records.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/veracity/pkg/types"
)

// Columns is the fixed column layout of a dataset file. Files have no
// header row.
var Columns = []string{
	"ID",
	"Label",
	"Statement",
	"Subject",
	"Speaker",
	"Speaker_Job_Title",
	"State_Info",
	"Party_Affiliation",
	"Barely_True_Counts",
	"False_Counts",
	"Half_True_Counts",
	"Mostly_True_Counts",
	"Pants_on_Fire_Counts",
	"Context",
}

const (
	numColumns = 14

	// MaxMissing is the most empty fields a row may have and still be kept.
	MaxMissing = 3

	// Placeholder replaces missing text fields in kept rows.
	Placeholder = "unknown"
)

// Row is one raw line split into its fields. Absent trailing fields are
// empty strings.
type Row [numColumns]string

// ReadTSV parses a headerless dataset file. Lines with more than 14 fields
// are an error; shorter lines are padded with empty fields.
func ReadTSV(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var rows []Row
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) > numColumns {
			return nil, fmt.Errorf("line %d: %d fields, want at most %d", line, len(fields), numColumns)
		}
		var row Row
		for i, f := range fields {
			row[i] = strings.TrimSpace(f)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return rows, nil
}

// Result holds the cleaned records and counts from a cleaning pass.
type Result struct {
	Records []types.Record

	// Rows is the number of raw rows read.
	Rows int

	// Dropped counts rows with more than MaxMissing empty fields.
	Dropped int

	// Filled counts individual fields replaced by a placeholder.
	Filled int
}

// Clean drops rows with more than MaxMissing empty or unparseable fields
// and fills the rest: text fields with Placeholder, counts with zero.
func Clean(rows []Row) Result {
	res := Result{Rows: len(rows)}
	for _, row := range rows {
		missing := 0
		counts := [5]int{}
		countOK := [5]bool{}
		for i := range row {
			if i >= 8 && i <= 12 {
				n, ok := parseCount(row[i])
				counts[i-8], countOK[i-8] = n, ok
				if !ok {
					missing++
				}
				continue
			}
			if row[i] == "" {
				missing++
			}
		}
		if missing > MaxMissing {
			res.Dropped++
			continue
		}

		text := func(i int) string {
			if row[i] == "" {
				res.Filled++
				return Placeholder
			}
			return row[i]
		}
		for _, ok := range countOK {
			if !ok {
				res.Filled++
			}
		}

		res.Records = append(res.Records, types.Record{
			ID:               text(0),
			Label:            types.Label(text(1)),
			Statement:        text(2),
			Subject:          text(3),
			Speaker:          text(4),
			SpeakerJobTitle:  text(5),
			StateInfo:        text(6),
			PartyAffiliation: text(7),
			Counts: types.Counts{
				BarelyTrue:  counts[0],
				False:       counts[1],
				HalfTrue:    counts[2],
				MostlyTrue:  counts[3],
				PantsOnFire: counts[4],
			},
			Context: text(13),
		})
	}
	return res
}

// parseCount accepts non-negative integers, including the "63.0" form
// spreadsheet exports produce.
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// LoadFiles reads and cleans every file in order, concatenating the
// results.
func LoadFiles(paths ...string) (Result, error) {
	var all []Row
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return Result{}, fmt.Errorf("opening dataset: %w", err)
		}
		rows, err := ReadTSV(f)
		f.Close()
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, rows...)
	}
	return Clean(all), nil
}

// Split shuffles records with seed and holds out fraction of them. A
// fraction <= 0 returns every record for training.
func Split(records []types.Record, fraction float64, seed uint64) (train, holdout []types.Record) {
	if fraction <= 0 || len(records) < 2 {
		return records, nil
	}
	n := int(math.Round(fraction * float64(len(records))))
	if n < 1 {
		n = 1
	}
	if n >= len(records) {
		n = len(records) - 1
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(len(records))
	for i, j := range perm {
		if i < n {
			holdout = append(holdout, records[j])
		} else {
			train = append(train, records[j])
		}
	}
	return train, holdout
}
