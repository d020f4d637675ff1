// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every run to w as a YAML list, newest first.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	all, err := s.List(ctx, 0)
	if err != nil {
		return err
	}
	if all == nil {
		all = []Run{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes every run to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	all, err := s.List(ctx, 0)
	if err != nil {
		return err
	}
	if all == nil {
		all = []Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(all); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
