// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one section in an export file.
type ExportEntry struct {
	ID          string `json:"id" yaml:"id"`
	Content     string `json:"content" yaml:"content"`
	ContentHash string `json:"content_hash" yaml:"content_hash"`
	Dimensions  int    `json:"dimensions" yaml:"dimensions"`
	UpdatedAt   string `json:"updated_at" yaml:"updated_at"`
}

// Export is the document written by ExportYAML and ExportJSON.
type Export struct {
	Collection string        `json:"collection" yaml:"collection"`
	Model      string        `json:"model" yaml:"model"`
	Entries    []ExportEntry `json:"entries" yaml:"entries"`
}

// ExportYAML writes collection to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, collection string, w io.Writer) error {
	doc, err := s.export(ctx, collection)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes collection to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, collection string, w io.Writer) error {
	doc, err := s.export(ctx, collection)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) export(ctx context.Context, collection string) (Export, error) {
	model, err := s.CollectionModel(ctx, collection)
	if err != nil {
		return Export{}, err
	}
	records, err := s.List(ctx, collection)
	if err != nil {
		return Export{}, fmt.Errorf("querying for export: %w", err)
	}

	doc := Export{Collection: collection, Model: model, Entries: make([]ExportEntry, len(records))}
	for i, r := range records {
		doc.Entries[i] = ExportEntry{
			ID:          r.ID,
			Content:     r.Content,
			ContentHash: r.ContentHash,
			Dimensions:  len(r.Vector),
			UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return doc, nil
}
