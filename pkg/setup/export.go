// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shelfworks/bibsetup/internal/output"
)

// ExportResult summarizes an Export stage.
type ExportResult struct {
	// Files maps collection name to the snapshot file written for it.
	Files map[string]string

	// Documents maps collection name to the number of records exported.
	Documents map[string]int
}

// Export serializes every record of every collection to pretty-printed
// JSON files under outDir (created if absent), one array per collection.
//
// Generated identifiers and date values are not JSON-native, so they are
// normalized to strings first: ObjectIDs to their hex form, timestamps to
// RFC 3339. The snapshot is portable and independent of the live store.
func (s *Setup) Export(ctx context.Context, outDir string) (*ExportResult, error) {
	if outDir == "" {
		outDir = s.opts.OutDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	res := &ExportResult{
		Files:     make(map[string]string),
		Documents: make(map[string]int),
	}
	var errs []error

	for _, name := range CollectionNames() {
		docs, err := s.fetchAll(ctx, name)
		if err != nil {
			errs = append(errs, err)
			s.logger.Warn("export.fetch.error", "collection", name, "err", err)
			continue
		}

		path := filepath.Join(outDir, name+"_sample.json")
		if err := writeSnapshot(path, docs); err != nil {
			errs = append(errs, err)
			s.logger.Warn("export.write.error", "collection", name, "err", err)
			continue
		}

		res.Files[name] = path
		res.Documents[name] = len(docs)
		exportMetricsAdd(name, len(docs))
		s.logger.Info("export.written", "collection", name, "file", path, "documents", len(docs))
	}

	s.report.Export = res
	return res, errors.Join(errs...)
}

// fetchAll reads every document of a collection and normalizes it for JSON.
func (s *Setup) fetchAll(ctx context.Context, coll string) ([]map[string]any, error) {
	cur, err := s.db.Collection(coll).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll, err)
	}

	docs := make([]map[string]any, 0, len(raw))
	for _, d := range raw {
		docs = append(docs, NormalizeDocument(d))
	}
	return docs, nil
}

// writeSnapshot writes the documents as a pretty-printed JSON array.
// An empty collection still produces a file holding an empty array.
func writeSnapshot(path string, docs []map[string]any) error {
	if docs == nil {
		docs = []map[string]any{}
	}
	f, err := os.Create(path) //nolint:gosec // G304: path built from configured output dir
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := output.JSONTo(f, docs); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// NormalizeDocument returns doc with every non-JSON-native value replaced
// by its canonical string form, recursing into nested documents and arrays.
func NormalizeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = NormalizeValue(v)
	}
	return out
}

// NormalizeValue converts a single BSON value for JSON export: ObjectIDs
// become hex strings, date values become RFC 3339 strings, and containers
// are normalized element-wise. JSON-native values pass through unchanged.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case primitive.Null:
		return nil
	case bson.M:
		return NormalizeDocument(t)
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = NormalizeValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeValue(e)
		}
		return out
	default:
		return v
	}
}
