// Package catalog reads the static KPI catalog fixture.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	ErrCatalogRead  = errors.New("kpi catalog could not be read")
	ErrCatalogParse = errors.New("kpi catalog is not valid JSON")
)

// Reader loads the fixture at Path. The file is read again on every call.
type Reader struct {
	Path string
}

func NewReader(path string) *Reader {
	return &Reader{Path: path}
}

type sectionTag struct {
	Section interface{} `json:"section"`
}

// Load returns the catalog. Without a section the document is returned as
// it is on disk. With a section the document must be an array, and only the
// entries whose "section" equals it are kept, unchanged and in file order.
func (r *Reader) Load(ctx context.Context, section string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogRead, err)
	}

	if section == "" {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogParse, r.Path)
		}
		return json.RawMessage(bytes.TrimSpace(raw)), nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}

	matched := make([]json.RawMessage, 0)
	for _, entry := range entries {
		var tag sectionTag
		if err := json.Unmarshal(entry, &tag); err != nil {
			continue
		}
		if s, ok := tag.Section.(string); ok && s == section {
			matched = append(matched, entry)
		}
	}

	out, err := json.Marshal(matched)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogParse, err)
	}
	return out, nil
}
