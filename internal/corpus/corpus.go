// Package corpus loads the immutable knowledge-base and material tables.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edulab-cloud/mentor/internal/domain"
)

// Catalog holds the corpus tables. It is built once at startup, never
// mutated afterwards, and shared read-only across concurrent requests.
type Catalog struct {
	Entries   []domain.KnowledgeEntry
	Materials []domain.Material
}

// Load reads both corpus tables from JSON files. A missing file yields an
// empty table rather than an error; a malformed file fails the load.
func Load(kbPath, materialsPath string) (*Catalog, error) {
	var c Catalog

	if err := loadFile(kbPath, &c.Entries); err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	if err := loadFile(materialsPath, &c.Materials); err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}

	return &c, nil
}

func loadFile(path string, out any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Questions returns the knowledge-base questions in corpus order.
func (c *Catalog) Questions() []string {
	qs := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		qs[i] = e.Question
	}
	return qs
}

// Answers returns the knowledge-base answers in corpus order.
func (c *Catalog) Answers() []string {
	as := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		as[i] = e.Answer
	}
	return as
}

// MaterialTags returns the tags of the material with the given id.
// Unknown ids yield nil.
func (c *Catalog) MaterialTags(id string) []string {
	for _, m := range c.Materials {
		if m.ID == id {
			return m.Tags
		}
	}
	return nil
}
