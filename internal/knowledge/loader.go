package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// SupportedVersions lists all knowledge-base schema versions supported by
// this loader.
var SupportedVersions = []int{1}

// entriesSchema validates the v1 knowledge-base document shape before any
// entry is indexed.
const entriesSchema = `{
	"type": "object",
	"required": ["version", "entries"],
	"properties": {
		"version": {"type": "integer"},
		"entries": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "question", "answer"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"question": {"type": "string", "minLength": 1},
					"answer": {"type": "string", "minLength": 1},
					"category": {"type": "string"},
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var compiledEntriesSchema = jsonschema.MustCompileString("kb.schema.json", entriesSchema)

type kbFileV1 struct {
	Version int                    `yaml:"version"`
	Entries []model.KnowledgeEntry `yaml:"entries"`
}

type kbVersionHeader struct {
	Version *int `yaml:"version"`
}

// LoadFile loads knowledge entries from a YAML knowledge-base file with
// schema version validation.
func LoadFile(path string) ([]model.KnowledgeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Load(data)
}

// Load parses knowledge entries from YAML data.
func Load(data []byte) ([]model.KnowledgeEntry, error) {
	var header kbVersionHeader
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if header.Version == nil {
		return nil, errors.New("version field is required")
	}
	switch *header.Version {
	case 1:
		return loadV1(data)
	default:
		return nil, fmt.Errorf("unsupported knowledge base version: %d (supported: %v)", *header.Version, SupportedVersions)
	}
}

func loadV1(data []byte) ([]model.KnowledgeEntry, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if err := compiledEntriesSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("knowledge base validation failed: %w", err)
	}

	var file kbFileV1
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if err := checkDuplicateIDs(file.Entries); err != nil {
		return nil, err
	}
	return file.Entries, nil
}

// entryFrontmatter is the frontmatter shape for Markdown knowledge entries.
// The Markdown body is the answer.
type entryFrontmatter struct {
	ID       string   `yaml:"id"`
	Question string   `yaml:"question"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

// LoadDir loads knowledge entries from a directory of Markdown files with
// YAML frontmatter. File order is lexical, which fixes the tie-break order of
// the index.
func LoadDir(dir string) ([]model.KnowledgeEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge dir: %w", err)
	}

	var entries []model.KnowledgeEntry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", de.Name(), err)
		}

		var fm entryFrontmatter
		body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
		if err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter in %s: %w", de.Name(), err)
		}
		if fm.Question == "" {
			return nil, fmt.Errorf("%s: question is required", de.Name())
		}
		answer := strings.TrimSpace(string(body))
		if answer == "" {
			return nil, fmt.Errorf("%s: answer body is required", de.Name())
		}
		id := fm.ID
		if id == "" {
			id = strings.TrimSuffix(de.Name(), ".md")
		}
		entries = append(entries, model.KnowledgeEntry{
			ID:       id,
			Question: fm.Question,
			Answer:   answer,
			Category: fm.Category,
			Tags:     fm.Tags,
		})
	}
	if err := checkDuplicateIDs(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func checkDuplicateIDs(entries []model.KnowledgeEntry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("duplicate knowledge entry id: %q", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}
