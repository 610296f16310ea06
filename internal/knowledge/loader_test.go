package knowledge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/knowledge"
)

const validKB = `version: 1
entries:
  - id: restart-nginx
    question: How do I restart nginx?
    answer: Run systemctl restart nginx on the host.
    category: network
    tags: [nginx, ops]
  - id: scale-pods
    question: How do I scale a deployment?
    answer: kubectl scale deployment/<name> --replicas=N
    category: kubernetes
`

func TestLoadValid(t *testing.T) {
	entries, err := knowledge.Load([]byte(validKB))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "restart-nginx", entries[0].ID)
	assert.Equal(t, "How do I restart nginx?", entries[0].Question)
	assert.Equal(t, "network", entries[0].Category)
	assert.Equal(t, []string{"nginx", "ops"}, entries[0].Tags)
	assert.Equal(t, "scale-pods", entries[1].ID)
}

func TestLoadMissingVersion(t *testing.T) {
	_, err := knowledge.Load([]byte("entries: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version field is required")
}

func TestLoadUnsupportedVersion(t *testing.T) {
	_, err := knowledge.Load([]byte("version: 2\nentries: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported knowledge base version")
}

func TestLoadSchemaViolation(t *testing.T) {
	// Entry missing the answer field.
	doc := `version: 1
entries:
  - id: broken
    question: Where is the answer?
`
	_, err := knowledge.Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadDuplicateIDs(t *testing.T) {
	doc := `version: 1
entries:
  - id: dup
    question: q1
    answer: a1
  - id: dup
    question: q2
    answer: a2
`
	_, err := knowledge.Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate knowledge entry id")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validKB), 0o644))

	entries, err := knowledge.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = knowledge.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	md := `---
id: rotate-certs
question: How do I rotate TLS certificates?
category: security
tags: [tls]
---
Use cert-manager; certificates renew automatically 30 days before expiry.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "certs.md"), []byte(md), 0o644))

	// ID defaults to the filename without extension.
	noID := `---
question: How do I check DNS records?
---
Use dig against the internal resolver.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dns.md"), []byte(noID), 0o644))

	// Non-markdown files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	entries, err := knowledge.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Lexical file order.
	assert.Equal(t, "rotate-certs", entries[0].ID)
	assert.Equal(t, "security", entries[0].Category)
	assert.Contains(t, entries[0].Answer, "cert-manager")
	assert.Equal(t, "dns", entries[1].ID)
}

func TestLoadDirMissingQuestion(t *testing.T) {
	dir := t.TempDir()
	md := `---
id: broken
---
Body without a question.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte(md), 0o644))

	_, err := knowledge.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}

func TestLoadDirEmptyBody(t *testing.T) {
	dir := t.TempDir()
	md := `---
id: empty
question: Where did the answer go?
---
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.md"), []byte(md), 0o644))

	_, err := knowledge.LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "answer body is required")
}
