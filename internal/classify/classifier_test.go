package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinkerloft/opsdesk/internal/classify"
	"github.com/tinkerloft/opsdesk/internal/model"
)

func TestParseClassification(t *testing.T) {
	cls, err := classify.ParseClassification("URGENCY: high\nCATEGORY: database\n")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyHigh, cls.Urgency)
	assert.Equal(t, "database", cls.Category)
}

func TestParseClassificationToleratesNoise(t *testing.T) {
	raw := `Sure, here is the classification:

URGENCY: Critical
CATEGORY: Kubernetes

Let me know if you need anything else.`
	cls, err := classify.ParseClassification(raw)
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyCritical, cls.Urgency)
	assert.Equal(t, "kubernetes", cls.Category)
}

func TestParseClassificationMediumMapsToNormal(t *testing.T) {
	cls, err := classify.ParseClassification("URGENCY: medium\nCATEGORY: network")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyNormal, cls.Urgency)
}

func TestParseClassificationPartial(t *testing.T) {
	// Only urgency present: category keeps its default.
	cls, err := classify.ParseClassification("URGENCY: low")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyLow, cls.Urgency)
	assert.Equal(t, model.CategoryUnclassified, cls.Category)

	// Only category present: urgency keeps its default.
	cls, err = classify.ParseClassification("CATEGORY: security")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyNormal, cls.Urgency)
	assert.Equal(t, "security", cls.Category)
}

func TestParseClassificationEmptyCategoryIgnored(t *testing.T) {
	cls, err := classify.ParseClassification("URGENCY: high\nCATEGORY:")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyHigh, cls.Urgency)
	assert.Equal(t, model.CategoryUnclassified, cls.Category)
}

func TestParseClassificationNoFields(t *testing.T) {
	cls, err := classify.ParseClassification("I cannot classify this.")
	require.Error(t, err)
	// Even on error the returned value is the safe default, so a careless
	// caller still escalates correctly.
	assert.Equal(t, model.DefaultClassification(), cls)
}

func TestParseClassificationCaseInsensitiveKeys(t *testing.T) {
	cls, err := classify.ParseClassification("urgency: high\ncategory: monitoring")
	require.NoError(t, err)
	assert.Equal(t, model.UrgencyHigh, cls.Urgency)
	assert.Equal(t, "monitoring", cls.Category)
}
