// Package classify assigns urgency and category to inquiries.
package classify

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Classifier derives a Classification from an inquiry's question text. It is
// invoked exactly once per inquiry; the caller substitutes
// model.DefaultClassification on error.
type Classifier interface {
	Classify(ctx context.Context, question string) (model.Classification, error)
}

// knownCategories are the labels the classifier is asked to choose from.
var knownCategories = []string{
	"kubernetes", "database", "network", "security", "deployment", "monitoring", "other",
}

// ClaudeClassifier classifies inquiries with a Claude model.
type ClaudeClassifier struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeClassifier creates a classifier using ambient API credentials. An
// empty model name selects a small fast model; classification is a cheap
// labeling call, not a reasoning task.
func NewClaudeClassifier(modelName string) *ClaudeClassifier {
	m := anthropic.ModelClaudeHaiku4_5
	if modelName != "" {
		m = anthropic.Model(modelName)
	}
	return &ClaudeClassifier{client: anthropic.NewClient(), model: m}
}

// Classify asks the model for urgency and category labels.
func (c *ClaudeClassifier) Classify(ctx context.Context, question string) (model.Classification, error) {
	prompt := buildClassifyPrompt(question)

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					{OfText: &anthropic.TextBlockParam{Text: prompt}},
				},
			},
		},
	})
	if err != nil {
		return model.Classification{}, fmt.Errorf("classification request failed: %w", err)
	}

	var rawText string
	for _, block := range msg.Content {
		if block.Type == "text" {
			rawText += block.Text
		}
	}
	return ParseClassification(rawText)
}

func buildClassifyPrompt(question string) string {
	var sb strings.Builder
	sb.WriteString("Classify this infrastructure inquiry:\n\n")
	sb.WriteString(fmt.Sprintf("Question: %s\n\n", question))
	sb.WriteString("Determine:\n")
	sb.WriteString("1. Urgency: low, normal, high, critical\n")
	sb.WriteString(fmt.Sprintf("2. Category: %s\n\n", strings.Join(knownCategories, ", ")))
	sb.WriteString("Respond in this exact format:\n")
	sb.WriteString("URGENCY: <level>\n")
	sb.WriteString("CATEGORY: <category>\n")
	return sb.String()
}

// ParseClassification extracts urgency and category from a line-oriented
// model response. The parser is tolerant: missing or malformed lines leave
// the default of that field in place rather than failing the whole
// classification.
func ParseClassification(raw string) (model.Classification, error) {
	cls := model.DefaultClassification()
	found := false

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "URGENCY":
			cls.Urgency = model.ParseUrgency(value)
			found = true
		case "CATEGORY":
			if value != "" {
				cls.Category = value
				found = true
			}
		}
	}

	if !found {
		return cls, fmt.Errorf("no classification fields in response: %q", strings.TrimSpace(raw))
	}
	return cls, nil
}
