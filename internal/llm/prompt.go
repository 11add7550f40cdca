package llm

import (
	"encoding/json"
	"strings"

	"github.com/nirupam89/SentimentAnalyzer/internal/domain"
	apperrors "github.com/nirupam89/SentimentAnalyzer/internal/errors"
)

// systemPrompt instructs the model to answer with a machine-readable
// classification. Ollama's format=json mode makes the JSON shape reliable
// for most models; parseClassification still tolerates free-form output.
const systemPrompt = `You are a sentiment classifier. Classify the sentiment of the user's text.
Respond with a JSON object of exactly this shape:
{"label": "<POSITIVE|NEGATIVE|NEUTRAL|MIXED>", "confidence": <number between 0.0 and 1.0>}
Do not add any other text.`

// fallbackConfidence is assigned when the backend answered with a
// recognizable label but no usable confidence value.
const fallbackConfidence = 0.5

type classificationPayload struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// parseClassification turns raw model output into a Classification.
// It first tries the structured JSON contract, then falls back to scanning
// the text for a label token. Anything else is a MalformedError.
func parseClassification(content, model string) (*domain.Classification, error) {
	var payload classificationPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.Label != "" {
		label, ok := domain.ParseSentiment(strings.ToUpper(strings.TrimSpace(payload.Label)))
		if !ok {
			return nil, apperrors.MalformedError("backend returned unknown sentiment label", nil).
				WithField("label", payload.Label)
		}
		if payload.Confidence < 0 || payload.Confidence > 1 {
			return nil, apperrors.MalformedError("backend confidence out of range", nil).
				WithField("confidence", payload.Confidence)
		}
		return &domain.Classification{Label: label, Confidence: payload.Confidence, Model: model}, nil
	}

	if label, ok := extractLabel(content); ok {
		return &domain.Classification{Label: label, Confidence: fallbackConfidence, Model: model}, nil
	}

	return nil, apperrors.MalformedError("backend response contains no sentiment label", nil).
		WithField("content", truncate(content, 200))
}

// extractLabel scans free-form output for the first occurrence of a label
// from the fixed taxonomy.
func extractLabel(content string) (domain.Sentiment, bool) {
	upper := strings.ToUpper(content)

	best := domain.Sentiment("")
	bestIdx := -1
	for _, label := range []domain.Sentiment{
		domain.SentimentPositive,
		domain.SentimentNegative,
		domain.SentimentNeutral,
		domain.SentimentMixed,
	} {
		idx := strings.Index(upper, string(label))
		if idx >= 0 && (bestIdx < 0 || idx < bestIdx) {
			best = label
			bestIdx = idx
		}
	}

	return best, bestIdx >= 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
