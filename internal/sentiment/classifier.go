package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocksy/internal/api"
	"stocksy/internal/interfaces"
)

// HuggingFace calls a text-classification model on the Hugging Face inference API.
type HuggingFace struct {
	client *api.Client
	model  string
}

var _ interfaces.Classifier = (*HuggingFace)(nil)

func NewHuggingFace(baseURL, model, apiKey string, timeout time.Duration) *HuggingFace {
	return &HuggingFace{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithBearerToken(apiKey),
			api.WithLogging(true),
		),
		model: strings.Trim(model, "/"),
	}
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns every label/score pair the model produced for text.
func (h *HuggingFace) Classify(ctx context.Context, text string) ([]interfaces.Prediction, error) {
	resp, err := h.client.POST(ctx, "/models/"+h.model, map[string]any{"inputs": text})
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			var body struct {
				Error string `json:"error"`
			}
			if json.Unmarshal([]byte(se.Body), &body) == nil && body.Error != "" {
				return nil, fmt.Errorf("huggingface %d: %s", se.StatusCode, body.Error)
			}
		}
		return nil, fmt.Errorf("huggingface classify: %w", err)
	}
	return parsePredictions(resp.Body)
}

// parsePredictions accepts both [[{label,score}]] (batched) and [{label,score}].
func parsePredictions(body []byte) ([]interfaces.Prediction, error) {
	var nested [][]prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return nil, errors.New("huggingface returned no predictions")
		}
		return convert(nested[0])
	}

	var flat []prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse huggingface response: %w", err)
	}
	return convert(flat)
}

func convert(in []prediction) ([]interfaces.Prediction, error) {
	if len(in) == 0 {
		return nil, errors.New("huggingface returned no predictions")
	}
	out := make([]interfaces.Prediction, len(in))
	for i, p := range in {
		out[i] = interfaces.Prediction{Label: p.Label, Score: p.Score}
	}
	return out, nil
}
