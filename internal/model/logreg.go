package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Artifact is the on-disk model bundle produced by offline training.
// The feature dimension and stop-word list are frozen at training time;
// the preprocessing pipeline must be built from them, not from
// independent configuration.
type Artifact struct {
	Version   string      `json:"version"`
	Dim       int         `json:"dim"`
	Labels    []string    `json:"labels"`
	Stopwords []string    `json:"stopwords"`
	Weights   [][]float64 `json:"weights"`
	Bias      []float64   `json:"bias"`
}

// LogisticRegression is a multinomial logistic-regression model over a
// hashed bag-of-words encoding, loaded from a JSON artifact.
type LogisticRegression struct {
	artifact Artifact
}

// Load reads and validates a model artifact from path. Any missing,
// unreadable or dimensionally inconsistent artifact is an error; the
// classifier treats that as fatal at startup.
func Load(path string) (*LogisticRegression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if err := validate(&artifact); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	return &LogisticRegression{artifact: artifact}, nil
}

func validate(a *Artifact) error {
	if a.Dim <= 0 {
		return fmt.Errorf("dim must be positive, got %d", a.Dim)
	}
	if len(a.Labels) == 0 {
		return fmt.Errorf("no labels")
	}
	if len(a.Weights) != len(a.Labels) {
		return fmt.Errorf("weights rows (%d) do not match labels (%d)", len(a.Weights), len(a.Labels))
	}
	if len(a.Bias) != len(a.Labels) {
		return fmt.Errorf("bias entries (%d) do not match labels (%d)", len(a.Bias), len(a.Labels))
	}
	for i, row := range a.Weights {
		if len(row) != a.Dim {
			return fmt.Errorf("weights row %d has %d entries, expected %d", i, len(row), a.Dim)
		}
	}
	return nil
}

// Predict computes class scores for the feature vector and returns the
// highest-probability label with the softmax probability vector.
// Inference is deterministic: the same features always yield the same
// label.
func (m *LogisticRegression) Predict(features []float64) (string, []float64) {
	scores := make([]float64, len(m.artifact.Labels))
	for c := range m.artifact.Labels {
		score := m.artifact.Bias[c]
		row := m.artifact.Weights[c]
		for i := 0; i < m.artifact.Dim && i < len(features); i++ {
			score += row[i] * features[i]
		}
		scores[c] = score
	}

	probs := softmax(scores)

	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}

	return m.artifact.Labels[best], probs
}

// Labels returns the class labels in artifact order.
func (m *LogisticRegression) Labels() []string {
	return m.artifact.Labels
}

// Dim returns the feature vector dimension the model was trained with.
func (m *LogisticRegression) Dim() int {
	return m.artifact.Dim
}

// Stopwords returns the stop-word list frozen at training time.
func (m *LogisticRegression) Stopwords() []string {
	return m.artifact.Stopwords
}

// Version returns the artifact version string.
func (m *LogisticRegression) Version() string {
	return m.artifact.Version
}

// softmax is numerically stabilized by subtracting the max score.
func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs
}
