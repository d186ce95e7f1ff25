package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewstream/review-analytics-service/internal/domain"
	"github.com/reviewstream/review-analytics-service/internal/textproc"
)

const testDim = 4096

var seedTexts = map[string]string{
	domain.LabelNegative: "terrible broken hate crash useless",
	domain.LabelNeutral:  "okay decent average acceptable",
	domain.LabelPositive: "love great awesome excellent amazing",
}

// writeScenarioArtifact builds an artifact whose weights are derived
// from the hashed encoding of one seed text per class, so each seed
// text is confidently classified as its own class.
func writeScenarioArtifact(t *testing.T) string {
	t.Helper()

	pipeline := textproc.New(testDim, nil)

	artifact := Artifact{
		Version:   "test-1",
		Dim:       testDim,
		Labels:    domain.Labels,
		Stopwords: textproc.DefaultStopwords,
		Weights:   make([][]float64, len(domain.Labels)),
		// Slight neutral bias so the zero vector maps to neutral
		Bias: []float64{0, 0.5, 0},
	}

	for c, label := range domain.Labels {
		row := make([]float64, testDim)
		for i, v := range pipeline.Vectorize(seedTexts[label]) {
			row[i] = 2 * v
		}
		artifact.Weights[c] = row
	}

	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sentiment.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_DimensionMismatch(t *testing.T) {
	artifact := Artifact{
		Version: "test-1",
		Dim:     8,
		Labels:  domain.Labels,
		Weights: [][]float64{
			make([]float64, 8),
			make([]float64, 4), // wrong
			make([]float64, 8),
		},
		Bias: []float64{0, 0, 0},
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_BiasMismatch(t *testing.T) {
	artifact := Artifact{
		Version: "test-1",
		Dim:     8,
		Labels:  domain.Labels,
		Weights: [][]float64{
			make([]float64, 8),
			make([]float64, 8),
			make([]float64, 8),
		},
		Bias: []float64{0, 0},
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestPredict_LabelAndProbabilityContract(t *testing.T) {
	m, err := Load(writeScenarioArtifact(t))
	require.NoError(t, err)

	pipeline := textproc.New(m.Dim(), m.Stopwords())

	inputs := []string{
		"",
		"love this update",
		"the app is terrible and keeps crashing",
		"some unrelated words entirely",
	}

	for _, input := range inputs {
		label, probs := m.Predict(pipeline.Vectorize(input))

		assert.True(t, domain.ValidLabel(label), "input %q produced label %q", input, label)
		assert.Len(t, probs, 3)

		var sum float64
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	m, err := Load(writeScenarioArtifact(t))
	require.NoError(t, err)

	pipeline := textproc.New(m.Dim(), m.Stopwords())
	features := pipeline.Vectorize("the app is okay but sometimes slow")

	label1, probs1 := m.Predict(features)
	label2, probs2 := m.Predict(features)

	assert.Equal(t, label1, label2)
	assert.Equal(t, probs1, probs2)
}

// Three reviews with scores 5, 3, 1 and clearly positive, neutral and
// negative text come out with the matching labels.
func TestPredict_ScoreLabelOrdering(t *testing.T) {
	m, err := Load(writeScenarioArtifact(t))
	require.NoError(t, err)

	pipeline := textproc.New(m.Dim(), m.Stopwords())

	cases := []struct {
		score int
		text  string
		want  string
	}{
		{5, seedTexts[domain.LabelPositive], domain.LabelPositive},
		{3, seedTexts[domain.LabelNeutral], domain.LabelNeutral},
		{1, seedTexts[domain.LabelNegative], domain.LabelNegative},
	}

	for _, tc := range cases {
		label, _ := m.Predict(pipeline.Vectorize(tc.text))
		assert.Equal(t, tc.want, label, "score %d text %q", tc.score, tc.text)
	}
}

func TestPredict_EmptyTextDefaultsToNeutral(t *testing.T) {
	m, err := Load(writeScenarioArtifact(t))
	require.NoError(t, err)

	pipeline := textproc.New(m.Dim(), m.Stopwords())

	label, _ := m.Predict(pipeline.Vectorize(""))
	assert.Equal(t, domain.LabelNeutral, label)
}
