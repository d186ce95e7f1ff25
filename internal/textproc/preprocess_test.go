package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeline_Vectorize_FixedDimension(t *testing.T) {
	pipeline := New(128, DefaultStopwords)

	inputs := []string{
		"",
		"ok",
		"Great app, works perfectly",
		"😀😀😀",
		"テスト レビュー mixed language review",
		strings.Repeat("very long review text ", 500),
	}

	for _, input := range inputs {
		vec := pipeline.Vectorize(input)
		assert.Len(t, vec, 128, "input %q should produce a 128-dim vector", input)
	}
}

func TestPipeline_Vectorize_EmptyTextIsZeroVector(t *testing.T) {
	pipeline := New(64, DefaultStopwords)

	assert.True(t, IsZero(pipeline.Vectorize("")))
	// All-stop-word text also carries no features
	assert.True(t, IsZero(pipeline.Vectorize("it is the a an")))
	assert.False(t, IsZero(pipeline.Vectorize("crash")))
}

func TestPipeline_Vectorize_Deterministic(t *testing.T) {
	pipeline := New(256, DefaultStopwords)

	text := "The app keeps crashing after the latest update"
	first := pipeline.Vectorize(text)
	second := pipeline.Vectorize(text)

	assert.Equal(t, first, second)
}

func TestPipeline_Tokenize(t *testing.T) {
	pipeline := New(64, DefaultStopwords)

	tokens := pipeline.Tokenize("The App CRASHED!! 😡 after update...")

	assert.Equal(t, []string{"crashed", "after", "update"}, tokens)
}

func TestPipeline_Tokenize_DropsStopwordsAndFragments(t *testing.T) {
	pipeline := New(64, []string{"app"})

	tokens := pipeline.Tokenize("a A app x great")

	assert.Equal(t, []string{"great"}, tokens)
}
