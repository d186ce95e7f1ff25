package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReview_JSONRoundTrip(t *testing.T) {
	original := Review{
		ReviewID:      "rev-123",
		AppID:         "com.grab.passenger",
		Text:          "Great app, love the new update 😀",
		OriginalScore: 5,
		Timestamp:     1723475612,
	}

	body, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded Review
	err = json.Unmarshal(body, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestReview_JSONRoundTrip_EmptyText(t *testing.T) {
	original := Review{
		ReviewID:      "rev-456",
		AppID:         "com.shopee.my",
		Text:          "",
		OriginalScore: 1,
		Timestamp:     1723475612,
	}

	body, err := json.Marshal(original)
	assert.NoError(t, err)

	var decoded Review
	err = json.Unmarshal(body, &decoded)
	assert.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestValidLabel(t *testing.T) {
	assert.True(t, ValidLabel(LabelNegative))
	assert.True(t, ValidLabel(LabelNeutral))
	assert.True(t, ValidLabel(LabelPositive))
	assert.False(t, ValidLabel("angry"))
	assert.False(t, ValidLabel(""))
}
