package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

func ptr(v int) *int { return &v }

func TestNewScores_DefaultsDimensions(t *testing.T) {
	s, err := NewScores(ScoresInput{Overall: ptr(4), Punctuality: ptr(2)})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Overall)
	assert.Equal(t, 4, *s.Knowledge)
	assert.Equal(t, 4, *s.Communication)
	assert.Equal(t, 2, *s.Punctuality)
}

func TestNewScores_RequiresOverall(t *testing.T) {
	_, err := NewScores(ScoresInput{Knowledge: ptr(4)})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRating))
}

func TestNewScores_RejectsOutOfRange(t *testing.T) {
	_, err := NewScores(ScoresInput{Overall: ptr(6)})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRating))

	_, err = NewScores(ScoresInput{Overall: ptr(3), Communication: ptr(0)})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRating))
}

func TestApplyScores_KeepsUnsuppliedFields(t *testing.T) {
	current := models.ReviewScores{Overall: 5, Knowledge: ptr(5), Communication: ptr(5), Punctuality: ptr(5)}

	out, err := ApplyScores(current, ScoresInput{Overall: ptr(3), Knowledge: ptr(2)})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Overall)
	assert.Equal(t, 2, *out.Knowledge)
	assert.Equal(t, 5, *out.Communication)
	assert.Equal(t, 5, *out.Punctuality)
	assert.Equal(t, 5, *current.Knowledge, "input scores must not be mutated")
}

func TestToRating(t *testing.T) {
	r := ToRating(models.ReviewScores{Overall: 4})
	assert.Equal(t, 4, r.Overall)
	assert.Nil(t, r.Knowledge)
}
