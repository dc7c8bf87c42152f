package review

import (
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/rating"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5
)

type ScoresInput struct {
	Overall       *int `json:"overall"`
	Knowledge     *int `json:"knowledge"`
	Communication *int `json:"communication"`
	Punctuality   *int `json:"punctuality"`
}

// NewScores validates a rating for a new review. Overall is mandatory and
// every dimension not supplied takes the overall value.
func NewScores(in ScoresInput) (models.ReviewScores, error) {
	if in.Overall == nil {
		return models.ReviewScores{}, httperr.ErrBusinessf(httperr.CodeInvalidRating, "Overall rating is required")
	}
	if err := validate(in); err != nil {
		return models.ReviewScores{}, err
	}

	overall := *in.Overall
	return models.ReviewScores{
		Overall:       overall,
		Knowledge:     withDefault(in.Knowledge, overall),
		Communication: withDefault(in.Communication, overall),
		Punctuality:   withDefault(in.Punctuality, overall),
	}, nil
}

// ApplyScores merges the supplied fields onto existing scores. Fields left
// out keep their stored value.
func ApplyScores(current models.ReviewScores, in ScoresInput) (models.ReviewScores, error) {
	if err := validate(in); err != nil {
		return current, err
	}

	out := current
	if in.Overall != nil {
		out.Overall = *in.Overall
	}
	if in.Knowledge != nil {
		out.Knowledge = copyInt(in.Knowledge)
	}
	if in.Communication != nil {
		out.Communication = copyInt(in.Communication)
	}
	if in.Punctuality != nil {
		out.Punctuality = copyInt(in.Punctuality)
	}
	return out, nil
}

func (in ScoresInput) Empty() bool {
	return in.Overall == nil && in.Knowledge == nil && in.Communication == nil && in.Punctuality == nil
}

func ToRating(s models.ReviewScores) rating.Scores {
	return rating.Scores{
		Overall:       s.Overall,
		Knowledge:     s.Knowledge,
		Communication: s.Communication,
		Punctuality:   s.Punctuality,
	}
}

func validate(in ScoresInput) error {
	for _, v := range []*int{in.Overall, in.Knowledge, in.Communication, in.Punctuality} {
		if v != nil && (*v < MinScore || *v > MaxScore) {
			return httperr.ErrBusiness(httperr.CodeInvalidRating)
		}
	}
	return nil
}

func withDefault(v *int, def int) *int {
	if v == nil {
		return &def
	}
	return copyInt(v)
}

func copyInt(v *int) *int {
	c := *v
	return &c
}
