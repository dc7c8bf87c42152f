// Package rating computes a guide's rating snapshot from the reviews that
// currently count towards it.
package rating

import (
	"context"
	"math"
)

// Scores is one approved review. Nil dimensions fall back to Overall.
type Scores struct {
	Overall       int
	Knowledge     *int
	Communication *int
	Punctuality   *int
}

type Breakdown struct {
	Knowledge     float64
	Communication float64
	Punctuality   float64
}

type Snapshot struct {
	Average   float64
	Count     int
	Breakdown Breakdown
}

// Compute derives the snapshot from the full set of approved reviews. It
// never looks at a previous snapshot, so running it again on the same input
// gives the same output. A dimension missing from a review counts as that
// review's overall score rather than being left out of the mean.
func Compute(reviews []Scores) Snapshot {
	if len(reviews) == 0 {
		return Snapshot{}
	}

	var overall, knowledge, communication, punctuality float64
	for _, r := range reviews {
		overall += float64(r.Overall)
		knowledge += float64(orOverall(r.Knowledge, r.Overall))
		communication += float64(orOverall(r.Communication, r.Overall))
		punctuality += float64(orOverall(r.Punctuality, r.Overall))
	}

	n := float64(len(reviews))
	return Snapshot{
		Average: Round1(overall / n),
		Count:   len(reviews),
		Breakdown: Breakdown{
			Knowledge:     Round1(knowledge / n),
			Communication: Round1(communication / n),
			Punctuality:   Round1(punctuality / n),
		},
	}
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func orOverall(v *int, overall int) int {
	if v == nil {
		return overall
	}
	return *v
}

type Repository interface {
	ListApprovedScores(ctx context.Context, guideUserID uint) ([]Scores, error)

	// SaveSnapshot writes onto the profile of guideUserID. found is false
	// when the guide has no profile.
	SaveSnapshot(ctx context.Context, guideUserID uint, s Snapshot) (found bool, err error)

	ListGuideUserIDs(ctx context.Context) ([]uint, error)
}
