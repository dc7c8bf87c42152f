package rating

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/rating"
)

// Aggregator keeps GuideProfile.rating equal to the aggregate of the
// guide's approved reviews. Every call recomputes from scratch.
type Aggregator struct {
	repo domain.Repository
	log  *zap.Logger
}

func NewAggregator(repo domain.Repository, log *zap.Logger) *Aggregator {
	return &Aggregator{
		repo: repo,
		log:  log.Named("rating"),
	}
}

// Recompute reloads the approved reviews of the guide and stores the new
// snapshot. found is false when the guide has no profile, in which case
// nothing is written.
func (a *Aggregator) Recompute(
	ctx context.Context,
	guideUserID uint,
) (snap domain.Snapshot, found bool, err error) {

	scores, err := a.repo.ListApprovedScores(ctx, guideUserID)
	if err != nil {
		return domain.Snapshot{}, false, err
	}

	snap = domain.Compute(scores)

	found, err = a.repo.SaveSnapshot(ctx, guideUserID, snap)
	if err != nil {
		return domain.Snapshot{}, false, err
	}
	if !found {
		a.log.Warn("guide profile missing, rating not stored", zap.Uint("guide_user_id", guideUserID))
		return snap, false, nil
	}

	a.log.Debug("rating recomputed",
		zap.Uint("guide_user_id", guideUserID),
		zap.Float64("average", snap.Average),
		zap.Int("count", snap.Count),
	)
	return snap, true, nil
}

// Refresh runs Recompute after a review mutation. Failures are logged and
// never reach the caller, the review change has already been stored.
func (a *Aggregator) Refresh(ctx context.Context, guideUserID uint) {
	if _, _, err := a.Recompute(ctx, guideUserID); err != nil {
		a.log.Error("rating recompute failed", zap.Uint("guide_user_id", guideUserID), zap.Error(err))
	}
}

// RecomputeAll refreshes every guide profile and returns how many were
// updated. It stops at the first storage error.
func (a *Aggregator) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := a.repo.ListGuideUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		_, found, err := a.Recompute(ctx, id)
		if err != nil {
			return updated, err
		}
		if found {
			updated++
		}
	}

	a.log.Info("ratings recomputed", zap.Int("guides", updated))
	return updated, nil
}
