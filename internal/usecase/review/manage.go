package review

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/review"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// Manage holds the operations on an existing review. Every change that can
// affect the approved set or a score refreshes the guide's rating.
type Manage struct {
	repo    domain.Repository
	ratings RatingRefresher
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewManage(
	repo domain.Repository,
	ratings RatingRefresher,
	audit *audit.Dispatcher,
) *Manage {
	return &Manage{
		repo:    repo,
		ratings: ratings,
		audit:   audit,
		now:     time.Now,
	}
}

func (uc *Manage) load(ctx context.Context, id uint) (*models.Review, error) {
	rv, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		return nil, httperr.ErrBusiness(httperr.CodeReviewNotFound)
	}
	return rv, nil
}

// ------------------------------------------------------
// Update (author)
// ------------------------------------------------------

type UpdateReviewInput struct {
	Actor   access.Actor
	ID      uint
	Rating  domain.ScoresInput
	Comment *string
}

func (uc *Manage) Update(ctx context.Context, in UpdateReviewInput) (*models.Review, error) {
	rv, err := uc.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if rv.TouristID != in.Actor.UserID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	if in.Rating.Empty() && in.Comment == nil {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "Nothing to update")
	}

	scores, err := domain.ApplyScores(rv.Rating, in.Rating)
	if err != nil {
		return nil, err
	}
	rv.Rating = scores
	if in.Comment != nil {
		rv.Comment = *in.Comment
	}

	if err := uc.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	uc.ratings.Refresh(ctx, rv.GuideID)
	uc.dispatch(in.Actor, audit.ActionReviewUpdated, rv, nil)
	return rv, nil
}

// ------------------------------------------------------
// Delete (author or admin)
// ------------------------------------------------------

func (uc *Manage) Delete(ctx context.Context, actor access.Actor, id uint) error {
	rv, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && rv.TouristID != actor.UserID {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := uc.repo.Delete(ctx, rv); err != nil {
		return err
	}

	uc.ratings.Refresh(ctx, rv.GuideID)
	uc.dispatch(actor, audit.ActionReviewDeleted, rv, map[string]any{"guide_id": rv.GuideID})
	return nil
}

// ------------------------------------------------------
// Moderate (admin)
// ------------------------------------------------------

func (uc *Manage) Moderate(ctx context.Context, actor access.Actor, id uint, approved bool) (*models.Review, error) {
	rv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rv.IsApproved = approved
	if err := uc.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	uc.ratings.Refresh(ctx, rv.GuideID)
	uc.dispatch(actor, audit.ActionReviewModerated, rv, map[string]any{"is_approved": approved})
	return rv, nil
}

// ------------------------------------------------------
// Respond (reviewed guide)
// ------------------------------------------------------

func (uc *Manage) Respond(ctx context.Context, actor access.Actor, id uint, response string) (*models.Review, error) {
	rv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.GuideID != actor.UserID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	now := uc.now().UTC()
	rv.GuideResponse = response
	rv.RespondedAt = &now

	if err := uc.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	uc.dispatch(actor, audit.ActionReviewResponded, rv, nil)
	return rv, nil
}

// ------------------------------------------------------
// List (public)
// ------------------------------------------------------

func (uc *Manage) ListForGuide(ctx context.Context, guideUserID uint, page, limit int) ([]models.Review, int64, error) {
	return uc.repo.ListApprovedForGuide(ctx, guideUserID, page, limit)
}

func (uc *Manage) dispatch(actor access.Actor, action string, rv *models.Review, meta any) {
	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "review",
		EntityID: &rv.ID,
		Metadata: meta,
	})
}
