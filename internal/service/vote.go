package service

import (
	"context"
	"log/slog"
	"time"

	"folio/internal/domain/models"
	"folio/internal/domain/repositories"
	"folio/internal/domain/services"
	"folio/internal/events"
)

// voteService implements the VoteService interface
type voteService struct {
	pageRepo  repositories.PageRepository
	voteRepo  repositories.VoteRepository
	txManager repositories.TransactionManager
	bus       events.Publisher
	logger    *slog.Logger
}

// NewVoteService creates a new vote service
func NewVoteService(
	pageRepo repositories.PageRepository,
	voteRepo repositories.VoteRepository,
	txManager repositories.TransactionManager,
	bus events.Publisher,
	logger *slog.Logger,
) services.VoteService {
	return &voteService{
		pageRepo:  pageRepo,
		voteRepo:  voteRepo,
		txManager: txManager,
		bus:       bus,
		logger:    logger,
	}
}

// Vote applies one of three transitions to the caller's vote state:
// none -> direction (tally +1), same direction (no-op), opposite
// direction (one unit moves between tallies). Tallies always equal the
// number of addresses in each state.
func (s *voteService) Vote(ctx context.Context, caller string, pageID int64, like bool) (*models.VoteTally, error) {
	next := models.VoteDisliked
	if like {
		next = models.VoteLiked
	}

	var (
		tally   *models.VoteTally
		changed bool
	)

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		page, err := s.pageRepo.GetForUpdate(ctx, pageID)
		if err != nil {
			return err
		}

		prev, err := s.voteRepo.Get(ctx, pageID, caller)
		if err != nil {
			return err
		}
		if prev == next {
			// Re-voting the same direction is idempotent.
			tally = &models.VoteTally{
				PageID:        pageID,
				TotalLikes:    page.TotalLikes,
				TotalDislikes: page.TotalDislikes,
			}
			return nil
		}

		var likesDelta, dislikesDelta int64
		switch prev {
		case models.VoteLiked:
			likesDelta--
		case models.VoteDisliked:
			dislikesDelta--
		}
		switch next {
		case models.VoteLiked:
			likesDelta++
		case models.VoteDisliked:
			dislikesDelta++
		}

		if err := s.voteRepo.Set(ctx, pageID, caller, next); err != nil {
			return err
		}
		tally, err = s.pageRepo.AdjustVoteTotals(ctx, pageID, likesDelta, dislikesDelta)
		if err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Debug("vote recorded",
			"page_id", pageID,
			"voter", caller,
			"state", next,
		)
		s.bus.Publish(events.Event{
			Type:          events.TypeVoteChanged,
			PageID:        pageID,
			TotalLikes:    tally.TotalLikes,
			TotalDislikes: tally.TotalDislikes,
			At:            time.Now().UTC(),
		})
	}

	return tally, nil
}
