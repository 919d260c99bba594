package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/feedtags-backend/internal/domain"
	"github.com/heartmarshall/feedtags-backend/internal/htmlclean"
	"github.com/heartmarshall/feedtags-backend/internal/tagging"
)

// Result is the tagging outcome of one post.
type Result struct {
	PostID      uuid.UUID
	Tags        []string
	BiGrams     []string
	Words       map[string][]string
	BiGramWords map[string][]string
}

// Summary counts the posts handled by a processing run.
type Summary struct {
	Owners    int
	Processed int
	Failed    int
}

func (s *Summary) add(o Summary) {
	s.Owners += o.Owners
	s.Processed += o.Processed
	s.Failed += o.Failed
}

// Tag computes the tags and bi-grams of a post from its title and the
// visible text of its HTML content. It does not touch storage.
func (s *Service) Tag(post domain.Post) (Result, error) {
	text, err := htmlclean.Text(post.Content)
	if err != nil {
		return Result{}, fmt.Errorf("clean post %s: %w", post.ID, err)
	}

	b := tagging.NewBuilder(s.tokenizer, s.classifier)
	b.ExtractTagsAndBiGrams(post.Title + " " + text)

	return Result{
		PostID:      post.ID,
		Tags:        b.Tags(),
		BiGrams:     b.BiGramKeys(),
		Words:       b.Words(),
		BiGramWords: b.BiGramWords(),
	}, nil
}

// ProcessPost tags a claimed post, stores its tags and counts it in the
// aggregates. The post must be in processing.
func (s *Service) ProcessPost(ctx context.Context, post domain.Post) (Result, error) {
	res, err := s.Tag(post)
	if err != nil {
		return Result{}, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.posts.SaveTags(txCtx, post.ID, res.Tags, res.BiGrams); err != nil {
			return fmt.Errorf("save tags: %w", err)
		}
		if err := s.sync.Ingest(txCtx, post.OwnerID, res.Tags, res.BiGrams, !post.Read); err != nil {
			return fmt.Errorf("ingest: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("process post %s: %w", post.ID, err)
	}

	return res, nil
}

// ProcessOwner claims and processes the owner's pending posts batch by
// batch. A failed post is released back to the idle state and the run stops
// after the batch it belongs to, so the post is retried on the next run.
func (s *Service) ProcessOwner(ctx context.Context, owner uuid.UUID) (Summary, error) {
	sum := Summary{Owners: 1}

	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		posts, err := s.posts.ClaimPending(ctx, owner, s.cfg.BatchSize)
		if err != nil {
			return sum, fmt.Errorf("claim pending posts: %w", err)
		}
		if len(posts) == 0 {
			return sum, nil
		}

		failed := 0
		for _, post := range posts {
			if _, err := s.ProcessPost(ctx, post); err != nil {
				failed++
				s.log.ErrorContext(ctx, "post processing failed",
					slog.String("owner_id", owner.String()),
					slog.String("post_id", post.ID.String()),
					slog.String("error", err.Error()),
				)
				if relErr := s.posts.Release(context.WithoutCancel(ctx), post.ID); relErr != nil {
					s.log.ErrorContext(ctx, "release post failed",
						slog.String("post_id", post.ID.String()),
						slog.String("error", relErr.Error()),
					)
				}
				continue
			}
			sum.Processed++
		}
		sum.Failed += failed

		if failed > 0 || len(posts) < s.cfg.BatchSize {
			return sum, nil
		}
	}
}

// ProcessPending processes the pending posts of every owner. Owners are
// handled concurrently, up to cfg.Workers at a time; posts of one owner are
// processed sequentially. The run is bounded by cfg.Timeout.
func (s *Service) ProcessPending(ctx context.Context) (Summary, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	owners, err := s.posts.PendingOwners(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list pending owners: %w", err)
	}

	var (
		mu    sync.Mutex
		total Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Workers, 1))

	for _, owner := range owners {
		g.Go(func() error {
			sum, err := s.ProcessOwner(gctx, owner)

			mu.Lock()
			total.add(sum)
			mu.Unlock()

			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("owner %s: %w", owner, err)
			}
			return nil
		})
	}

	err = g.Wait()

	s.log.InfoContext(ctx, "pending posts processed",
		slog.Int("owners", total.Owners),
		slog.Int("processed", total.Processed),
		slog.Int("failed", total.Failed),
	)

	if err == nil {
		err = ctx.Err()
	}
	return total, err
}
