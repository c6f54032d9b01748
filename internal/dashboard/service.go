package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"veridesk/internal/backend"
	"veridesk/internal/session"
	dErrors "veridesk/pkg/domain-errors"
	"veridesk/pkg/platform/sentinel"
)

const (
	gatherTimeout = 10 * time.Second
	recentLimit   = 5
)

// Overview is the landing-page payload: aggregate verification counters plus
// the most recent applicants and flows, gathered in one round trip.
type Overview struct {
	Stats            backend.Stats       `json:"stats"`
	RecentApplicants []backend.Applicant `json:"recentApplicants"`
	RecentFlows      []backend.Flow      `json:"recentFlows"`
	FetchedAt        time.Time           `json:"fetchedAt"`
}

type Service struct {
	client backend.Client
	logger *slog.Logger
}

func NewService(client backend.Client, logger *slog.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Overview fetches stats, recent applicants, and recent flows in parallel
// with shared context cancellation. The first platform failure cancels the
// remaining fetches.
func (s *Service) Overview(ctx context.Context, sess *session.Session) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, gatherTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	out := &Overview{FetchedAt: time.Now().UTC()}

	g.Go(func() error {
		stats, err := s.client.Stats(ctx, sess.PlatformToken)
		if err != nil {
			return err
		}
		out.Stats = stats
		return nil
	})

	g.Go(func() error {
		page, err := s.client.ListApplicants(ctx, sess.PlatformToken, backend.ListParams{Page: 1, Limit: recentLimit})
		if err != nil {
			return err
		}
		out.RecentApplicants = page.Applicants
		return nil
	})

	g.Go(func() error {
		flows, err := s.client.ListFlows(ctx, sess.PlatformToken)
		if err != nil {
			return err
		}
		if len(flows) > recentLimit {
			flows = flows[:recentLimit]
		}
		out.RecentFlows = flows
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dashboard aggregation failed", "error", err)
		return nil, platformError(err)
	}
	return out, nil
}

func platformError(err error) error {
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return dErr
	}
	switch {
	case errors.Is(err, sentinel.ErrUnauthorized):
		return dErrors.New(dErrors.CodeUnauthorized, "platform rejected the session, log in again")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.New(dErrors.CodeUnavailable, "verification platform is unavailable")
	default:
		return dErrors.New(dErrors.CodeInternal, "dashboard aggregation failed")
	}
}
