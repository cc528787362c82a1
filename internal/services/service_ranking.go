package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"lsx-portal/dto"
	"lsx-portal/internal/cache"
	"lsx-portal/internal/metrics"
	"lsx-portal/internal/models"
	"lsx-portal/internal/ranking"
	"lsx-portal/internal/repository"
)

const (
	ViewOverall = "overall"
	ViewJunior  = "junior"
)

// SnapshotStore is the optional archive of daily rankings.
type SnapshotStore interface {
	Save(ctx context.Context, s models.RankingSnapshot) error
	Recent(ctx context.Context, limit int64) ([]models.RankingSnapshot, error)
}

// Projection is one cached pass over the member collection.
type Projection struct {
	Records []ranking.MemberRecord
	Views   ranking.Views
	Partial bool
	AsOf    time.Time
}

type RankingService struct {
	members   *repository.MemberRepository
	events    *repository.EventRepository
	snapshots SnapshotStore
	clock     ranking.Clock
	logger    *zap.Logger
	memo      *cache.Memo[Projection]
}

// NewRankingService wires the projection pipeline. snapshots and events may
// be nil.
func NewRankingService(members *repository.MemberRepository, events *repository.EventRepository, snapshots SnapshotStore, clock ranking.Clock, ttl time.Duration, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RankingService{
		members:   members,
		events:    events,
		snapshots: snapshots,
		clock:     clock,
		logger:    logger,
	}
	s.memo = cache.NewMemo(ttl, s.project)
	return s
}

func (s *RankingService) project(ctx context.Context) (Projection, error) {
	started := time.Now()
	asOf := s.clock.Today()

	pages, truncated := s.members.All(ctx)
	records := ranking.FromPages(pages, s.members.Fields(), asOf)
	views := ranking.Project(records)

	metrics.ProjectionSeconds.Observe(time.Since(started).Seconds())
	metrics.ProjectedMembers.WithLabelValues(ViewOverall).Set(float64(len(views.Overall)))
	metrics.ProjectedMembers.WithLabelValues(ViewJunior).Set(float64(len(views.Junior)))
	s.logger.Info("ranking projected",
		zap.Int("members", len(views.Overall)),
		zap.Int("juniors", len(views.Junior)),
		zap.Bool("partial", truncated),
		zap.Duration("took", time.Since(started)))

	p := Projection{Records: records, Views: views, Partial: truncated, AsOf: asOf}
	if s.snapshots != nil && !truncated && len(records) > 0 {
		if err := s.snapshots.Save(ctx, s.snapshotOf(p)); err != nil {
			s.logger.Warn("archive snapshot", zap.Error(err))
		}
	}
	return p, nil
}

// Current returns the cached projection, recomputing it when expired.
func (s *RankingService) Current(ctx context.Context) Projection {
	p, err := s.memo.Get(ctx)
	if err != nil {
		s.logger.Warn("ranking unavailable", zap.Error(err))
		return Projection{Views: ranking.Project(nil), AsOf: s.clock.Today()}
	}
	return p
}

// Invalidate drops the cached projection after a profile write.
func (s *RankingService) Invalidate() {
	s.memo.Invalidate()
}

// Leaderboard returns one view filtered by a case-insensitive name
// substring and an exact rank group.
func (s *RankingService) Leaderboard(ctx context.Context, view, query, group string) (dto.LeaderboardResponse, error) {
	p := s.Current(ctx)

	var rows []ranking.Row
	switch view {
	case ViewOverall, "":
		view = ViewOverall
		rows = p.Views.Overall
	case ViewJunior:
		rows = p.Views.Junior
	default:
		return dto.LeaderboardResponse{}, invalid("view must be overall or junior")
	}

	rows = FilterRows(rows, query, group)
	return dto.LeaderboardResponse{
		View:    view,
		Total:   len(rows),
		Partial: p.Partial,
		AsOf:    p.AsOf,
		Rows:    rows,
	}, nil
}

func FilterRows(rows []ranking.Row, query, group string) []ranking.Row {
	query = strings.ToLower(strings.TrimSpace(query))
	group = strings.TrimSpace(group)
	if query == "" && group == "" {
		return rows
	}

	out := make([]ranking.Row, 0, len(rows))
	for _, r := range rows {
		if query != "" && !strings.Contains(strings.ToLower(r.DisplayName), query) {
			continue
		}
		if group != "" && r.RankGroup != group {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Stats summarizes the projection. Participation is events attended over
// the number of events, averaged across members.
func (s *RankingService) Stats(ctx context.Context) dto.LeaderboardStats {
	p := s.Current(ctx)

	totalEvents := 0
	if s.events != nil {
		totalEvents = s.events.Count(ctx)
	}

	stats := dto.LeaderboardStats{
		Members:     len(p.Records),
		Juniors:     len(p.Views.Junior),
		TotalEvents: totalEvents,
		Groups:      map[string]int{},
	}

	var ratioSum float64
	for _, r := range p.Records {
		if r.OverallRankParsed != ranking.UnrankedSentinel {
			stats.Ranked++
		}
		stats.Groups[r.RankGroup]++
		if totalEvents > 0 {
			ratioSum += min(float64(r.EventsAttended)/float64(totalEvents), 1)
		}
	}
	if totalEvents > 0 && len(p.Records) > 0 {
		stats.AverageParticipation = ratioSum / float64(len(p.Records))
	}
	return stats
}

func snapshotRows(rows []ranking.Row, junior bool) []models.SnapshotRow {
	out := make([]models.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		score := r.OverallScore
		if junior {
			score = r.JuniorScore
		}
		out = append(out, models.SnapshotRow{
			MemberID:    r.ID,
			DisplayName: r.DisplayName,
			DisplayRank: r.DisplayRank,
			Score:       score,
			RankGroup:   r.RankGroup,
		})
	}
	return out
}

func (s *RankingService) snapshotOf(p Projection) models.RankingSnapshot {
	return models.RankingSnapshot{
		TakenOn: p.AsOf.Format(time.DateOnly),
		TakenAt: s.clock.Now().UTC(),
		Overall: snapshotRows(p.Views.Overall, false),
		Junior:  snapshotRows(p.Views.Junior, true),
		Partial: p.Partial,
	}
}

// Archive stores today's snapshot of the current projection. A partial or
// empty projection is refused so it cannot overwrite a complete snapshot
// taken earlier the same day.
func (s *RankingService) Archive(ctx context.Context) (models.RankingSnapshot, error) {
	if s.snapshots == nil {
		return models.RankingSnapshot{}, ErrArchiveDisabled
	}
	p := s.Current(ctx)
	if p.Partial || len(p.Records) == 0 {
		return models.RankingSnapshot{}, ErrUnavailable
	}
	snap := s.snapshotOf(p)
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return models.RankingSnapshot{}, err
	}
	return snap, nil
}

func (s *RankingService) History(ctx context.Context, limit int64) ([]models.RankingSnapshot, error) {
	if s.snapshots == nil {
		return nil, ErrArchiveDisabled
	}
	if limit <= 0 || limit > 90 {
		limit = 30
	}
	return s.snapshots.Recent(ctx, limit)
}
