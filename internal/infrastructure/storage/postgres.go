package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"pulse/internal/domain"
	"pulse/internal/ports"
)

// PostgresStore persists channel history and report rows, and serves the
// trailing-window baselines computed from stored messages.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.MessageStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Messages returns the stored channel history within the trailing
// business-day window, oldest first.
func (s *PostgresStore) Messages(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error) {
	if s.db == nil {
		return nil, nil
	}

	oldest := domain.BusinessWindowStart(time.Now(), windowDays)
	query, args, err := s.builder.
		Select("message_id", "user_id", "text", "ts", "thread_id", "reply_count").
		From("messages").
		Where(sq.Eq{"channel_id": channelID}).
		Where(sq.GtOrEq{"ts": oldest}).
		OrderBy("ts ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build messages query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var threadID sql.NullString
		var replyCount sql.NullInt64
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.Timestamp, &threadID, &replyCount); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.ThreadID = threadID.String
		msg.ReplyCount = int(replyCount.Int64)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return messages, nil
}

// SaveBatch upserts the batch keyed on message id and reports how many rows
// were genuinely new. Replayed messages never double-count.
func (s *PostgresStore) SaveBatch(ctx context.Context, channelID string, messages []domain.Message) (int, error) {
	if s.db == nil || len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.ID
	}

	existing, err := s.existingIDs(ctx, channelID, ids)
	if err != nil {
		return 0, err
	}

	insert := s.builder.
		Insert("messages").
		Columns("message_id", "channel_id", "user_id", "text", "ts", "date", "thread_id", "reply_count").
		Suffix("ON CONFLICT (message_id) DO NOTHING")

	saved := 0
	for _, msg := range messages {
		if existing[msg.ID] {
			continue
		}
		query, args, err := insert.
			Values(msg.ID, channelID, msg.UserID, msg.Text, msg.Timestamp, msg.Timestamp.Format("2006-01-02"), msg.ThreadID, msg.ReplyCount).
			ToSql()
		if err != nil {
			return saved, fmt.Errorf("build insert: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return saved, fmt.Errorf("insert message %s: %w", msg.ID, err)
		}
		saved++
	}
	return saved, nil
}

func (s *PostgresStore) existingIDs(ctx context.Context, channelID string, ids []string) (map[string]bool, error) {
	query := `SELECT message_id FROM messages WHERE channel_id = $1 AND message_id = ANY($2)`

	rows, err := s.db.QueryContext(ctx, query, channelID, pq.StringArray(ids))
	if err != nil {
		return nil, fmt.Errorf("query existing ids: %w", err)
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		existing[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return existing, nil
}

// UserBaseline computes one user's historical average over the trailing
// window. Returns nil when the user has no stored activity in it.
func (s *PostgresStore) UserBaseline(ctx context.Context, userID, channelID string, windowDays int) (*domain.Baseline, error) {
	return s.baseline(ctx, windowDays, sq.Eq{"channel_id": channelID, "user_id": userID})
}

// ChannelBaseline computes the whole channel's historical average over the
// trailing window. Returns nil when the channel has no stored activity.
func (s *PostgresStore) ChannelBaseline(ctx context.Context, channelID string, windowDays int) (*domain.Baseline, error) {
	return s.baseline(ctx, windowDays, sq.Eq{"channel_id": channelID})
}

func (s *PostgresStore) baseline(ctx context.Context, windowDays int, where sq.Eq) (*domain.Baseline, error) {
	if s.db == nil || windowDays <= 0 {
		return nil, nil
	}

	since := time.Now().AddDate(0, 0, -windowDays)
	query, args, err := s.builder.
		Select("COUNT(*)", "COUNT(DISTINCT date)").
		From("messages").
		Where(where).
		Where(sq.GtOrEq{"ts": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build baseline query: %w", err)
	}

	var total, daysActive int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total, &daysActive); err != nil {
		return nil, fmt.Errorf("query baseline: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	// Averages spread over the whole window, not only the active days.
	return &domain.Baseline{
		TotalMessages:     total,
		DaysActive:        daysActive,
		AvgMessagesPerDay: round2(float64(total) / float64(windowDays)),
		ParticipationRate: round2(float64(daysActive) / float64(windowDays) * 100),
	}, nil
}

// SaveReport upserts the run summary keyed on channel and date, so a rerun
// for the same day replaces the earlier row.
func (s *PostgresStore) SaveReport(ctx context.Context, report domain.AnalysisReport) error {
	if s.db == nil {
		return nil
	}

	query, args, err := s.builder.
		Insert("analysis_reports").
		Columns(
			"run_id", "channel_id", "analysis_date",
			"total_messages", "active_users", "updates_count", "decisions_count", "blockers_count",
			"sentiment_score", "team_health_score", "content", "sent",
		).
		Values(
			report.RunID, report.ChannelID, report.Date.Format("2006-01-02"),
			report.TotalMessages, report.ActiveUsers, report.UpdatesCount, report.DecisionsCount, report.BlockersCount,
			report.SentimentScore, report.TeamHealthScore, report.Content, report.Sent,
		).
		Suffix(`ON CONFLICT (channel_id, analysis_date) DO UPDATE
			SET run_id = EXCLUDED.run_id,
			    total_messages = EXCLUDED.total_messages,
			    active_users = EXCLUDED.active_users,
			    updates_count = EXCLUDED.updates_count,
			    decisions_count = EXCLUDED.decisions_count,
			    blockers_count = EXCLUDED.blockers_count,
			    sentiment_score = EXCLUDED.sentiment_score,
			    team_health_score = EXCLUDED.team_health_score,
			    content = EXCLUDED.content,
			    sent = EXCLUDED.sent,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build report upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
