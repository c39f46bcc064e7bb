package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/supportbot/internal/db"
)

// Failed-query counting thresholds. These differ from the response
// decision ladder's thresholds on purpose; the two tests are independent.
const (
	failedConfidence = 0.35
	failedSimilarity = 0.60
)

// Store persists query analytics to SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates an analytics store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// LogQuery appends a turn to the query log and returns the stored record.
func (s *Store) LogQuery(ctx context.Context, r Record) (*Record, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_log (id, timestamp, session_id, query, intents, confidence, similarity, response_time_ms, response_category, feedback)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.SessionID, r.Query, joinIntents(r.Intents),
		r.Confidence, r.Similarity, r.ResponseTime.Milliseconds(), r.Category, r.Feedback,
	)
	if err != nil {
		return nil, fmt.Errorf("logging query: %w", err)
	}
	return &r, nil
}

// LogFailed appends a low-quality turn to the failed-query log.
func (s *Store) LogFailed(ctx context.Context, r FailedRecord) (*FailedRecord, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO failed_queries (id, timestamp, session_id, query, intents, confidence, similarity, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, r.SessionID, r.Query, joinIntents(r.Intents),
		r.Confidence, r.Similarity, r.Reason,
	)
	if err != nil {
		return nil, fmt.Errorf("logging failed query: %w", err)
	}
	return &r, nil
}

// UpdateFeedback records user feedback for a logged query.
func (s *Store) UpdateFeedback(ctx context.Context, recordID, feedback string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE query_log SET feedback = ? WHERE id = ?`, feedback, recordID)
	if err != nil {
		return fmt.Errorf("updating feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("query record %s not found", recordID)
	}
	return nil
}

// GetStatistics aggregates the query log.
func (s *Store) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{IntentDistribution: map[string]int{}}

	var avgMs float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(confidence), 0), COALESCE(AVG(similarity), 0), COALESCE(AVG(response_time_ms), 0)
		 FROM query_log`,
	).Scan(&stats.TotalQueries, &stats.AvgConfidence, &stats.AvgSimilarity, &avgMs)
	if err != nil {
		return nil, fmt.Errorf("aggregating query log: %w", err)
	}
	stats.AvgResponseTime = time.Duration(avgMs * float64(time.Millisecond))

	if stats.TotalQueries == 0 {
		return stats, nil
	}

	var withFeedback, positive int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN feedback = ? THEN 1 ELSE 0 END), 0)
		 FROM query_log WHERE feedback != ''`, FeedbackPositive,
	).Scan(&withFeedback, &positive)
	if err != nil {
		return nil, fmt.Errorf("aggregating feedback: %w", err)
	}
	if withFeedback > 0 {
		stats.SatisfactionRate = float64(positive) / float64(withFeedback) * 100
	}

	rows, err := s.db.QueryContext(ctx, `SELECT intents FROM query_log WHERE intents != ''`)
	if err != nil {
		return nil, fmt.Errorf("querying intents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning intents: %w", err)
		}
		for _, it := range strings.Split(raw, "|") {
			if it != "" {
				stats.IntentDistribution[it]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM query_log WHERE confidence < ? OR similarity < ?`,
		failedConfidence, failedSimilarity,
	).Scan(&stats.FailedQueries)
	if err != nil {
		return nil, fmt.Errorf("counting failed queries: %w", err)
	}

	return stats, nil
}

// RecentFailed returns the most recent failed queries, newest first.
func (s *Store) RecentFailed(ctx context.Context, limit int) ([]FailedRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, session_id, query, intents, confidence, similarity, reason
		 FROM failed_queries ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying failed queries: %w", err)
	}
	defer rows.Close()

	var records []FailedRecord
	for rows.Next() {
		var r FailedRecord
		var intents string
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.SessionID, &r.Query, &intents, &r.Confidence, &r.Similarity, &r.Reason); err != nil {
			return nil, fmt.Errorf("scanning failed query: %w", err)
		}
		r.Intents = splitIntents(intents)
		records = append(records, r)
	}
	return records, rows.Err()
}

func joinIntents(intents []string) string {
	return strings.Join(intents, "|")
}

func splitIntents(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "|")
}
