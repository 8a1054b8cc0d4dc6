package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event types written by the store.
const (
	EventToggled      = "progress_toggled"
	EventPersisted    = "progress_persisted"
	EventReverted     = "progress_reverted"
	EventStaleFailure = "progress_stale_failure"
)

const journalTimeout = 5 * time.Second

// Event is one entry in the local progress journal.
type Event struct {
	CurriculumID string
	Type         string
	Key          Key
	Seq          uint64
	Data         map[string]any
	CreatedAt    time.Time
}

// EventLogger records progress events.
type EventLogger interface {
	LogEvent(event Event) error
}

// NopEventLogger ignores all events.
type NopEventLogger struct{}

func (NopEventLogger) LogEvent(Event) error {
	return nil
}

// MemoryEventLogger keeps events in memory for tests.
type MemoryEventLogger struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryEventLogger() *MemoryEventLogger {
	return &MemoryEventLogger{
		events: []Event{},
	}
}

func (l *MemoryEventLogger) LogEvent(event Event) error {
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()

	return nil
}

func (l *MemoryEventLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event{}, l.events...)
}

// OfType returns the recorded events with the given type.
func (l *MemoryEventLogger) OfType(eventType string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, e := range l.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// JournalSchema creates the table PostgresEventLogger writes to.
var JournalSchema = []string{
	`CREATE TABLE IF NOT EXISTS progress_events (
		id            BIGSERIAL PRIMARY KEY,
		curriculum_id TEXT        NOT NULL,
		event_type    TEXT        NOT NULL,
		progress_key  TEXT        NOT NULL DEFAULT '',
		seq           BIGINT      NOT NULL DEFAULT 0,
		data          JSONB       NOT NULL DEFAULT '{}'::jsonb,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS progress_events_curriculum_idx
		ON progress_events (curriculum_id, created_at)`,
}

// PostgresEventLogger inserts events into the progress_events table.
type PostgresEventLogger struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLogger(pool *pgxpool.Pool) *PostgresEventLogger {
	return &PostgresEventLogger{pool: pool}
}

func (l *PostgresEventLogger) LogEvent(event Event) error {
	if l == nil || l.pool == nil {
		return fmt.Errorf("event logger pool is nil")
	}
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if event.CurriculumID == "" {
		return fmt.Errorf("curriculum_id is required")
	}

	payload := event.Data
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	_, err = l.pool.Exec(ctx,
		`INSERT INTO progress_events (curriculum_id, event_type, progress_key, seq, data, created_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
		event.CurriculumID,
		event.Type,
		string(event.Key),
		int64(event.Seq),
		string(data),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	slog.Debug("progress event journaled",
		"type", event.Type,
		"curriculum_id", event.CurriculumID,
		"key", event.Key,
	)
	return nil
}

// History returns the journaled events of one curriculum, oldest first.
func (l *PostgresEventLogger) History(ctx context.Context, curriculumID string) ([]Event, error) {
	if l == nil || l.pool == nil {
		return nil, fmt.Errorf("event logger pool is nil")
	}

	rows, err := l.pool.Query(ctx,
		`SELECT curriculum_id, event_type, progress_key, seq, data, created_at
		 FROM progress_events
		 WHERE curriculum_id = $1
		 ORDER BY created_at ASC, id ASC`,
		curriculumID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var key string
		var seq int64
		var data []byte
		if err := rows.Scan(&e.CurriculumID, &e.Type, &key, &seq, &data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Key = Key(key)
		e.Seq = uint64(seq)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &e.Data); err != nil {
				return nil, fmt.Errorf("decode event data: %w", err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
