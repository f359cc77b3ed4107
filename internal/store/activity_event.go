package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const activityEventsTable = "activity_events"

var activityColumns = []string{
	"id", "sequence", "created_at", "kind", "unit_key", "lesson_index",
	"forced", "session_id", "score", "total", "percent",
}

func (r *eventRepo) AppendActivity(ctx context.Context, data ActivityEventData) error {
	if data.Kind != ActivityLessonPass && data.Kind != ActivityQuizResult {
		return fmt.Errorf("unknown activity kind %q", data.Kind)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().
		Insert(activityEventsTable).
		Columns(activityColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(), data.Kind,
			data.UnitKey, data.LessonIndex, boolToInt(data.Forced),
			data.SessionID, data.Score, data.Total, data.Percent,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save activity event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEvent, error) {
	sel := builder().
		Select(activityColumns...).
		From(entsql.Table(activityEventsTable)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", opts.Kind))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var events []ActivityEvent
	for rows.Next() {
		var (
			e         ActivityEvent
			createdAt int64
			forced    int
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &createdAt, &e.Kind, &e.UnitKey, &e.LessonIndex,
			&forced, &e.SessionID, &e.Score, &e.Total, &e.Percent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		e.Timestamp = time.UnixMilli(createdAt)
		e.Forced = forced != 0
		events = append(events, e)
	}
	return events, rows.Err()
}
