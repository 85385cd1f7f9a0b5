package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lungchat/internal/interview"
)

var assessmentColumns = []string{
	"id", "session_id", "started_at", "finished_at", "phase", "predictor",
	"has_prediction", "prediction", "guidance", "answers", "transcript",
	"error_message",
}

// NewAssessment converts an interview snapshot into a history row.
func NewAssessment(snap interview.Snapshot, predictor string) (*Assessment, error) {
	answers, err := json.Marshal(snap.Record)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}
	transcript, err := json.Marshal(snap.Transcript)
	if err != nil {
		return nil, fmt.Errorf("marshal transcript: %w", err)
	}
	return &Assessment{
		SessionID:     snap.SessionID,
		StartedAt:     snap.StartedAt,
		FinishedAt:    snap.FinishedAt,
		Phase:         snap.Phase.String(),
		Predictor:     predictor,
		HasPrediction: snap.HasPrediction,
		Prediction:    snap.Prediction,
		Guidance:      snap.Guidance,
		Answers:       answers,
		Transcript:    transcript,
		ErrorMessage:  snap.ErrorMessage,
	}, nil
}

// Field is one encoded answer.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Fields decodes the stored answers in questionnaire order.
func (a *Assessment) Fields() ([]Field, error) {
	if len(a.Answers) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(a.Answers))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("answers: expected object")
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("answers: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("answers: unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("answers %s: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: v})
	}
	return fields, nil
}

// TranscriptEntries decodes the stored transcript.
func (a *Assessment) TranscriptEntries() ([]interview.TranscriptEntry, error) {
	if len(a.Transcript) == 0 {
		return nil, nil
	}
	var entries []interview.TranscriptEntry
	if err := json.Unmarshal(a.Transcript, &entries); err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	return entries, nil
}

type assessmentRepo struct {
	drv *entsql.Driver
}

func (r *assessmentRepo) Save(ctx context.Context, a *Assessment) error {
	if a.SessionID == "" {
		return fmt.Errorf("save assessment: session id is required")
	}

	query, args := builder.Insert(tableAssessments).
		Columns(assessmentColumns[1:]...).
		Values(
			a.SessionID, toMillis(a.StartedAt), toMillis(a.FinishedAt), a.Phase,
			a.Predictor, a.HasPrediction, a.Prediction, a.Guidance,
			string(a.Answers), string(a.Transcript), a.ErrorMessage,
		).
		OnConflict(
			entsql.ConflictColumns("session_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}

	// LastInsertId is unreliable when the upsert took the update path.
	query, args = builder.Select("id").
		From(entsql.Table(tableAssessments)).
		Where(entsql.EQ("session_id", a.SessionID)).
		Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("lookup assessment id: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return fmt.Errorf("lookup assessment id: %w", sql.ErrNoRows)
	}
	return rows.Scan(&a.ID)
}

func (r *assessmentRepo) Get(ctx context.Context, id int64) (*Assessment, error) {
	query, args := builder.Select(assessmentColumns...).
		From(entsql.Table(tableAssessments)).
		Where(entsql.EQ("id", id)).
		Query()
	list, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get assessment %d: %w", id, err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *assessmentRepo) List(ctx context.Context, opts QueryOpts) ([]Assessment, error) {
	sel := builder.Select(assessmentColumns...).
		From(entsql.Table(tableAssessments)).
		OrderBy(entsql.Desc("id"))
	applyRange(sel, "started_at", opts)

	query, args := sel.Query()
	list, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return list, nil
}

func (r *assessmentRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.drv, tableAssessments)
}

func (r *assessmentRepo) query(ctx context.Context, query string, args []any) ([]Assessment, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var (
			a                   Assessment
			started, finished   int64
			answers, transcript string
		)
		if err := rows.Scan(
			&a.ID, &a.SessionID, &started, &finished, &a.Phase, &a.Predictor,
			&a.HasPrediction, &a.Prediction, &a.Guidance, &answers, &transcript,
			&a.ErrorMessage,
		); err != nil {
			return nil, err
		}
		a.StartedAt = fromMillis(started)
		a.FinishedAt = fromMillis(finished)
		a.Answers = json.RawMessage(answers)
		a.Transcript = json.RawMessage(transcript)
		out = append(out, a)
	}
	return out, rows.Err()
}

func applyRange(sel *entsql.Selector, column string, opts QueryOpts) {
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(column, toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(column, toMillis(opts.To)))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func deleteAll(ctx context.Context, drv *entsql.Driver, table string) (int64, error) {
	query, args := builder.Delete(table).Query()
	var res sql.Result
	if err := drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return n, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
