package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var llmColumns = []string{
	"id", "timestamp", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

type llmRepo struct {
	drv *entsql.Driver
}

func (r *llmRepo) AppendLLMRequest(ctx context.Context, req LLMRequest) error {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query, args := builder.Insert(tableLLMRequests).
		Columns(llmColumns[1:]...).
		Values(
			toMillis(ts), req.Provider, req.Model, req.Purpose,
			req.InputTokens, req.OutputTokens, req.LatencyMs, req.Success,
			req.ErrorMessage, req.RequestBody, req.ResponseBody,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request: %w", err)
	}
	return nil
}

func (r *llmRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequest, error) {
	sel := builder.Select(llmColumns...).
		From(entsql.Table(tableLLMRequests)).
		OrderBy(entsql.Desc("id"))
	applyRange(sel, "timestamp", opts)

	query, args := sel.Query()
	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	return out, nil
}

func (r *llmRepo) GetLLMRequest(ctx context.Context, id int64) (*LLMRequest, error) {
	query, args := builder.Select(llmColumns...).
		From(entsql.Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()
	out, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get LLM request %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *llmRepo) UsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *llmRepo) UsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model")
}

func (r *llmRepo) DeleteAll(ctx context.Context) (int64, error) {
	return deleteAll(ctx, r.drv, tableLLMRequests)
}

func (r *llmRepo) usage(ctx context.Context, column string) ([]LLMUsage, error) {
	query, args := builder.Select(
		column,
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(tableLLMRequests)).
		GroupBy(column).
		OrderBy(column).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Name, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("LLM usage by %s: %w", column, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *llmRepo) query(ctx context.Context, query string, args []any) ([]LLMRequest, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		var (
			req LLMRequest
			ts  int64
		)
		if err := rows.Scan(
			&req.ID, &ts, &req.Provider, &req.Model, &req.Purpose,
			&req.InputTokens, &req.OutputTokens, &req.LatencyMs, &req.Success,
			&req.ErrorMessage, &req.RequestBody, &req.ResponseBody,
		); err != nil {
			return nil, err
		}
		req.Timestamp = fromMillis(ts)
		out = append(out, req)
	}
	return out, rows.Err()
}
