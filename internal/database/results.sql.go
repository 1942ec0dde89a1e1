package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const upsertAnalysesResults = `-- name: UpsertAnalysesResults :exec
INSERT INTO analyses_results (
results, session_id)
VALUES ( $1, $2)
ON CONFLICT (session_id)
DO UPDATE SET
    results = EXCLUDED.results,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertAnalysesResultsParams struct {
	Results   json.RawMessage
	SessionID uuid.UUID
}

func (q *Queries) UpsertAnalysesResults(ctx context.Context, arg UpsertAnalysesResultsParams) error {
	_, err := q.db.ExecContext(ctx, upsertAnalysesResults, arg.Results, arg.SessionID)
	return err
}
