package repository

import (
	"context"

	"go.uber.org/zap"

	"lsx-portal/internal/metrics"
	"lsx-portal/internal/notion"
)

// Store is the subset of the document store client the repositories use.
type Store interface {
	QueryDatabase(ctx context.Context, databaseID string, q notion.QueryRequest) (*notion.QueryResponse, error)
	GetPage(ctx context.Context, pageID string) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, props map[string]any) (*notion.Page, error)
	CreatePage(ctx context.Context, databaseID string, props map[string]any) (*notion.Page, error)
}

// PageSize is the largest page the store serves.
const PageSize = 100

// WalkDatabase follows the continuation cursor until the store reports no
// more pages and returns every document in order. A failed page ends the
// walk early: the documents gathered so far are returned with truncated set,
// never an error.
func WalkDatabase(ctx context.Context, store Store, databaseID string, q notion.QueryRequest, logger *zap.Logger) (pages []notion.Page, truncated bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	q.StartCursor = ""
	if q.PageSize == 0 {
		q.PageSize = PageSize
	}

	seen := map[string]struct{}{}
	for n := 1; ; n++ {
		resp, err := store.QueryDatabase(ctx, databaseID, q)
		if err != nil {
			metrics.WalkTruncations.Inc()
			logger.Warn("walk truncated",
				zap.String("database", databaseID),
				zap.Int("page", n),
				zap.Int("documents", len(pages)),
				zap.Error(err))
			return pages, true
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return pages, false
		}
		if _, dup := seen[*resp.NextCursor]; dup {
			logger.Warn("walk stopped on repeated cursor",
				zap.String("database", databaseID),
				zap.String("cursor", *resp.NextCursor))
			return pages, true
		}
		seen[*resp.NextCursor] = struct{}{}
		q.StartCursor = *resp.NextCursor
	}
}
