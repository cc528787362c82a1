package repository

import (
	"context"

	"go.uber.org/zap"

	"lsx-portal/config"
	"lsx-portal/internal/models"
	"lsx-portal/internal/notion"
)

type NewsRepository struct {
	store  Store
	dbID   string
	fields config.NewsSchema
	logger *zap.Logger
}

func NewNewsRepository(store Store, dbID string, fields config.NewsSchema, logger *zap.Logger) *NewsRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsRepository{store: store, dbID: dbID, fields: fields, logger: logger}
}

// List returns the feed newest first, optionally restricted to a category.
func (r *NewsRepository) List(ctx context.Context, category string) []models.NewsItem {
	if r.dbID == "" {
		return []models.NewsItem{}
	}
	q := notion.QueryRequest{
		Sorts: []notion.Sort{{Property: r.fields.Date, Direction: "descending"}},
	}
	if category != "" {
		q.Filter = notion.PropertyFilter(r.fields.Category, "select", "equals", category)
	}
	pages, _ := WalkDatabase(ctx, r.store, r.dbID, q, r.logger)

	items := make([]models.NewsItem, 0, len(pages))
	for _, page := range pages {
		p := page.Properties
		items = append(items, models.NewsItem{
			ID:       page.ID,
			Title:    p.Text(r.fields.Title, "(untitled)"),
			Date:     p.Date(r.fields.Date),
			Category: p.Text(r.fields.Category, models.NewsCategoryNews),
			Body:     p.Text(r.fields.Body, ""),
			Link:     p.URL(r.fields.Link),
		})
	}
	return items
}
