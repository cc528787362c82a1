package services

import (
	"context"
	"strings"

	"lsx-portal/internal/models"
	"lsx-portal/internal/repository"
)

type NewsService struct {
	news *repository.NewsRepository
}

func NewNewsService(news *repository.NewsRepository) *NewsService {
	return &NewsService{news: news}
}

func (s *NewsService) List(ctx context.Context, category string) ([]models.NewsItem, error) {
	category = strings.TrimSpace(category)
	switch {
	case category == "":
	case strings.EqualFold(category, models.NewsCategoryNews):
		category = models.NewsCategoryNews
	case strings.EqualFold(category, models.NewsCategoryRules):
		category = models.NewsCategoryRules
	default:
		return nil, invalid("category must be News or Rules")
	}
	return s.news.List(ctx, category), nil
}
