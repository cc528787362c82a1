package services

import (
	"context"

	"lsx-portal/dto"
	"lsx-portal/internal/models"
	"lsx-portal/internal/repository"
)

type GalleryService struct {
	events *repository.EventRepository
}

func NewGalleryService(events *repository.EventRepository) *GalleryService {
	return &GalleryService{events: events}
}

// Columns splits events with pictures into two columns, alternating so the
// newest lands on the left.
func (s *GalleryService) Columns(ctx context.Context) dto.Gallery {
	events := s.events.WithPhotos(ctx)
	g := dto.Gallery{Total: len(events)}
	g.Left = make([]models.Event, 0, (len(events)+1)/2)
	g.Right = make([]models.Event, 0, len(events)/2)
	for i, ev := range events {
		if i%2 == 0 {
			g.Left = append(g.Left, ev)
		} else {
			g.Right = append(g.Right, ev)
		}
	}
	return g
}
