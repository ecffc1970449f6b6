package service

import (
	"context"
	"errors"

	"github.com/ignatzorin/gig-marketplace/internal/apperr"
	"github.com/ignatzorin/gig-marketplace/internal/models"
	"github.com/ignatzorin/gig-marketplace/internal/repository"
)

// CatalogRepo описывает источник справочника категорий.
type CatalogRepo interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// CatalogService отдаёт справочник категорий.
type CatalogService struct {
	repo CatalogRepo
}

// NewCatalogService создаёт сервис каталога.
func NewCatalogService(repo CatalogRepo) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListCategories возвращает активные категории в порядке сортировки.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// GetCategory возвращает категорию по slug.
func (s *CatalogService) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperr.NotFound("категория не найдена")
		}
		return nil, err
	}
	return category, nil
}
