package properties

import (
	"context"
	"errors"

	"estate_crm_backend/internal/properties/domain"
	"estate_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service wraps the repository with input mapping and typed errors.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreatePropertyRequest) (PropertyResponse, error) {
	property, err := s.repo.Create(ctx, CreatePropertyParams{
		Title:         req.Title,
		City:          req.City,
		Area:          req.Area,
		PropertyType:  domain.PropertyType(req.PropertyType),
		Configuration: req.Configuration,
		Price:         req.Price,
		Status:        domain.PropertyStatus(req.Status),
	})
	if err != nil {
		return PropertyResponse{}, err
	}
	return toPropertyResponse(property), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (PropertyResponse, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PropertyResponse{}, mapNotFound(err)
	}
	return toPropertyResponse(property), nil
}

func (s *Service) List(ctx context.Context, filter ListPropertiesFilter) ([]PropertyResponse, error) {
	listings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PropertyResponse, len(listings))
	for i, p := range listings {
		responses[i] = toPropertyResponse(p)
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (PropertyResponse, error) {
	params := UpdatePropertyParams{
		Title:         req.Title,
		City:          req.City,
		Area:          req.Area,
		Configuration: req.Configuration,
		Price:         req.Price,
	}
	if req.PropertyType != nil {
		t := domain.PropertyType(*req.PropertyType)
		params.PropertyType = &t
	}
	if req.Status != nil {
		st := domain.PropertyStatus(*req.Status)
		params.Status = &st
	}

	property, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return PropertyResponse{}, mapNotFound(err)
	}
	return toPropertyResponse(property), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("property not found")
	}
	return err
}
