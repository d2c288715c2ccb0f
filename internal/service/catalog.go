package service

import (
	"context"

	"vaultcast/internal/model"
	"vaultcast/internal/repository"
)

// CatalogService defines the use cases for movie and TV records.
type CatalogService interface {
	List(ctx context.Context, kind string, q ListQuery) (*ListResult[model.Video], error)
	Get(ctx context.Context, kind, id string) (*model.Video, error)
	GetByFilename(ctx context.Context, kind, filename string) (*model.Video, error)
	// Create stores a new video. A filename already in the collection yields ErrConflict.
	Create(ctx context.Context, kind string, in model.VideoFormData) (*model.Video, error)
	// Update replaces a video. Renaming onto another record's filename yields ErrConflict.
	Update(ctx context.Context, kind, id string, in model.VideoFormData) (*model.Video, error)
	Delete(ctx context.Context, kind, id string) error
	// All returns every video of a kind.
	All(ctx context.Context, kind string) ([]model.Video, error)
}

type catalogService struct {
	kinds map[string]*Records[model.Video, *model.Video]
}

// NewCatalogService constructs a CatalogService over the movies and tv collections.
func NewCatalogService(repo repository.DocumentRepository) CatalogService {
	return &catalogService{kinds: map[string]*Records[model.Video, *model.Video]{
		model.KindMovies: NewRecords[model.Video](repo, model.KindMovies),
		model.KindTV:     NewRecords[model.Video](repo, model.KindTV),
	}}
}

func (s *catalogService) records(kind string) (*Records[model.Video, *model.Video], error) {
	r, ok := s.kinds[kind]
	if !ok {
		return nil, ErrInvalidKind
	}
	return r, nil
}

func (s *catalogService) List(ctx context.Context, kind string, q ListQuery) (*ListResult[model.Video], error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.List(ctx, q)
}

func (s *catalogService) All(ctx context.Context, kind string) ([]model.Video, error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.All(ctx)
}

func (s *catalogService) Get(ctx context.Context, kind, id string) (*model.Video, error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (s *catalogService) GetByFilename(ctx context.Context, kind, filename string) (*model.Video, error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.GetByKey(ctx, filename)
}

func (s *catalogService) Create(ctx context.Context, kind string, in model.VideoFormData) (*model.Video, error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.Create(ctx, model.Video{VideoFormData: in})
}

func (s *catalogService) Update(ctx context.Context, kind, id string, in model.VideoFormData) (*model.Video, error) {
	r, err := s.records(kind)
	if err != nil {
		return nil, err
	}
	return r.Update(ctx, id, model.Video{VideoFormData: in})
}

func (s *catalogService) Delete(ctx context.Context, kind, id string) error {
	r, err := s.records(kind)
	if err != nil {
		return err
	}
	return r.Delete(ctx, id)
}
