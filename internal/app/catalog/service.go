package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/csvimport"
	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
	"github.com/YelzhanWeb/ordertaker/internal/domain"
	"github.com/YelzhanWeb/ordertaker/internal/interfaces"
)

var _ interfaces.CatalogService = (*Service)(nil)

type Service struct {
	repo   interfaces.CatalogRepository
	logger logger.Logger
}

func NewService(repo interfaces.CatalogRepository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Import parses CSV text from r and replaces the whole catalog with the result.
// On any error the stored catalog is left as it was.
func (s *Service) Import(ctx context.Context, r io.Reader) (csvimport.Result, error) {
	res, err := csvimport.Parse(r)
	return s.store(ctx, res, err)
}

// ImportFile is Import for a .csv file on disk.
func (s *Service) ImportFile(ctx context.Context, path string) (csvimport.Result, error) {
	res, err := csvimport.ParseFile(path)
	return s.store(ctx, res, err)
}

func (s *Service) store(ctx context.Context, res csvimport.Result, parseErr error) (csvimport.Result, error) {
	for _, row := range res.Rejected {
		s.logger.Warn("csv_row_rejected", "Skipped invalid catalog row", "", map[string]interface{}{
			"line":   row.Line,
			"raw":    row.Raw,
			"reason": row.Reason,
		})
	}

	if parseErr != nil {
		s.logger.Error("catalog_import_failed", "Catalog import failed", "", nil, parseErr)
		return res, parseErr
	}

	if err := s.repo.ReplaceCatalog(ctx, res.Products); err != nil {
		s.logger.Error("catalog_save_failed", "Failed to save catalog", "", nil, err)
		return res, fmt.Errorf("failed to save catalog: %w", err)
	}

	s.logger.Info("catalog_imported", fmt.Sprintf("Imported %d products", len(res.Products)), "", map[string]interface{}{
		"imported": len(res.Products),
		"rejected": len(res.Rejected),
	})
	return res, nil
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Catalog(ctx)
}

// Search matches term against product names, ignoring case.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Product, error) {
	products, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SearchProducts(products, term), nil
}

func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	products, err := s.repo.Catalog(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := domain.FindProduct(products, id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.ClearCatalog(ctx); err != nil {
		return err
	}
	s.logger.Info("catalog_cleared", "Catalog cleared", "", nil)
	return nil
}
