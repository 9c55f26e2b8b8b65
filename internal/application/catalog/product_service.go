package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finsuite/backend/internal/application/pipeline"
	"github.com/finsuite/backend/internal/domain/catalog"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerDirectory confirms that a client exists in the customer service.
// A definite absence is (false, nil); any error means the answer is unknown.
type CustomerDirectory interface {
	ClientExists(ctx context.Context, clientID int64) (bool, error)
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	customers   CustomerDirectory
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, customers CustomerDirectory, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		customers:   customers,
		logger:      logger,
	}
}

// Create creates a new product.
// Checks run in a fixed order: fields, client existence in the customer
// service, name uniqueness for the client, then persistence; the first
// failure is returned and nothing is written.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create",
		telemetry.WithAttribute(telemetry.SpanAttrClientID, req.ClientID),
	)
	defer span.End()

	var (
		productType catalog.ProductType
		name        = strings.TrimSpace(req.Name)
		product     *catalog.Product
	)

	err := pipeline.Run(ctx,
		pipeline.Stage{Name: "validate", Run: func(context.Context) error {
			var err error
			productType, err = validateProductFields(req.Name, req.Balance, req.ProductType)
			if err != nil {
				return err
			}
			return shared.ValidateID(req.ClientID, "Client ID")
		}},
		pipeline.Stage{Name: "verify_client", Run: func(ctx context.Context) error {
			return s.verifyClient(ctx, req.ClientID)
		}},
		pipeline.Stage{Name: "check_unique", Run: func(ctx context.Context) error {
			return s.ensureNameAvailable(ctx, req.ClientID, name)
		}},
		pipeline.Stage{Name: "persist", Run: func(ctx context.Context) error {
			var err error
			product, err = catalog.NewProduct(productType, name, *req.Balance, req.ClientID)
			if err != nil {
				return err
			}
			return s.productRepo.Save(ctx, product)
		}},
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("client_id", product.ClientID),
		zap.String("product_type", string(product.ProductType)),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List lists all products, optionally of a single type
func (s *ProductService) List(ctx context.Context, filter ListProductsFilter) ([]ProductResponse, error) {
	var productType catalog.ProductType
	if filter.ProductType != "" {
		var err error
		if productType, err = catalog.ParseProductType(filter.ProductType); err != nil {
			return nil, err
		}
	}

	products, err := s.productRepo.FindAll(ctx, productType)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// ListByClient lists the products held by a client; no products is an empty list
func (s *ProductService) ListByClient(ctx context.Context, clientID int64) ([]ProductResponse, error) {
	if err := shared.ValidateID(clientID, "Client ID"); err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update updates the type, name and balance of a product
func (s *ProductService) Update(ctx context.Context, id int64, req UpdateProductRequest) (*ProductResponse, error) {
	if err := shared.ValidateID(id, "Product ID"); err != nil {
		return nil, err
	}
	productType, err := validateProductFields(req.Name, req.Balance, req.ProductType)
	if err != nil {
		return nil, err
	}

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name != product.Name {
		if err := s.ensureNameAvailable(ctx, product.ClientID, name); err != nil {
			return nil, err
		}
	}

	if err := product.UpdateInformation(productType, name, *req.Balance); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id, "Product ID"); err != nil {
		return err
	}

	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return productNotFound(id)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return productNotFound(id)
		}
		return err
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) findProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	if err := shared.ValidateID(id, "Product ID"); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, productNotFound(id)
		}
		return nil, err
	}
	return product, nil
}

// verifyClient resolves the tri-state existence check into a command outcome
func (s *ProductService) verifyClient(ctx context.Context, clientID int64) error {
	exists, err := s.customers.ClientExists(ctx, clientID)
	if err != nil {
		s.logger.Warn("Client existence could not be determined",
			zap.Int64("client_id", clientID),
			zap.Error(err),
		)
		return shared.WrapDomainError(shared.CodeUpstreamUnavailable,
			fmt.Sprintf("Unable to verify client %d: customer service unavailable", clientID), err)
	}
	if !exists {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Client with ID %d does not exist", clientID))
	}
	return nil
}

func (s *ProductService) ensureNameAvailable(ctx context.Context, clientID int64, name string) error {
	taken, err := s.productRepo.ExistsByClientIDAndName(ctx, clientID, name)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Product with name '%s' already exists for client %d", name, clientID))
	}
	return nil
}

// validateProductFields checks name, balance and type in that order
func validateProductFields(name string, balance *decimal.Decimal, rawType string) (catalog.ProductType, error) {
	if err := catalog.ValidateProductName(name); err != nil {
		return "", err
	}
	if err := catalog.ValidateBalance(balance); err != nil {
		return "", err
	}
	return catalog.ParseProductType(rawType)
}

func productNotFound(id int64) error {
	return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Product with id %d not found", id))
}
