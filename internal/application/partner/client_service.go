package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finsuite/backend/internal/application/pipeline"
	"github.com/finsuite/backend/internal/domain/partner"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/logger"
	"github.com/finsuite/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ProductCatalog lists the products a client holds in the product service.
// A client unknown to the product service is an empty list, not an error.
type ProductCatalog interface {
	ProductsByClient(ctx context.Context, clientID int64) ([]ProductSummary, error)
}

// CodeCipher converts unique codes to and from their public form
type CodeCipher interface {
	Encode(code int64) string
	Decode(encoded string) (int64, error)
}

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	products   ProductCatalog
	codes      CodeCipher
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, products ProductCatalog, codes CodeCipher, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		products:   products,
		codes:      codes,
		logger:     logger,
	}
}

// Create creates a new client.
// Fields are validated first, then the full name and the unique code are
// checked for collisions, then the client is persisted.
func (s *ClientService) Create(ctx context.Context, req CreateClientRequest) (*ClientResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "create")
	defer span.End()

	var client *partner.Client

	err := pipeline.Run(ctx,
		pipeline.Stage{Name: "validate", Run: func(context.Context) error {
			typeDocument, err := partner.ParseTypeDocument(req.TypeDocument)
			if err != nil {
				return err
			}
			client, err = partner.NewClient(req.FullName, req.FullLastName, typeDocument, req.DocumentNumber, req.UniqueCode)
			return err
		}},
		pipeline.Stage{Name: "check_unique", Run: func(ctx context.Context) error {
			return s.ensureAvailable(ctx, client, 0)
		}},
		pipeline.Stage{Name: "persist", Run: func(ctx context.Context) error {
			return s.clientRepo.Save(ctx, client)
		}},
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Client created", zap.Int64("client_id", client.ID))

	response := toClientResponse(client, s.codes)
	return &response, nil
}

// GetByID retrieves a client by internal ID
func (s *ClientService) GetByID(ctx context.Context, id int64) (*ClientResponse, error) {
	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	response := toClientResponse(client, s.codes)
	return &response, nil
}

// List lists all clients
func (s *ClientService) List(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = toClientResponse(&clients[i], s.codes)
	}
	return responses, nil
}

// GetBasic retrieves a client by its obfuscated unique code, without products
func (s *ClientService) GetBasic(ctx context.Context, encodedCode string) (*ClientResponse, error) {
	client, err := s.findByCode(ctx, encodedCode)
	if err != nil {
		return nil, err
	}
	response := toClientResponse(client, s.codes)
	return &response, nil
}

// GetWithProducts retrieves a client by its obfuscated unique code and merges
// in the products it holds.
// When the product service cannot be reached the result is (nil, nil): the
// enriched read degrades to an empty result instead of failing.
func (s *ClientService) GetWithProducts(ctx context.Context, encodedCode string) (*ClientWithProductsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "client", "get_with_products")
	defer span.End()

	client, err := s.findByCode(ctx, encodedCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrClientID, client.ID)

	products, err := s.products.ProductsByClient(ctx, client.ID)
	if err != nil {
		s.logger.Warn("Products unavailable, returning empty result",
			zap.Int64("client_id", client.ID),
			zap.String("request_id", logger.GetRequestID(ctx)),
			zap.Error(err),
		)
		telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, "degraded")
		return nil, nil
	}
	if products == nil {
		products = []ProductSummary{}
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductsLen, len(products))

	return &ClientWithProductsResponse{
		ClientResponse: toClientResponse(client, s.codes),
		Products:       products,
	}, nil
}

// Update replaces the details of a client
func (s *ClientService) Update(ctx context.Context, id int64, req UpdateClientRequest) (*ClientResponse, error) {
	if err := shared.ValidateID(id, "Client ID"); err != nil {
		return nil, err
	}

	var typeDocument partner.TypeDocument
	if strings.TrimSpace(req.TypeDocument) != "" {
		var err error
		if typeDocument, err = partner.ParseTypeDocument(req.TypeDocument); err != nil {
			return nil, err
		}
	}

	// Field and uniqueness checks run before the client is loaded
	candidate, err := partner.NewClient(req.FullName, req.FullLastName, typeDocument, req.DocumentNumber, req.UniqueCode)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, candidate, id); err != nil {
		return nil, err
	}

	client, err := s.findClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := client.UpdateInformation(req.FullName, req.FullLastName, typeDocument, req.DocumentNumber, req.UniqueCode); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := toClientResponse(client, s.codes)
	return &response, nil
}

// Delete deletes a client
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := shared.ValidateID(id, "Client ID"); err != nil {
		return err
	}

	exists, err := s.clientRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return clientNotFound(id)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return clientNotFound(id)
		}
		return err
	}

	s.logger.Info("Client deleted", zap.Int64("client_id", id))
	return nil
}

func (s *ClientService) findClient(ctx context.Context, id int64) (*partner.Client, error) {
	if err := shared.ValidateID(id, "Client ID"); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, clientNotFound(id)
		}
		return nil, err
	}
	return client, nil
}

// findByCode decodes a public code and loads its client.
// An undecodable code is reported like an unknown one.
func (s *ClientService) findByCode(ctx context.Context, encodedCode string) (*partner.Client, error) {
	uniqueCode, err := s.codes.Decode(encodedCode)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeNotFound, "Client not found for the given code", err)
	}

	client, err := s.clientRepo.FindByUniqueCode(ctx, uniqueCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Client not found for the given code")
		}
		return nil, err
	}
	return client, nil
}

// ensureAvailable checks the full name and unique code are not used by
// another client; excludeID is the client being updated, 0 on create.
func (s *ClientService) ensureAvailable(ctx context.Context, client *partner.Client, excludeID int64) error {
	taken, err := s.clientRepo.ExistsByFullName(ctx, client.FullName, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Client with full name %s already exists", client.FullName))
	}

	taken, err = s.clientRepo.ExistsByUniqueCode(ctx, client.UniqueCode, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError(shared.CodeInvalidInput, "Client with this unique code already exists")
	}
	return nil
}

func clientNotFound(id int64) error {
	return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Client with id %d not found", id))
}
