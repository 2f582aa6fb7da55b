package product

import (
	"context"
	"encoding/json"
	"html"
	"strings"
	"time"

	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

var ErrProductNotFound = errors.New("product not found")

// Filter narrows a product listing. Search matches names case-insensitively.
type Filter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

type Storage interface {
	ListProducts(ctx context.Context, f Filter) ([]model.ProductDB, error)
	CountProducts(ctx context.Context, f Filter) (int, error)
	GetProductByID(ctx context.Context, id string) (*model.ProductDB, error)
	CreateProduct(ctx context.Context, p *model.ProductDB) error
	UpdateProduct(ctx context.Context, p *model.ProductDB) error
	DeleteProduct(ctx context.Context, id string) error
}

// Publisher receives an encoded model.ProductEvent after every mutation.
type Publisher interface {
	Broadcast(roomID string, payload []byte)
}

const EventsRoom = "products"

type Service struct {
	storage   Storage
	rules     *validation.Engine
	publisher Publisher
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func New(storage Storage, rules *validation.Engine, publisher Publisher) *Service {
	log = *logger.Log
	log = log.With().Str("name", "product-service").Logger()

	return &Service{
		storage:   storage,
		rules:     rules,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *Service) List(ctx context.Context, q model.ProductListQuery) (*model.ProductListResponse, error) {
	limit, offset := q.Limits()
	f := Filter{
		Search:   strings.TrimSpace(q.Search),
		Category: q.Category,
		Limit:    limit,
		Offset:   offset,
	}

	total, err := s.storage.CountProducts(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "count products")
	}
	rows, err := s.storage.ListProducts(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	items := make([]*model.ProductResponse, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].Response())
	}

	return &model.ProductListResponse{
		Items:      items,
		Page:       offset/limit + 1,
		PageSize:   limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.ProductResponse, error) {
	p, err := s.storage.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}
	return p.Response(), nil
}

// Create expects a DTO that already passed validation.
func (s *Service) Create(ctx context.Context, dto model.ProductDTO) (*model.ProductResponse, error) {
	price, quantity := dto.Values(s.rules)
	now := s.now().UTC()

	p := &model.ProductDB{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(dto.Name),
		Description: s.plainText(dto.Description),
		Price:       price,
		Quantity:    quantity,
		Category:    dto.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateProduct(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}

	res := p.Response()
	s.publish(model.ProductCreated, p.ID, res)
	return res, nil
}

func (s *Service) Update(ctx context.Context, id string, dto model.ProductDTO) (*model.ProductResponse, error) {
	p, err := s.storage.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}

	p.Price, p.Quantity = dto.Values(s.rules)
	p.Name = strings.TrimSpace(dto.Name)
	p.Description = s.plainText(dto.Description)
	p.Category = dto.Category
	p.UpdatedAt = s.now().UTC()

	if err := s.storage.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "update product")
	}

	res := p.Response()
	s.publish(model.ProductUpdated, p.ID, res)
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return ErrProductNotFound
		}
		return errors.Wrap(err, "delete product")
	}

	s.publish(model.ProductDeleted, id, nil)
	return nil
}

// plainText strips markup and decodes the entities the sanitizer emits, so
// the stored text is never longer than the validated input and reads back
// as a valid description.
func (s *Service) plainText(v string) string {
	return html.UnescapeString(s.sanitizer.Sanitize(v))
}

func (s *Service) publish(eventType, id string, p *model.ProductResponse) {
	if s.publisher == nil {
		return
	}
	raw, err := json.Marshal(model.ProductEvent{Type: eventType, ID: id, Product: p})
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("encode product event")
		return
	}
	s.publisher.Broadcast(EventsRoom, raw)
}
