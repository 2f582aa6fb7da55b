package model

import (
	"time"

	"github.com/Heidric/shop-admin/internal/validation"
)

type ProductDB struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	Quantity    int64     `db:"quantity"`
	Category    string    `db:"category"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int64     `json:"quantity"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *ProductDB) Response() *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductDTO is shared by create and update.
type ProductDTO struct {
	validation.ProductForm
}

func (dto *ProductDTO) Validate(rules *validation.Engine) map[string]string {
	return rules.ProductForm(dto.ProductForm)
}

// Values returns the numeric fields of a validated DTO. Under lenient rules
// "10abc" has already been accepted as 10, so the same prefix reading is
// applied here.
func (dto *ProductDTO) Values(rules *validation.Engine) (price float64, quantity int64) {
	return rules.PriceOf(dto.Price), rules.QuantityOf(dto.Quantity)
}

type ProductListQuery struct {
	Search   string `json:"-"`
	Category string `json:"-"`
	Page     *int   `json:"-"`
	PageSize *int   `json:"-"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (q ProductListQuery) Validate(_ *validation.Engine) map[string]string {
	errs := map[string]string{}
	if q.Category != "" && !validation.IsCategory(q.Category) {
		errs["category"] = ErrInvalidField
	}
	if q.Page != nil && *q.Page < 1 {
		errs["page"] = ErrInvalidField
	}
	if q.PageSize != nil && (*q.PageSize < 1 || *q.PageSize > MaxPageSize) {
		errs["pageSize"] = ErrInvalidField
	}
	return errs
}

// Limits resolves pagination defaults.
func (q ProductListQuery) Limits() (limit, offset int) {
	page, size := 1, DefaultPageSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.PageSize != nil {
		size = *q.PageSize
	}
	return size, (page - 1) * size
}

type ProductListResponse struct {
	Items      []*ProductResponse `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int                `json:"total"`
	TotalPages int                `json:"totalPages"`
}

const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

type ProductEvent struct {
	Type    string           `json:"type"`
	ID      string           `json:"id"`
	Product *ProductResponse `json:"product,omitempty"`
}
