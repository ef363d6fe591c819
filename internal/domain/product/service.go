// internal/domain/product/service.go
package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when a product id is not in the catalog
var ErrProductNotFound = errors.New("product not found")

// Sort orders accepted by List
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortName      = "name"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Catalog is the static, read-only product list the storefront browses
type Catalog struct {
	products []Product
	byID     map[int]int
}

// catalogFile is the on-disk shape of the catalog
type catalogFile struct {
	Products []Product `json:"products"`
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page     int             `form:"page,default=1"`
	Limit    int             `form:"limit,default=20"`
	Search   string          `form:"search"`
	Category string          `form:"category"`
	SortBy   string          `form:"sort_by,default=default"`
	MinPrice decimal.Decimal `form:"-"`
	MaxPrice decimal.Decimal `form:"-"`
}

// ListResponse represents a page of products
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewCatalog builds a catalog from products. Products without sizes get
// defaultSizes; a repeated id keeps its first record. Products with a
// non-positive id or a negative price are skipped.
func NewCatalog(products []Product, defaultSizes []string) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}

	for _, p := range products {
		if p.ID <= 0 || p.Price.IsNegative() {
			continue
		}
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		p = p.Snapshot()
		if len(p.Sizes) == 0 && len(defaultSizes) > 0 {
			p.Sizes = append([]string(nil), defaultSizes...)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c
}

// LoadCatalog reads a catalog file of the form {"products": [...]}
func LoadCatalog(path string, defaultSizes []string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return ReadCatalog(f, defaultSizes)
}

// ReadCatalog decodes a catalog from r
func ReadCatalog(r io.Reader, defaultSizes []string) (*Catalog, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewCatalog(file.Products, defaultSizes), nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get retrieves a single product by ID
func (c *Catalog) Get(id int) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return c.products[i].Snapshot(), nil
}

// All returns every product in catalog order
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Snapshot()
	}
	return out
}

// List retrieves products with filtering, sorting and pagination
func (c *Catalog) List(req ListRequest) ListResponse {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > maxPageLimit {
		req.Limit = defaultPageLimit
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "all" {
		category = ""
	}

	var results []Product
	for _, p := range c.products {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if p.Price.LessThan(req.MinPrice) {
			continue
		}
		if req.MaxPrice.IsPositive() && p.Price.GreaterThan(req.MaxPrice) {
			continue
		}
		results = append(results, p.Snapshot())
	}

	sortProducts(results, req.SortBy)

	total := len(results)
	totalPages := (total + req.Limit - 1) / req.Limit

	// Pages past the end are empty. Checked before multiplying so a huge
	// page number cannot overflow.
	start, end := total, total
	if req.Page <= totalPages {
		start = (req.Page - 1) * req.Limit
		end = start + req.Limit
		if end > total {
			end = total
		}
	}

	return ListResponse{
		Products: append([]Product{}, results[start:end]...),
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}
}

func matchesSearch(p Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// sortProducts orders products in place; unknown orders keep catalog order
func sortProducts(products []Product, sortBy string) {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating.Rate > products[j].Rating.Rate
		})
	case SortName:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	}
}
