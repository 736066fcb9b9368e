package liststate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
)

type Mode string

const (
	ModeBrowse Mode = "browse"
	ModeSearch Mode = "search"

	DefaultPageSize = 10
)

var PageSizeOptions = []int{5, 10, 25, 50}

// Lister is the part of the product service a ListState drives.
type Lister interface {
	List(ctx context.Context, page, pageSize int, filter dto.ProductFilter) (domain.PageResult[domain.Product], error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

// Snapshot is a copy of the list view at one point in time.
type Snapshot struct {
	Mode     Mode                              `json:"mode"`
	Query    string                            `json:"query,omitempty"`
	PageSize int                               `json:"pageSize"`
	Filter   dto.ProductFilter                 `json:"filter"`
	Loaded   bool                              `json:"loaded"`
	Page     domain.PageResult[domain.Product] `json:"page"`
}

// ListState is the browse/search state machine behind the product list. Every call to the
// lister takes a new generation; a response is only applied if no newer call was issued
// since, otherwise the caller gets errs.ErrSuperseded. A failed call leaves the state as it
// was.
type ListState struct {
	lister Lister

	mu         sync.Mutex
	mode       Mode
	query      string
	pageSize   int
	filter     dto.ProductFilter
	page       domain.PageResult[domain.Product]
	loaded     bool
	generation uint64
}

func New(lister Lister, pageSize int) *ListState {
	if !IsValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}

	return &ListState{
		lister:   lister,
		mode:     ModeBrowse,
		pageSize: pageSize,
		page:     domain.EmptyPage[domain.Product](pageSize),
	}
}

func IsValidPageSize(pageSize int) bool {
	for _, option := range PageSizeOptions {
		if option == pageSize {
			return true
		}
	}

	return false
}

func (s *ListState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

func (s *ListState) snapshot() Snapshot {
	return Snapshot{
		Mode:     s.mode,
		Query:    s.query,
		PageSize: s.pageSize,
		Filter:   s.filter,
		Loaded:   s.loaded,
		Page:     s.page.Clone(),
	}
}

// Load fetches the current view again: the current page in browse mode, the current
// query in search mode.
func (s *ListState) Load(ctx context.Context) error {
	s.mu.Lock()
	mode, query := s.mode, s.query
	page, pageSize, filter := s.page.PageNumber, s.pageSize, s.filter
	gen := s.next()
	s.mu.Unlock()

	if mode == ModeSearch {
		return s.search(ctx, gen, query)
	}

	return s.browse(ctx, gen, page, pageSize, filter)
}

// GoToPage loads page p. It reports false without calling the lister when p is outside
// [1, totalPages], is the current page, or the list is in search mode.
func (s *ListState) GoToPage(ctx context.Context, p int) (bool, error) {
	s.mu.Lock()
	if s.mode != ModeBrowse || p < 1 || p > s.page.TotalPages || p == s.page.PageNumber {
		s.mu.Unlock()
		return false, nil
	}
	pageSize, filter := s.pageSize, s.filter
	gen := s.next()
	s.mu.Unlock()

	return true, s.browse(ctx, gen, p, pageSize, filter)
}

// Search switches to search mode. Blank input is ignored and reported as false.
func (s *ListState) Search(ctx context.Context, query string) (bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return false, nil
	}

	s.mu.Lock()
	gen := s.next()
	s.mu.Unlock()

	return true, s.search(ctx, gen, query)
}

// Clear returns to browse mode at page 1, keeping page size and filters.
func (s *ListState) Clear(ctx context.Context) error {
	s.mu.Lock()
	pageSize, filter := s.pageSize, s.filter
	gen := s.next()
	s.mu.Unlock()

	return s.browse(ctx, gen, 1, pageSize, filter)
}

// SetFilter browses from page 1 with filter.
func (s *ListState) SetFilter(ctx context.Context, filter dto.ProductFilter) error {
	s.mu.Lock()
	pageSize := s.pageSize
	gen := s.next()
	s.mu.Unlock()

	return s.browse(ctx, gen, 1, pageSize, filter)
}

// SetPageSize browses from page 1 with a new page size taken from PageSizeOptions.
func (s *ListState) SetPageSize(ctx context.Context, pageSize int) error {
	if !IsValidPageSize(pageSize) {
		return &errs.ValidationError{FieldErrors: map[string]string{
			"pageSize": fmt.Sprintf("Must be one of %v", PageSizeOptions),
		}}
	}

	s.mu.Lock()
	filter := s.filter
	gen := s.next()
	s.mu.Unlock()

	return s.browse(ctx, gen, 1, pageSize, filter)
}

// next must be called with mu held.
func (s *ListState) next() uint64 {
	s.generation++
	return s.generation
}

func (s *ListState) browse(ctx context.Context, gen uint64, page, pageSize int, filter dto.ProductFilter) error {
	result, err := s.lister.List(ctx, page, pageSize, filter)
	if err != nil {
		return err
	}

	return s.apply(gen, func() {
		s.mode = ModeBrowse
		s.query = ""
		s.pageSize = pageSize
		s.filter = filter
		s.page = result
	})
}

func (s *ListState) search(ctx context.Context, gen uint64, query string) error {
	products, err := s.lister.Search(ctx, query)
	if err != nil {
		return err
	}

	return s.apply(gen, func() {
		s.mode = ModeSearch
		s.query = query
		s.page = domain.NewSinglePage(products)
	})
}

func (s *ListState) apply(gen uint64, update func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return errs.ErrSuperseded
	}

	update()
	s.loaded = true

	return nil
}
