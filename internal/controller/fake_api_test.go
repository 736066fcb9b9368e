package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
)

// fakeInventoryAPI is an in-memory inventory backend speaking the REST contract.
type fakeInventoryAPI struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	nextID     int64
	hits       []string
}

func newFakeInventoryAPI(n int) *fakeInventoryAPI {
	f := &fakeInventoryAPI{
		categories: []domain.Category{
			{ID: 1, Name: "Tools"},
			{ID: 2, Name: "Garden"},
		},
	}

	for i := 1; i <= n; i++ {
		categoryID := int64(2 - i%2)
		f.products = append(f.products, domain.Product{
			ID:           int64(i),
			Name:         fmt.Sprintf("Product %d", i),
			SKU:          fmt.Sprintf("PRD-%03d", i),
			Price:        decimal.NewFromInt(int64(i)),
			Stock:        (i - 1) % 10,
			CategoryID:   categoryID,
			CategoryName: f.categories[categoryID-1].Name,
		})
	}
	f.nextID = int64(n) + 1

	return f
}

func (f *fakeInventoryAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", f.list)
	mux.HandleFunc("GET /api/products/search", f.search)
	mux.HandleFunc("GET /api/products/alerts", f.alerts)
	mux.HandleFunc("GET /api/products/{id}", f.get)
	mux.HandleFunc("POST /api/products", f.create)
	mux.HandleFunc("PUT /api/products/{id}", f.update)
	mux.HandleFunc("DELETE /api/products/{id}", f.delete)
	mux.HandleFunc("GET /api/categories", f.listCategories)
	mux.HandleFunc("GET /api/categories/{id}", f.getCategory)
	mux.HandleFunc("POST /api/categories", f.createCategory)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		hit := r.Method + " " + r.URL.Path
		if r.URL.RawQuery != "" {
			hit += "?" + r.URL.RawQuery
		}
		f.hits = append(f.hits, hit)
		f.mu.Unlock()

		mux.ServeHTTP(w, r)
	})
}

func (f *fakeInventoryAPI) Hits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, kind string, id string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("%s with ID %s not found", kind, id)})
}

func (f *fakeInventoryAPI) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("pageNumber"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	var filtered []domain.Product
	for _, p := range f.products {
		if v := q.Get("categoryId"); v != "" && strconv.FormatInt(p.CategoryID, 10) != v {
			continue
		}
		filtered = append(filtered, p)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}
	totalPages := (len(filtered) + pageSize - 1) / pageSize

	writeJSON(w, http.StatusOK, domain.PageResult[domain.Product]{
		Items:           append([]domain.Product{}, filtered[start:end]...),
		PageNumber:      page,
		PageSize:        pageSize,
		TotalCount:      len(filtered),
		TotalPages:      totalPages,
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages,
	})
}

func (f *fakeInventoryAPI) search(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	term := strings.ToLower(r.URL.Query().Get("q"))
	matches := []domain.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term) {
			matches = append(matches, p)
		}
	}

	writeJSON(w, http.StatusOK, matches)
}

func (f *fakeInventoryAPI) alerts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	low := []domain.Product{}
	for _, p := range f.products {
		if p.IsLowStock(domain.DefaultLowStockThreshold) {
			low = append(low, p)
		}
	}

	writeJSON(w, http.StatusOK, low)
}

func (f *fakeInventoryAPI) indexOf(id string) int {
	for i, p := range f.products {
		if strconv.FormatInt(p.ID, 10) == id {
			return i
		}
	}
	return -1
}

func (f *fakeInventoryAPI) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(r.PathValue("id"))
	if i < 0 {
		notFound(w, "Product", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, f.products[i])
}

func (f *fakeInventoryAPI) decodeProduct(w http.ResponseWriter, r *http.Request, skipIndex int) (domain.Product, bool) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return domain.Product{}, false
	}

	for i, p := range f.products {
		if i != skipIndex && p.SKU == req.SKU {
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"title":  "One or more validation errors occurred.",
				"status": http.StatusBadRequest,
				"errors": map[string][]string{"Sku": {"SKU already exists"}},
			})
			return domain.Product{}, false
		}
	}

	if req.CategoryID < 1 || int(req.CategoryID) > len(f.categories) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid category",
			"errors":  map[string]string{"CategoryId": "Category does not exist"},
		})
		return domain.Product{}, false
	}

	return domain.Product{
		Name:         req.Name,
		SKU:          req.SKU,
		Price:        req.Price,
		Stock:        req.Stock,
		CategoryID:   req.CategoryID,
		CategoryName: f.categories[req.CategoryID-1].Name,
	}, true
}

func (f *fakeInventoryAPI) create(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	product, ok := f.decodeProduct(w, r, -1)
	if !ok {
		return
	}

	product.ID = f.nextID
	f.nextID++
	f.products = append(f.products, product)

	writeJSON(w, http.StatusCreated, product)
}

func (f *fakeInventoryAPI) update(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(r.PathValue("id"))
	if i < 0 {
		notFound(w, "Product", r.PathValue("id"))
		return
	}

	product, ok := f.decodeProduct(w, r, i)
	if !ok {
		return
	}

	product.ID = f.products[i].ID
	f.products[i] = product

	writeJSON(w, http.StatusOK, product)
}

func (f *fakeInventoryAPI) delete(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(r.PathValue("id"))
	if i < 0 {
		notFound(w, "Product", r.PathValue("id"))
		return
	}

	f.products = append(f.products[:i], f.products[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeInventoryAPI) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	writeJSON(w, http.StatusOK, f.categories)
}

func (f *fakeInventoryAPI) getCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id, _ := strconv.Atoi(r.PathValue("id"))
	if id < 1 || id > len(f.categories) {
		notFound(w, "Category", r.PathValue("id"))
		return
	}

	writeJSON(w, http.StatusOK, f.categories[id-1])
}

func (f *fakeInventoryAPI) createCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req dto.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}

	category := domain.Category{
		ID:          int64(len(f.categories) + 1),
		Name:        req.Name,
		Description: req.Description,
	}
	f.categories = append(f.categories, category)

	writeJSON(w, http.StatusCreated, category)
}
