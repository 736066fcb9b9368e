package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/connection"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/dto"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/export"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/liststate"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/monitor"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/service"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/errs"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/response"
	"github.com/alimikegami/point-of-sales/inventory-dashboard/pkg/utils"
)

type Controller struct {
	products          service.ProductService
	categories        service.CategoryService
	list              *liststate.ListState
	connection        *connection.ConnectionState
	alerts            *monitor.AlertMonitor
	lowStockThreshold int
}

func CreateController(g *echo.Group, products service.ProductService, categories service.CategoryService, list *liststate.ListState, conn *connection.ConnectionState, alerts *monitor.AlertMonitor, lowStockThreshold int) {
	c := Controller{
		products:          products,
		categories:        categories,
		list:              list,
		connection:        conn,
		alerts:            alerts,
		lowStockThreshold: lowStockThreshold,
	}

	g.GET("/products", c.GetProducts)
	g.POST("/products/pages/:page", c.GoToPage)
	g.POST("/products/search", c.SearchProducts)
	g.DELETE("/products/search", c.ClearSearch)
	g.PUT("/products/filters", c.SetFilters)
	g.PUT("/products/page-size", c.SetPageSize)
	g.GET("/products/export", c.ExportProducts)
	g.GET("/products/alerts", c.GetAlerts)
	g.GET("/products/:id", c.GetProduct)
	g.POST("/products", c.AddProduct)
	g.PUT("/products/:id", c.UpdateProduct)
	g.DELETE("/products/:id", c.DeleteProduct)

	g.GET("/categories", c.GetCategories)
	g.GET("/categories/:id", c.GetCategory)
	g.POST("/categories", c.AddCategory)

	g.GET("/connection", c.GetConnection)
	g.PUT("/connection", c.UpdateConnection)
	g.POST("/connection/test", c.TestConnection)
}

// GetProducts returns the list view, loading the first page on first use.
func (c *Controller) GetProducts(e echo.Context) error {
	if !c.list.Snapshot().Loaded {
		if err := ignoreSuperseded(c.list.Load(e.Request().Context())); err != nil {
			return response.WriteErrorResponse(e, err, nil)
		}
	}

	return response.WriteSuccessResponse(e, "", c.list.Snapshot())
}

func (c *Controller) GoToPage(e echo.Context) error {
	page, err := strconv.Atoi(e.Param("page"))
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, map[string]string{"page": "Must be an integer"})
	}

	issued, err := c.list.GoToPage(e.Request().Context(), page)
	if err := ignoreSuperseded(err); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	message := ""
	if !issued {
		message = "page unchanged"
	}

	return response.WriteSuccessResponse(e, message, c.list.Snapshot())
}

func (c *Controller) SearchProducts(e echo.Context) error {
	payload := dto.SearchRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "SearchProducts").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	issued, err := c.list.Search(e.Request().Context(), payload.Query)
	if err := ignoreSuperseded(err); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	message := ""
	if !issued {
		message = "empty query ignored"
	}

	return response.WriteSuccessResponse(e, message, c.list.Snapshot())
}

func (c *Controller) ClearSearch(e echo.Context) error {
	if err := ignoreSuperseded(c.list.Clear(e.Request().Context())); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", c.list.Snapshot())
}

// SetFilters reads filters from the query string. Parameters left out are cleared.
func (c *Controller) SetFilters(e echo.Context) error {
	filter, err := dto.ParseProductFilter(e.QueryParams())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	if err := ignoreSuperseded(c.list.SetFilter(e.Request().Context(), filter)); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", c.list.Snapshot())
}

func (c *Controller) SetPageSize(e echo.Context) error {
	payload := dto.PageSizeRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "SetPageSize").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := ignoreSuperseded(c.list.SetPageSize(e.Request().Context(), payload.PageSize)); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", c.list.Snapshot())
}

// ExportProducts downloads the rows of the current list view as a spreadsheet.
func (c *Controller) ExportProducts(e echo.Context) error {
	snapshot := c.list.Snapshot()
	if !snapshot.Loaded {
		if err := ignoreSuperseded(c.list.Load(e.Request().Context())); err != nil {
			return response.WriteErrorResponse(e, err, nil)
		}
		snapshot = c.list.Snapshot()
	}

	fileName := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
	e.Response().Header().Set(echo.HeaderContentType, export.ContentType)
	e.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment;filename=%q", fileName))
	e.Response().WriteHeader(http.StatusOK)

	if err := export.WriteProductsXLSX(e.Response(), snapshot.Page.Items, c.lowStockThreshold); err != nil {
		log.Error().Err(err).Str("component", "ExportProducts").Msg("")
		return err
	}

	return nil
}

func (c *Controller) GetAlerts(e echo.Context) error {
	products, err := c.alerts.Current(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", products)
}

func (c *Controller) GetProduct(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	product, err := c.products.GetByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", product)
}

func (c *Controller) AddProduct(e echo.Context) error {
	payload, err := bindProduct(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	product, err := c.products.Create(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	c.refreshList(e.Request().Context())

	return response.WriteSuccessResponseWithStatus(e, http.StatusCreated, "product created", product)
}

func (c *Controller) UpdateProduct(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	payload, err := bindProduct(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	product, err := c.products.Update(e.Request().Context(), id, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	c.refreshList(e.Request().Context())

	return response.WriteSuccessResponse(e, "product updated", product)
}

func (c *Controller) DeleteProduct(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	if err := c.products.Delete(e.Request().Context(), id); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	c.refreshList(e.Request().Context())

	return response.WriteSuccessResponse(e, "product deleted", nil)
}

func (c *Controller) GetCategories(e echo.Context) error {
	categories, err := c.categories.List(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", categories)
}

func (c *Controller) GetCategory(e echo.Context) error {
	id, err := parseID(e)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	category, err := c.categories.GetByID(e.Request().Context(), id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", category)
}

func (c *Controller) AddCategory(e echo.Context) error {
	payload := dto.CategoryRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "AddCategory").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	payload = payload.Normalize()
	if err := utils.ValidateStruct(payload); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	category, err := c.categories.Create(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponseWithStatus(e, http.StatusCreated, "category created", category)
}

func (c *Controller) GetConnection(e echo.Context) error {
	return response.WriteSuccessResponse(e, "", c.connection.Info())
}

// UpdateConnection stores a new base URL. It does not contact the API.
func (c *Controller) UpdateConnection(e echo.Context) error {
	payload := dto.ConnectionRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "UpdateConnection").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := c.connection.UpdateBaseURL(e.Request().Context(), payload.BaseURL); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "base URL updated", c.connection.Info())
}

func (c *Controller) TestConnection(e echo.Context) error {
	connected := c.connection.TestConnection(e.Request().Context())

	message := "connected"
	if !connected {
		message = "unable to reach the inventory API"
	}

	return response.WriteSuccessResponse(e, message, c.connection.Info())
}

// refreshList reloads the list view after a write. The write already succeeded, so a
// failed reload is only logged.
func (c *Controller) refreshList(ctx context.Context) {
	if err := ignoreSuperseded(c.list.Load(ctx)); err != nil {
		log.Warn().Err(err).Str("component", "refreshList").Msg("failed to reload product list")
	}
}

func bindProduct(e echo.Context) (dto.ProductRequest, error) {
	payload := dto.ProductRequest{}
	if err := e.Bind(&payload); err != nil {
		log.Error().Err(err).Str("component", "bindProduct").Msg("")
		return payload, errs.ErrClient
	}

	payload = payload.Normalize()
	if err := utils.ValidateStruct(payload); err != nil {
		return payload, err
	}

	return payload, nil
}

func parseID(e echo.Context) (int64, error) {
	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, &errs.ValidationError{FieldErrors: map[string]string{"id": "Must be a positive integer"}}
	}

	return id, nil
}

// ignoreSuperseded treats a response overtaken by a newer list request as success; the
// newer request owns the list view.
func ignoreSuperseded(err error) error {
	if errors.Is(err, errs.ErrSuperseded) {
		return nil
	}

	return err
}
