package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
	"github.com/Enthusiasm-c/monito-web-sub006/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons *usecase.ComparisonService
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons *usecase.ComparisonService) *Handler {
	return &Handler{comparisons: comparisons}
}

// compareItemRequest is one invoice line to compare.
type compareItemRequest struct {
	ProductName  string  `json:"product_name" binding:"required"`
	SupplierID   string  `json:"supplier_id"`
	ScannedPrice float64 `json:"scanned_price" binding:"required,gt=0"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity" binding:"omitempty,gt=0"`
}

type compareRequest struct {
	Items []compareItemRequest `json:"items" binding:"required,min=1,dive"`
}

type compareResponse struct {
	Comparisons []domain.ComparisonResult `json:"comparisons"`
	Summary     usecase.Summary           `json:"summary"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "monito-price-comparison",
		"version": "1.0.0",
	})
}

// ComparePrices matches each scanned invoice item against the catalog and
// classifies its price against the market.
func (h *Handler) ComparePrices(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  domain.ErrInvalidRequest.Error(),
			"detail": err.Error(),
		})
		return
	}

	queries := make([]domain.Query, 0, len(req.Items))
	for _, item := range req.Items {
		queries = append(queries, domain.Query{
			ProductName:       item.ProductName,
			ScannedPrice:      decimal.NewFromFloat(item.ScannedPrice),
			Unit:              item.Unit,
			Quantity:          item.Quantity,
			ExcludeSupplierID: item.SupplierID,
		})
	}

	results := h.comparisons.CompareBatch(c.Request.Context(), queries)

	c.JSON(http.StatusOK, compareResponse{
		Comparisons: results,
		Summary:     usecase.Summarize(results),
	})
}
