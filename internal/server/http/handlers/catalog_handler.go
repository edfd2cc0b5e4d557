package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/jmcastano/payflow/internal/domain/errors"
	"github.com/jmcastano/payflow/internal/domain/model"
	"github.com/jmcastano/payflow/internal/server/http/dto"
)

// CatalogHandler serves the product catalog and the fulfillment registries.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// ListProducts handles GET /api/products.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, dto.ToProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetProduct handles GET /api/products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// CreateProduct handles POST /api/products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), &model.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "product already exists"})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// ListCustomers handles GET /api/customers.
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.facade.Customers(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		response = append(response, dto.CustomerResponse{
			ID:        customer.ID,
			Name:      customer.Name,
			Email:     customer.Email,
			Phone:     customer.Phone,
			CreatedAt: customer.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// ListDeliveries handles GET /api/deliveries.
func (h *CatalogHandler) ListDeliveries(c *gin.Context) {
	deliveries, err := h.facade.Deliveries(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, delivery := range deliveries {
		response = append(response, dto.DeliveryResponse{
			ID:           delivery.ID,
			OrderID:      delivery.OrderID,
			CustomerID:   delivery.CustomerID,
			CustomerName: delivery.CustomerName,
			Address:      delivery.Address,
			City:         delivery.City,
			Phone:        delivery.Phone,
			Status:       string(delivery.Status),
			CreatedAt:    delivery.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
