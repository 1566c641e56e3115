package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateProduct godoc
// @Summary Add a product to the catalog
// @Description Create a new product; the code is synthesized when omitted and must be unique
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{title=string,description=string,code=string,price=number,status=bool,stock=int,category=string,thumbnails=[]string} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *ProductHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description Get all products, optionally truncated to the first limit entries
// @Tags Products
// @Produce json
// @Param limit query int false "Limit"
// @Success 200 {object} object{success=bool,data=object{products=array,total=int,limit=int}}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param pid path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{pid} [get]
func (h *ProductHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Apply a partial update; omitted fields are left untouched, the id is immutable
// @Tags Products
// @Accept json
// @Produce json
// @Param pid path string true "Product ID"
// @Param request body object{title=string,description=string,code=string,price=number,status=bool,stock=int,category=string,thumbnails=[]string} true "Patch"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{pid} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Produce json
// @Param pid path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{pid} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// AdjustStock godoc
// @Summary Adjust product stock
// @Description Increment or decrement available stock; a decrement below zero is rejected
// @Tags Products
// @Accept json
// @Produce json
// @Param pid path string true "Product ID"
// @Param request body object{quantity=int,direction=string} true "Adjustment"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{pid}/stock [patch]
func (h *ProductHandler) AdjustStockDoc() {}

// GetStats godoc
// @Summary Get catalog statistics
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products/stats [get]
func (h *ProductHandler) GetStatsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and document store availability
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *ProductHandler) HealthCheckDoc() {}
