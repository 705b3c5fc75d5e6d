package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/domain/catalog"
	"github.com/hugohenrick/erp-pdv/internal/domain/inventory"
	"github.com/hugohenrick/erp-pdv/internal/service"
)

// CatalogController gerencia produtos, preços e depósitos
type CatalogController struct {
	products   *service.CatalogService
	repository catalog.Repository
	stocks     inventory.Repository
}

// NewCatalogController cria uma nova instância de CatalogController
func NewCatalogController(products *service.CatalogService, repo catalog.Repository, stocks inventory.Repository) *CatalogController {
	return &CatalogController{products: products, repository: repo, stocks: stocks}
}

// Create cadastra um novo produto
// @Summary Cadastra um produto
// @Description Cadastra um produto com SKU emitido pela sequência interna
// @Tags catalog
// @Accept json
// @Produce json
// @Param product body dto.ProductRequest true "Dados do produto"
// @Success 201 {object} catalog.Product
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /products [post]
func (c *CatalogController) Create(ctx *gin.Context) {
	var request dto.ProductRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	product, err := catalog.NewProduct(request.Name, request.Unit, catalog.ProductClass(request.Class))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	if request.EAN != "" {
		product.EAN = &request.EAN
	}
	product.Supplier = request.Supplier
	product.Weight = request.Weight
	product.ValidityDate = request.ValidityDate
	product.ImagePath = request.ImagePath
	product.AlternateCodes = request.AlternateCodes

	if err := c.products.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, catalog.ErrDuplicateCode) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Código já cadastrado para outro produto", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// GetByID busca um produto pelo ID
// @Summary Busca um produto pelo ID
// @Tags catalog
// @Produce json
// @Param id path string true "ID do produto"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id} [get]
func (c *CatalogController) GetByID(ctx *gin.Context) {
	product, err := c.repository.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar produto", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// Resolve localiza um produto por SKU, EAN ou código alternativo
// @Summary Resolve um código de produto
// @Description Tenta o token como SKU, depois EAN e por fim código alternativo
// @Tags catalog
// @Produce json
// @Param code path string true "Código digitado ou lido"
// @Success 200 {object} catalog.Product
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/resolve/{code} [get]
func (c *CatalogController) Resolve(ctx *gin.Context) {
	product, err := c.products.ResolveCode(ctx, ctx.Param("code"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao resolver código", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// List lista os produtos com paginação
// @Summary Lista os produtos
// @Tags catalog
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} catalog.Product
// @Router /products [get]
func (c *CatalogController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	pagination := dto.GetPagination(page, pageSize)
	offset := (pagination.Page - 1) * pagination.PageSize

	products, err := c.repository.List(ctx, pagination.PageSize, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar produtos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// CreatePriceTable cadastra uma tabela de preços
// @Summary Cadastra uma tabela de preços
// @Tags catalog
// @Accept json
// @Produce json
// @Param table body dto.PriceTableRequest true "Dados da tabela"
// @Success 201 {object} catalog.PriceTable
// @Failure 400 {object} dto.ErrorResponse
// @Router /price-tables [post]
func (c *CatalogController) CreatePriceTable(ctx *gin.Context) {
	var request dto.PriceTableRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	now := time.Now()
	table := &catalog.PriceTable{
		ID:        uuid.NewString(),
		Name:      request.Name,
		Document:  request.Document,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.repository.CreatePriceTable(ctx, table); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar tabela de preços", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, table)
}

// SetPrice grava o preço de um produto em uma tabela
// @Summary Grava o preço de um produto
// @Description Grava preço de venda e custo, derivando a margem
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "ID do produto"
// @Param price body dto.ProductPriceRequest true "Dados do preço"
// @Success 200 {object} catalog.ProductPrice
// @Failure 400 {object} dto.ErrorResponse
// @Router /products/{id}/price [put]
func (c *CatalogController) SetPrice(ctx *gin.Context) {
	var request dto.ProductPriceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	price, err := c.products.SetPrice(ctx, ctx.Param("id"), request.PriceTableID, request.SalePrice, request.CostPrice)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidPricing) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Preço inválido", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gravar preço", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, price)
}

// GetPrice consulta o preço vigente do produto para um CNPJ
// @Summary Consulta o preço vigente
// @Description A tabela do estabelecimento prevalece sobre a da organização
// @Tags catalog
// @Produce json
// @Param id path string true "ID do produto"
// @Param place_document query string true "CNPJ do estabelecimento"
// @Param org_document query string false "CNPJ da organização"
// @Success 200 {object} catalog.Price
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id}/price [get]
func (c *CatalogController) GetPrice(ctx *gin.Context) {
	placeDocument := ctx.Query("place_document")
	if placeDocument == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "CNPJ do estabelecimento não fornecido", ""))
		return
	}

	price, err := c.products.PriceFor(ctx, ctx.Param("id"), placeDocument, ctx.Query("org_document"))
	if err != nil {
		if errors.Is(err, catalog.ErrNoPrice) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Produto sem preço na tabela vigente", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao consultar preço", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, price)
}

// CreateWarehouse cadastra um depósito de estoque
// @Summary Cadastra um depósito
// @Tags inventory
// @Accept json
// @Produce json
// @Param warehouse body dto.WarehouseRequest true "Dados do depósito"
// @Success 201 {object} inventory.Warehouse
// @Failure 400 {object} dto.ErrorResponse
// @Router /warehouses [post]
func (c *CatalogController) CreateWarehouse(ctx *gin.Context) {
	var request dto.WarehouseRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	warehouse, err := inventory.NewWarehouse(request.OrganizationID, request.Code, request.Name, request.Address)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	if err := c.stocks.CreateWarehouse(ctx, warehouse); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar depósito", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, warehouse)
}

// ListWarehouses lista os depósitos de uma organização
// @Summary Lista os depósitos
// @Tags inventory
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {array} inventory.Warehouse
// @Router /warehouses [get]
func (c *CatalogController) ListWarehouses(ctx *gin.Context) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return
	}

	warehouses, err := c.stocks.ListWarehouses(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar depósitos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, warehouses)
}

// GetStock consulta o saldo de um produto em um depósito
// @Summary Consulta o saldo de estoque
// @Tags inventory
// @Produce json
// @Param id path string true "ID do produto"
// @Param warehouse_id query string true "ID do depósito"
// @Success 200 {object} inventory.StockLevel
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{id}/stock [get]
func (c *CatalogController) GetStock(ctx *gin.Context) {
	warehouseID := ctx.Query("warehouse_id")
	if warehouseID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID do depósito não fornecido", ""))
		return
	}

	stock, err := c.stocks.FindStock(ctx, ctx.Param("id"), warehouseID)
	if err != nil {
		if errors.Is(err, inventory.ErrStockNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Saldo não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao consultar estoque", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, stock)
}
