package controller

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/erp-pdv/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-pdv/internal/adapter/repository"
	"github.com/hugohenrick/erp-pdv/internal/domain/organization"
	"github.com/hugohenrick/erp-pdv/internal/service"
	"github.com/hugohenrick/erp-pdv/pkg/pkcs12"
)

// OrganizationController gerencia organizações, estabelecimentos e terminais
type OrganizationController struct {
	organizations *service.OrganizationService
}

// NewOrganizationController cria uma nova instância de OrganizationController
func NewOrganizationController(organizations *service.OrganizationService) *OrganizationController {
	return &OrganizationController{organizations: organizations}
}

// Create cadastra uma nova organização
// @Summary Cadastra uma organização
// @Tags organizations
// @Accept json
// @Produce json
// @Param organization body dto.OrganizationRequest true "Dados da organização"
// @Success 201 {object} organization.Organization
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /organizations [post]
func (c *OrganizationController) Create(ctx *gin.Context) {
	var request dto.OrganizationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	o, err := organization.NewOrganization(request.Document, request.LegalName, request.TradeName,
		request.Address, request.FiscalRegime, organization.Environment(request.Environment))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	o.CSCID = request.CSCID
	o.CSCToken = request.CSCToken

	if err := c.organizations.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrOrganizationDuplicateDocument) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Organização com mesmo CNPJ já existe", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar organização", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, o)
}

// GetByID busca uma organização pelo ID
// @Summary Busca uma organização pelo ID
// @Tags organizations
// @Produce json
// @Param id path string true "ID da organização"
// @Success 200 {object} organization.Organization
// @Failure 404 {object} dto.ErrorResponse
// @Router /organizations/{id} [get]
func (c *OrganizationController) GetByID(ctx *gin.Context) {
	o, err := c.organizations.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Organização não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar organização", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, o)
}

// List lista as organizações
// @Summary Lista as organizações
// @Tags organizations
// @Produce json
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {array} organization.Organization
// @Router /organizations [get]
func (c *OrganizationController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	pagination := dto.GetPagination(page, pageSize)
	offset := (pagination.Page - 1) * pagination.PageSize

	organizations, err := c.organizations.List(ctx, pagination.PageSize, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar organizações", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, organizations)
}

// Update altera os dados cadastrais de uma organização
// @Summary Atualiza uma organização
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "ID da organização"
// @Param organization body dto.OrganizationRequest true "Dados da organização"
// @Success 200 {object} organization.Organization
// @Failure 404 {object} dto.ErrorResponse
// @Router /organizations/{id} [put]
func (c *OrganizationController) Update(ctx *gin.Context) {
	o, err := c.organizations.FindByID(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Organização não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar organização", err.Error()))
		return
	}

	var request dto.OrganizationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	o.Document = request.Document
	o.LegalName = request.LegalName
	o.TradeName = request.TradeName
	o.Address = request.Address
	o.FiscalRegime = request.FiscalRegime
	if request.Environment != "" {
		o.Environment = organization.Environment(request.Environment)
	}
	o.CSCID = request.CSCID
	if request.CSCToken != "" {
		o.CSCToken = request.CSCToken
	}

	if err := c.organizations.Update(ctx, o); err != nil {
		if errors.Is(err, repository.ErrOrganizationDuplicateDocument) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "CNPJ já está sendo usado por outra organização", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar organização", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, o)
}

// StoreCertificate valida e armazena o certificado A1 da organização
// @Summary Armazena o certificado A1
// @Description Valida o PFX com a senha informada antes de armazenar
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path string true "ID da organização"
// @Param certificate body dto.CertificateRequest true "Certificado em base64 e senha"
// @Success 200 {object} pkcs12.Info
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /organizations/{id}/certificate [put]
func (c *OrganizationController) StoreCertificate(ctx *gin.Context) {
	var request dto.CertificateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	pfxData, err := base64.StdEncoding.DecodeString(request.PfxBase64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Certificado inválido", "O conteúdo deve estar em base64"))
		return
	}

	info, err := c.organizations.StoreCertificate(ctx, ctx.Param("id"), pfxData, request.Password)
	if err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Organização não encontrada", ""))
			return
		}
		if errors.Is(err, pkcs12.ErrCertificadoInvalido) || errors.Is(err, pkcs12.ErrCertificadoVencido) {
			ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(http.StatusUnprocessableEntity, "Certificado rejeitado", err.Error()))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao armazenar certificado", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, info)
}

// CreatePlace cadastra um estabelecimento
// @Summary Cadastra um estabelecimento
// @Tags organizations
// @Accept json
// @Produce json
// @Param place body dto.FiscalPlaceRequest true "Dados do estabelecimento"
// @Success 201 {object} organization.FiscalPlace
// @Failure 400 {object} dto.ErrorResponse
// @Router /places [post]
func (c *OrganizationController) CreatePlace(ctx *gin.Context) {
	var request dto.FiscalPlaceRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	place, err := organization.NewFiscalPlace(request.OrganizationID, request.Name)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	place.Document = request.Document
	place.CSCID = request.CSCID
	place.CSCToken = request.CSCToken

	if err := c.organizations.CreatePlace(ctx, place); err != nil {
		if errors.Is(err, organization.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Organização não encontrada", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar estabelecimento", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, place)
}

// ListPlaces lista os estabelecimentos de uma organização
// @Summary Lista os estabelecimentos
// @Tags organizations
// @Produce json
// @Param organization_id query string true "ID da organização"
// @Success 200 {array} organization.FiscalPlace
// @Router /places [get]
func (c *OrganizationController) ListPlaces(ctx *gin.Context) {
	organizationID := ctx.Query("organization_id")
	if organizationID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID da organização não fornecido", ""))
		return
	}

	places, err := c.organizations.ListPlaces(ctx, organizationID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar estabelecimentos", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, places)
}

// EffectiveDocument resolve o CNPJ de trabalho de um estabelecimento
// @Summary Resolve o CNPJ de trabalho
// @Description Retorna o CNPJ do estabelecimento, herdado da organização quando não configurado
// @Tags organizations
// @Produce json
// @Param id path string true "ID do estabelecimento"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /places/{id}/document [get]
func (c *OrganizationController) EffectiveDocument(ctx *gin.Context) {
	document, err := c.organizations.EffectiveDocument(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, organization.ErrPlaceNotFound) || errors.Is(err, organization.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Estabelecimento não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao resolver CNPJ", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"document": document})
}

// CreateTerminal cadastra um terminal de venda
// @Summary Cadastra um terminal
// @Tags terminals
// @Accept json
// @Produce json
// @Param terminal body dto.TerminalRequest true "Dados do terminal"
// @Success 201 {object} organization.Terminal
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /terminals [post]
func (c *OrganizationController) CreateTerminal(ctx *gin.Context) {
	var request dto.TerminalRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	terminal, err := organization.NewTerminal(request.FiscalPlaceID, request.Hostname, request.Name, request.DefaultWarehouseID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	applyTerminalRequest(terminal, request)

	if err := c.organizations.CreateTerminal(ctx, terminal); err != nil {
		if errors.Is(err, repository.ErrTerminalDuplicateHostname) {
			ctx.JSON(http.StatusConflict, dto.NewErrorResponse(http.StatusConflict, "Terminal com mesmo hostname já existe", ""))
			return
		}
		if errors.Is(err, organization.ErrPlaceNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Estabelecimento não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao criar terminal", err.Error()))
		return
	}

	ctx.JSON(http.StatusCreated, terminal)
}

// UpdateTerminal altera a configuração de um terminal
// @Summary Atualiza um terminal
// @Tags terminals
// @Accept json
// @Produce json
// @Param id path string true "ID do terminal"
// @Param terminal body dto.TerminalRequest true "Dados do terminal"
// @Success 200 {object} organization.Terminal
// @Failure 404 {object} dto.ErrorResponse
// @Router /terminals/{id} [put]
func (c *OrganizationController) UpdateTerminal(ctx *gin.Context) {
	var request dto.TerminalRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
		return
	}

	terminal, err := organization.NewTerminal(request.FiscalPlaceID, request.Hostname, request.Name, request.DefaultWarehouseID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Dados inválidos", err.Error()))
		return
	}
	terminal.ID = ctx.Param("id")
	applyTerminalRequest(terminal, request)

	if err := c.organizations.UpdateTerminal(ctx, terminal); err != nil {
		if errors.Is(err, organization.ErrTerminalNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Terminal não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao atualizar terminal", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, terminal)
}

// GetTerminalByHostname localiza o terminal pelo nome da máquina
// @Summary Busca um terminal pelo hostname
// @Description Usado na identificação automática do ponto de venda
// @Tags terminals
// @Produce json
// @Param hostname path string true "Hostname do terminal"
// @Success 200 {object} organization.Terminal
// @Failure 404 {object} dto.ErrorResponse
// @Router /terminals/hostname/{hostname} [get]
func (c *OrganizationController) GetTerminalByHostname(ctx *gin.Context) {
	terminal, err := c.organizations.FindTerminalByHostname(ctx, ctx.Param("hostname"))
	if err != nil {
		if errors.Is(err, organization.ErrTerminalNotFound) {
			ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(http.StatusNotFound, "Terminal não encontrado", ""))
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao buscar terminal", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, terminal)
}

// ListTerminals lista os terminais de um estabelecimento
// @Summary Lista os terminais
// @Tags terminals
// @Produce json
// @Param fiscal_place_id query string true "ID do estabelecimento"
// @Success 200 {array} organization.Terminal
// @Router /terminals [get]
func (c *OrganizationController) ListTerminals(ctx *gin.Context) {
	placeID := ctx.Query("fiscal_place_id")
	if placeID == "" {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "ID do estabelecimento não fornecido", ""))
		return
	}

	terminals, err := c.organizations.ListTerminals(ctx, placeID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao listar terminais", err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, terminals)
}

func applyTerminalRequest(t *organization.Terminal, request dto.TerminalRequest) {
	t.OperatorAccountID = request.OperatorAccountID
	t.CashAccountID = request.CashAccountID
	t.CardAccountID = request.CardAccountID
	t.PixAccountID = request.PixAccountID
	t.OtherAccountID = request.OtherAccountID
	if request.Series != "" {
		t.Series = request.Series
	}
}
