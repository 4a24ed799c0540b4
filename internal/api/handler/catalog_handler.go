package handler

import (
	"github.com/gin-gonic/gin"

	"acompanhamento-obras/internal/dto"
	"acompanhamento-obras/internal/service"
	"acompanhamento-obras/pkg/response"
)

// CatalogHandler obras, etapas, serviços, casas e quantidades planejadas
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler cria CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ────────────────────── Obras ──────────────────────

// CreateProject POST /api/v1/obras
func (h *CatalogHandler) CreateProject(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.CreateProject(c.Request.Context(), &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListProjects GET /api/v1/obras
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	list, err := h.catalogSvc.ListProjects(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// DeleteProject exclusão em cascata, exige confirmação digitada
// DELETE /api/v1/obras/:obra_id
func (h *CatalogHandler) DeleteProject(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.DeleteProject(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── Etapas ──────────────────────

// CreatePhase POST /api/v1/obras/:obra_id/etapas
func (h *CatalogHandler) CreatePhase(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.CreatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.CreatePhase(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListPhases etapas cadastradas e efetivas
// GET /api/v1/obras/:obra_id/etapas
func (h *CatalogHandler) ListPhases(c *gin.Context) {
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	result, err := h.catalogSvc.ListPhases(c.Request.Context(), obraID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// DeletePhase DELETE /api/v1/obras/:obra_id/etapas
func (h *CatalogHandler) DeletePhase(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.DeletePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.DeletePhase(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── Serviços ──────────────────────

// CreateService POST /api/v1/obras/:obra_id/servicos
func (h *CatalogHandler) CreateService(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.CreateService(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListServices GET /api/v1/obras/:obra_id/servicos?etapa=
func (h *CatalogHandler) ListServices(c *gin.Context) {
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.ServiceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.catalogSvc.ListServices(c.Request.Context(), obraID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// DeleteService DELETE /api/v1/servicos/:servico_id
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	servicoID, ok := parseIDParam(c, "servico_id")
	if !ok {
		return
	}

	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.DeleteService(c.Request.Context(), servicoID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── Casas ──────────────────────

// CreateHouse POST /api/v1/obras/:obra_id/casas
func (h *CatalogHandler) CreateHouse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.CreateHouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.CreateHouse(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListHouses GET /api/v1/obras/:obra_id/casas
func (h *CatalogHandler) ListHouses(c *gin.Context) {
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	list, err := h.catalogSvc.ListHouses(c.Request.Context(), obraID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}

// DeleteHouse DELETE /api/v1/casas/:casa_id
func (h *CatalogHandler) DeleteHouse(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	casaID, ok := parseIDParam(c, "casa_id")
	if !ok {
		return
	}

	var req dto.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.DeleteHouse(c.Request.Context(), casaID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ────────────────────── Quantidades ──────────────────────

// SetPlannedQuantity PUT /api/v1/obras/:obra_id/quantidades
func (h *CatalogHandler) SetPlannedQuantity(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	var req dto.PlannedQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.catalogSvc.SetPlannedQuantity(c.Request.Context(), obraID, &req, actor)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ListPlannedQuantities GET /api/v1/obras/:obra_id/quantidades
func (h *CatalogHandler) ListPlannedQuantities(c *gin.Context) {
	obraID, ok := parseIDParam(c, "obra_id")
	if !ok {
		return
	}

	list, err := h.catalogSvc.ListPlannedQuantities(c.Request.Context(), obraID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, list)
}
