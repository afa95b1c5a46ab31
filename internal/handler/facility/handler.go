package facility

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/model"
	facilityService "github.com/clinicdesk/clinic-api/internal/service/facility"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *facilityService.Service
}

func NewHandler(service *facilityService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	facilities := r.Group("/facilities")
	{
		facilities.POST("", h.CreateFacility)
		facilities.GET("", h.ListFacilities)
		facilities.GET("/:name", h.GetFacility)
		facilities.PUT("/:name", h.UpdateFacility)
		facilities.DELETE("/:name", h.DeleteFacility)
	}
}

func (h *Handler) CreateFacility(c *gin.Context) {
	var req model.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	facility, err := h.service.CreateFacility(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, facility)
}

func (h *Handler) GetFacility(c *gin.Context) {
	facility, err := h.service.GetFacilityByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, facility)
}

func (h *Handler) ListFacilities(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidPageRequest, "invalid pagination: %v", err))
		return
	}

	facilities, total, err := h.service.ListFacilities(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p.Normalize()
	httputil.RespondWithPagination(c, facilities, p.Page, p.PageSize, total)
}

func (h *Handler) UpdateFacility(c *gin.Context) {
	var req model.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	facility, err := h.service.UpdateFacilityByName(c.Request.Context(), c.Param("name"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, facility)
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	if err := h.service.DeleteFacilityByName(c.Request.Context(), c.Param("name")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "facility deleted"})
}
