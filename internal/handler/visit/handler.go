package visit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	visitService "github.com/clinicdesk/clinic-api/internal/service/visit"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *visitService.Service
}

func NewHandler(service *visitService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	visits := r.Group("/visits")
	{
		visits.POST("", h.CreateVisit)
		visits.POST("/:id/book", h.BookVisit)
		visits.GET("", h.ListVisits)
	}
}

func (h *Handler) CreateVisit(c *gin.Context) {
	var req model.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	visit, err := h.service.CreateOpenSlot(c.Request.Context(), req.DoctorID, req.StartTime, req.EndTime)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, visit)
}

func (h *Handler) BookVisit(c *gin.Context) {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid visit ID"))
		return
	}

	var req model.BookVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	visit, err := h.service.BookVisit(c.Request.Context(), visitID, req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, visit)
}

func (h *Handler) ListVisits(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidPageRequest, "invalid pagination: %v", err))
		return
	}

	visits, total, err := h.service.ListVisits(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p.Normalize()
	httputil.RespondWithPagination(c, visits, p.Page, p.PageSize, total)
}
