package patient

import (
	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/clinic-api/internal/model"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *patientService.Service
}

func NewHandler(service *patientService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:email", h.GetPatient)
		patients.PUT("/:email", h.UpdatePatient)
		patients.DELETE("/:email", h.DeletePatient)
		patients.PATCH("/:email/password", h.ChangePassword)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	patient, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, patient)
}

func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.service.GetPatientByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) ListPatients(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidPageRequest, "invalid pagination: %v", err))
		return
	}

	patients, total, err := h.service.ListPatients(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p.Normalize()
	httputil.RespondWithPagination(c, patients, p.Page, p.PageSize, total)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	patient, err := h.service.UpdatePatientByEmail(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, patient)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), c.Param("email"), req.Password); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "password updated"})
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.service.DeletePatientByEmail(c.Request.Context(), c.Param("email")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "patient deleted"})
}
