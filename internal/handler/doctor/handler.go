package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-api/internal/model"
	doctorService "github.com/clinicdesk/clinic-api/internal/service/doctor"
	apperrors "github.com/clinicdesk/clinic-api/pkg/errors"
	"github.com/clinicdesk/clinic-api/pkg/httputil"
)

type Handler struct {
	service *doctorService.Service
}

func NewHandler(service *doctorService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:email", h.GetDoctor)
		doctors.PUT("/:email", h.UpdateDoctor)
		doctors.DELETE("/:email", h.DeleteDoctor)
		doctors.PATCH("/:email/password", h.ChangePassword)
		doctors.PUT("/:email/facilities/:facilityId", h.AssignFacility)
		doctors.DELETE("/:email/facilities/:facilityId", h.RemoveFacility)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	doctor, err := h.service.CreateDoctor(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, doctor)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	doctor, err := h.service.GetDoctorByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidPageRequest, "invalid pagination: %v", err))
		return
	}

	doctors, total, err := h.service.ListDoctors(c.Request.Context(), p)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	p.Normalize()
	httputil.RespondWithPagination(c, doctors, p.Page, p.PageSize, total)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid request body: %v", err))
		return
	}

	doctor, err := h.service.UpdateDoctorByEmail(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctor)
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

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if err := h.service.DeleteDoctorByEmail(c.Request.Context(), c.Param("email")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "doctor deleted"})
}

func (h *Handler) AssignFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid facility ID"))
		return
	}

	doctor, err := h.service.AssignFacility(c.Request.Context(), c.Param("email"), facilityID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctor)
}

func (h *Handler) RemoveFacility(c *gin.Context) {
	facilityID, err := uuid.Parse(c.Param("facilityId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation(apperrors.CodeInvalidRequest, "invalid facility ID"))
		return
	}

	if err := h.service.RemoveFacility(c.Request.Context(), c.Param("email"), facilityID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"message": "facility unassigned"})
}
