package clinic

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/internal/model"
	"github.com/jwalitptl/clinic-registry/internal/repository"
	clinicService "github.com/jwalitptl/clinic-registry/internal/service/clinic"
	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
	"github.com/jwalitptl/clinic-registry/pkg/validator"
)

type Handler struct {
	service         clinicService.ClinicServicer
	defaultPageSize int
	maxPageSize     int
}

func NewHandler(service clinicService.ClinicServicer, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		service:         service,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// RegisterRoutes serves both /clinics and /clinics/ without redirecting.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinics")
	{
		clinics.POST("", h.CreateClinic)
		clinics.POST("/", h.CreateClinic)
		clinics.GET("", h.ListClinics)
		clinics.GET("/", h.ListClinics)
	}
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req model.ClinicCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError("invalid clinic payload", err))
		return
	}

	clinic, err := h.service.CreateClinic(c.Request.Context(), &req)
	if err != nil {
		c.Error(storeError(err))
		return
	}

	c.JSON(http.StatusCreated, clinic)
}

func (h *Handler) ListClinics(c *gin.Context) {
	var params model.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.Error(bindError("invalid pagination parameters", err))
		return
	}

	skip, limit := params.Resolve(h.defaultPageSize, h.maxPageSize)
	clinics, err := h.service.ListClinics(c.Request.Context(), skip, limit)
	if err != nil {
		c.Error(storeError(err))
		return
	}

	c.JSON(http.StatusOK, clinics)
}

func bindError(message string, err error) *apperrors.AppError {
	// bodies without a declared length are cut off by the size limit while decoding
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.TooLarge(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), err)
	}
	if details := validator.Describe(err); len(details) > 0 {
		return apperrors.Validation(message, details, err)
	}
	return apperrors.BadRequest(message, err)
}

func storeError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return apperrors.Conflict("clinic with this clinic_id already exists", err)
	case errors.Is(err, repository.ErrUnavailable):
		return apperrors.Unavailable("clinic store", err)
	default:
		return apperrors.Internal(err)
	}
}
