package handler

import (
	"bytes"
	"net/http"

	"github.com/contoso/university/internal/response"
	"github.com/contoso/university/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HomeHandler serves the landing, about and contact pages.
type HomeHandler struct {
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(reportService *service.ReportService, log zerolog.Logger) *HomeHandler {
	return &HomeHandler{
		reportService: reportService,
		log:           log.With().Str("component", "home_handler").Logger(),
	}
}

// Index godoc
// GET /
func (h *HomeHandler) Index(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"title":   "Contoso University",
		"message": "Welcome to Contoso University",
	})
}

// About godoc
// GET /about
// Returns the number of students per enrollment date.
func (h *HomeHandler) About(c *gin.Context) {
	groups, err := h.reportService.EnrollmentByDate(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Str("request_id", c.GetString(response.ContextKeyRequestID)).Msg("Enrollment report failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

// ExportAbout godoc
// GET /about/export
// Downloads the enrollment report as an Excel workbook.
func (h *HomeHandler) ExportAbout(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reportService.ExportEnrollment(c.Request.Context(), &buf); err != nil {
		h.log.Error().Err(err).Str("request_id", c.GetString(response.ContextKeyRequestID)).Msg("Enrollment export failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="enrollment-by-date.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Contact godoc
// GET /contact
func (h *HomeHandler) Contact(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Your contact page."})
}
