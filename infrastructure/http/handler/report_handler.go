package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
	"github.com/campusdesk/students/infrastructure/http/response"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
	"github.com/campusdesk/students/pkg/apierror"
)

// Report results recorded on students_reports_generated_total
const (
	reportResultOK       = "ok"
	reportResultNotFound = "not_found"
	reportResultUpstream = "upstream_error"
	reportResultFailed   = "render_error"
)

type ReportHandler struct {
	reportUseCase inbound.ReportUseCase
	logger        logger.Logger
	metrics       *metrics.Metrics
}

func NewReportHandler(reportUseCase inbound.ReportUseCase, log logger.Logger, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
		logger:        log,
		metrics:       m,
	}
}

func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/students/{id}/report", h.GenerateStudentReport).Methods(http.MethodGet)
}

func (h *ReportHandler) GenerateStudentReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid student ID")
		return
	}

	report, err := h.reportUseCase.GenerateStudentReport(r.Context(), id)
	if err != nil {
		result, apiErr := mapReportError(err)
		h.record(result)
		response.WriteError(r.Context(), w, h.logger, apiErr)
		return
	}
	h.record(reportResultOK)

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Content); err != nil {
		h.logger.Warn(r.Context(), "Failed to write report", map[string]interface{}{
			"student_id": id,
			"error":      err.Error(),
		})
	}
}

func (h *ReportHandler) record(result string) {
	if h.metrics != nil {
		h.metrics.RecordReport(result)
	}
}

func mapReportError(err error) (string, error) {
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
		return reportResultNotFound, apierror.NewNotFound("Student not found")
	case errors.Is(err, outbound.ErrStudentSourceUnavailable):
		return reportResultUpstream, apierror.NewBadGateway("Failed to fetch student", err)
	default:
		return reportResultFailed, apierror.NewInternalServer("Failed to generate report", err)
	}
}
