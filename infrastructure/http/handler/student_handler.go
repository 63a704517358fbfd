package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/domain"
	"github.com/campusdesk/students/infrastructure/http/middleware"
	"github.com/campusdesk/students/infrastructure/http/response"
	"github.com/campusdesk/students/infrastructure/http/validator"
	"github.com/campusdesk/students/infrastructure/service/logger"
	"github.com/campusdesk/students/infrastructure/service/metrics"
	"github.com/campusdesk/students/pkg/apierror"
)

const maxBodyBytes = 1 << 20

type StudentHandler struct {
	studentUseCase inbound.StudentUseCase
	logger         logger.Logger
	metrics        *metrics.Metrics
}

func NewStudentHandler(studentUseCase inbound.StudentUseCase, log logger.Logger, m *metrics.Metrics) *StudentHandler {
	return &StudentHandler{
		studentUseCase: studentUseCase,
		logger:         log,
		metrics:        m,
	}
}

// RegisterRoutes mounts the student endpoints on router, which is expected to
// be the /api/v1 subrouter guarded by the service token middleware.
func (h *StudentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/students", h.ListStudents).Methods(http.MethodGet)
	router.HandleFunc("/students", h.AddStudent).Methods(http.MethodPost)
	router.HandleFunc("/students/{id}", h.GetStudentDetail).Methods(http.MethodGet)
	router.HandleFunc("/students/{id}", h.UpdateStudent).Methods(http.MethodPut)
	router.HandleFunc("/students/{id}/status", h.SetStudentStatus).Methods(http.MethodPost)
	router.HandleFunc("/internals/students/{id}", h.GetStudentDetail).Methods(http.MethodGet)
}

// ListStudents reads filters from the query string. A JSON body is also
// accepted, with query parameters taking precedence.
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	var req inbound.ListStudentsRequest
	if r.Body != nil && r.ContentLength != 0 {
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	if err := applyListQuery(&req, r); err != nil {
		response.WriteError(r.Context(), w, h.logger, err)
		return
	}

	result, err := h.studentUseCase.ListStudents(r.Context(), req)
	if err != nil {
		response.WriteError(r.Context(), w, h.logger, mapStudentError(err))
		return
	}

	response.WriteJSON(w, http.StatusOK, response.Envelope{
		Success:    true,
		Students:   result.Students,
		Pagination: result.Pagination,
	})
}

func (h *StudentHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateStudentRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validateCreate(req); err != nil {
		response.WriteError(r.Context(), w, h.logger, err)
		return
	}

	student, err := h.studentUseCase.AddStudent(r.Context(), req)
	if err != nil {
		response.WriteError(r.Context(), w, h.logger, mapStudentError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.IncStudentsCreated()
	}
	h.logger.Info(r.Context(), "Student added", map[string]interface{}{
		"student_id": student.ID,
		"service_id": callerID(r),
	})

	response.Success(w, http.StatusCreated, "Student added successfully", student)
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	var req inbound.UpdateStudentRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := validateUpdate(req); err != nil {
		response.WriteError(r.Context(), w, h.logger, err)
		return
	}

	student, err := h.studentUseCase.UpdateStudent(r.Context(), id, req)
	if err != nil {
		response.WriteError(r.Context(), w, h.logger, mapStudentError(err))
		return
	}

	response.Success(w, http.StatusOK, "Student updated successfully", student)
}

// GetStudentDetail writes the bare student object, without the envelope.
func (h *StudentHandler) GetStudentDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	student, err := h.studentUseCase.GetStudentDetail(r.Context(), id)
	if err != nil {
		response.WriteError(r.Context(), w, h.logger, mapStudentError(err))
		return
	}

	response.WriteJSON(w, http.StatusOK, student)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *StudentHandler) SetStudentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateRequired(req.Status) {
		response.WriteError(r.Context(), w, h.logger, apierror.NewUnprocessableEntity("Status is required"))
		return
	}

	student, err := h.studentUseCase.SetStudentStatus(r.Context(), id, req.Status)
	if err != nil {
		response.WriteError(r.Context(), w, h.logger, mapStudentError(err))
		return
	}

	h.logger.Info(r.Context(), "Student status updated", map[string]interface{}{
		"student_id": student.ID,
		"status":     student.Status,
		"service_id": callerID(r),
	})

	response.Success(w, http.StatusOK, "Student status updated successfully", student)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return io.EOF
	}
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

// studentID parses the {id} path variable, writing a 400 when it is not numeric
func studentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid student ID")
		return 0, false
	}
	return id, true
}

func callerID(r *http.Request) string {
	if identity := middleware.ServiceIdentityFromContext(r.Context()); identity != nil {
		return identity.ID
	}
	return ""
}

func applyListQuery(req *inbound.ListStudentsRequest, r *http.Request) error {
	q := r.URL.Query()

	for key, dst := range map[string]*string{
		"name":    &req.Name,
		"class":   &req.Class,
		"section": &req.Section,
		"status":  &req.Status,
	} {
		if v := q.Get(key); v != "" {
			*dst = v
		}
	}

	for key, dst := range map[string]*int{
		"page":  &req.Page,
		"limit": &req.Limit,
	} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return apierror.NewBadRequest("Invalid query parameter: " + key)
			}
			*dst = n
		}
	}

	if v := q.Get("roll"); v != "" {
		roll, err := strconv.Atoi(v)
		if err != nil {
			return apierror.NewBadRequest("Invalid query parameter: roll")
		}
		req.Roll = &roll
	}

	return nil
}

func validateCreate(req inbound.CreateStudentRequest) error {
	if !validator.ValidateRequired(req.Name) {
		return apierror.NewUnprocessableEntity("Name is required")
	}
	if !validator.ValidateEmail(strings.TrimSpace(req.Email)) {
		return apierror.NewUnprocessableEntity("Invalid email format")
	}
	return validateContact(&req.Phone, &req.FatherPhone, &req.MotherPhone, &req.GuardianPhone, &req.Dob, &req.AdmissionDate)
}

func validateUpdate(req inbound.UpdateStudentRequest) error {
	if req.Name != nil && !validator.ValidateRequired(*req.Name) {
		return apierror.NewUnprocessableEntity("Name is required")
	}
	if req.Email != nil && !validator.ValidateEmail(strings.TrimSpace(*req.Email)) {
		return apierror.NewUnprocessableEntity("Invalid email format")
	}
	return validateContact(req.Phone, req.FatherPhone, req.MotherPhone, req.GuardianPhone, req.Dob, req.AdmissionDate)
}

func validateContact(phone, fatherPhone, motherPhone, guardianPhone, dob, admissionDate *string) error {
	for _, p := range []*string{phone, fatherPhone, motherPhone, guardianPhone} {
		if p != nil && !validator.ValidatePhone(*p) {
			return apierror.NewUnprocessableEntity("Invalid phone number")
		}
	}
	if dob != nil && !validator.ValidateDate(*dob) {
		return apierror.NewUnprocessableEntity("Invalid date of birth")
	}
	if admissionDate != nil && !validator.ValidateDate(*admissionDate) {
		return apierror.NewUnprocessableEntity("Invalid admission date")
	}
	return nil
}

// mapStudentError translates domain errors into API errors. Anything else is
// returned unchanged and rendered as a 500.
func mapStudentError(err error) error {
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
		return apierror.NewNotFound("Student not found")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return apierror.NewConflict("Email already exists")
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return apierror.NewUnprocessableEntity(capitalize(domainErr.Message))
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
