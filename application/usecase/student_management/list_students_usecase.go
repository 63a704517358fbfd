package student_management

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusdesk/students/application/port/inbound"
	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ListStudentsUseCase struct {
	studentRepo outbound.StudentRepository
}

func NewListStudentsUseCase(studentRepo outbound.StudentRepository) *ListStudentsUseCase {
	return &ListStudentsUseCase{
		studentRepo: studentRepo,
	}
}

func (uc *ListStudentsUseCase) Execute(ctx context.Context, req inbound.ListStudentsRequest) (*inbound.ListStudentsResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = defaultPageLimit
	}
	if req.Limit > maxPageLimit {
		req.Limit = maxPageLimit
	}

	filter := domain.StudentFilter{
		Name:    strings.TrimSpace(req.Name),
		Class:   strings.TrimSpace(req.Class),
		Section: strings.TrimSpace(req.Section),
		Roll:    req.Roll,
		Limit:   req.Limit,
		Offset:  (req.Page - 1) * req.Limit,
	}

	if req.Status != "" {
		status := domain.StudentStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		if !status.IsValid() {
			return nil, domain.ErrInvalidStudentStatus
		}
		filter.Status = &status
	}

	students, err := uc.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if students == nil {
		students = []*domain.Student{}
	}

	total, err := uc.studentRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	return &inbound.ListStudentsResponse{
		Students: students,
		Pagination: inbound.PaginationInfo{
			Page:  req.Page,
			Limit: req.Limit,
			Total: total,
		},
	}, nil
}
