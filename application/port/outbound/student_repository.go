package outbound

import (
	"context"

	"github.com/campusdesk/students/domain"
)

type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	FindByID(ctx context.Context, id int64) (*domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	UpdateStatus(ctx context.Context, id int64, status domain.StudentStatus) (*domain.Student, error)
	List(ctx context.Context, filter domain.StudentFilter) ([]*domain.Student, error)
	Count(ctx context.Context, filter domain.StudentFilter) (int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
