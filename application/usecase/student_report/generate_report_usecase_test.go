package student_report

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

type MockStudentSource struct {
	mock.Mock
}

func (m *MockStudentSource) FetchStudent(ctx context.Context, id int64) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

type MockReportRenderer struct {
	mock.Mock
}

func (m *MockReportRenderer) Render(student *domain.Student) ([]byte, error) {
	args := m.Called(student)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportRenderer) ContentType() string {
	return "application/pdf"
}

func TestGenerateStudentReport(t *testing.T) {
	student := &domain.Student{ID: 7, Name: "Ana Putri"}

	t.Run("success", func(t *testing.T) {
		source := new(MockStudentSource)
		renderer := new(MockReportRenderer)
		source.On("FetchStudent", mock.Anything, int64(7)).Return(student, nil)
		renderer.On("Render", student).Return([]byte("%PDF-1.3"), nil)

		report, err := NewGenerateReportUseCase(source, renderer).GenerateStudentReport(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "student_report_7.pdf", report.Filename)
		assert.Equal(t, "application/pdf", report.ContentType)
		assert.Equal(t, []byte("%PDF-1.3"), report.Content)
		source.AssertExpectations(t)
		renderer.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		source := new(MockStudentSource)

		_, err := NewGenerateReportUseCase(source, new(MockReportRenderer)).GenerateStudentReport(context.Background(), 0)

		assert.ErrorIs(t, err, domain.ErrStudentNotFound)
		source.AssertNotCalled(t, "FetchStudent", mock.Anything, mock.Anything)
	})

	t.Run("source failure passes through", func(t *testing.T) {
		source := new(MockStudentSource)
		renderer := new(MockReportRenderer)
		source.On("FetchStudent", mock.Anything, int64(7)).Return(nil, outbound.ErrStudentSourceUnavailable)

		_, err := NewGenerateReportUseCase(source, renderer).GenerateStudentReport(context.Background(), 7)

		assert.ErrorIs(t, err, outbound.ErrStudentSourceUnavailable)
		renderer.AssertNotCalled(t, "Render", mock.Anything)
	})

	t.Run("render failure", func(t *testing.T) {
		source := new(MockStudentSource)
		renderer := new(MockReportRenderer)
		source.On("FetchStudent", mock.Anything, int64(7)).Return(student, nil)
		renderer.On("Render", student).Return(nil, errors.New("font missing"))

		_, err := NewGenerateReportUseCase(source, renderer).GenerateStudentReport(context.Background(), 7)

		assert.ErrorContains(t, err, "failed to render report")
	})
}
