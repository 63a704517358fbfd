package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

const uniqueViolation = "23505"

const studentColumns = `id, name, email, system_access, password_hash, phone, gender, dob, class, section, roll,
        father_name, father_phone, mother_name, mother_phone, guardian_name, guardian_phone,
        relation_of_guardian, current_address, permanent_address, admission_date, reporter_name,
        status, created_at, updated_at`

// StudentRepositoryAdapter implements outbound.StudentRepository on PostgreSQL
type StudentRepositoryAdapter struct {
	db *sql.DB
}

var _ outbound.StudentRepository = (*StudentRepositoryAdapter)(nil)

func NewStudentRepositoryAdapter(db *sql.DB) *StudentRepositoryAdapter {
	return &StudentRepositoryAdapter{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row rowScanner) (*domain.Student, error) {
	var s domain.Student
	var status string
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.SystemAccess, &s.PasswordHash, &s.Phone, &s.Gender, &s.Dob,
		&s.Class, &s.Section, &s.Roll,
		&s.FatherName, &s.FatherPhone, &s.MotherName, &s.MotherPhone, &s.GuardianName, &s.GuardianPhone,
		&s.RelationOfGuardian, &s.CurrentAddress, &s.PermanentAddress, &s.AdmissionDate, &s.ReporterName,
		&status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Status = domain.StudentStatus(status)
	return &s, nil
}

// Create inserts the student and sets its generated ID
func (r *StudentRepositoryAdapter) Create(ctx context.Context, student *domain.Student) error {
	query := `
        INSERT INTO students (name, email, system_access, password_hash, phone, gender, dob, class, section, roll,
            father_name, father_phone, mother_name, mother_phone, guardian_name, guardian_phone,
            relation_of_guardian, current_address, permanent_address, admission_date, reporter_name,
            status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
        RETURNING id
    `
	err := r.db.QueryRowContext(ctx, query,
		student.Name,
		student.Email,
		student.SystemAccess,
		student.PasswordHash,
		student.Phone,
		student.Gender,
		student.Dob,
		student.Class,
		student.Section,
		student.Roll,
		student.FatherName,
		student.FatherPhone,
		student.MotherName,
		student.MotherPhone,
		student.GuardianName,
		student.GuardianPhone,
		student.RelationOfGuardian,
		student.CurrentAddress,
		student.PermanentAddress,
		student.AdmissionDate,
		student.ReporterName,
		string(student.Status),
		student.CreatedAt,
		student.UpdatedAt,
	).Scan(&student.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *StudentRepositoryAdapter) FindByID(ctx context.Context, id int64) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return student, nil
}

func (r *StudentRepositoryAdapter) Update(ctx context.Context, student *domain.Student) error {
	query := `
        UPDATE students
        SET name = $2, email = $3, system_access = $4, password_hash = $5, phone = $6, gender = $7, dob = $8,
            class = $9, section = $10, roll = $11, father_name = $12, father_phone = $13, mother_name = $14,
            mother_phone = $15, guardian_name = $16, guardian_phone = $17, relation_of_guardian = $18,
            current_address = $19, permanent_address = $20, admission_date = $21, reporter_name = $22,
            status = $23, updated_at = $24
        WHERE id = $1
    `
	result, err := r.db.ExecContext(ctx, query,
		student.ID,
		student.Name,
		student.Email,
		student.SystemAccess,
		student.PasswordHash,
		student.Phone,
		student.Gender,
		student.Dob,
		student.Class,
		student.Section,
		student.Roll,
		student.FatherName,
		student.FatherPhone,
		student.MotherName,
		student.MotherPhone,
		student.GuardianName,
		student.GuardianPhone,
		student.RelationOfGuardian,
		student.CurrentAddress,
		student.PermanentAddress,
		student.AdmissionDate,
		student.ReporterName,
		string(student.Status),
		student.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

// UpdateStatus changes only the status column and returns the updated row
func (r *StudentRepositoryAdapter) UpdateStatus(ctx context.Context, id int64, status domain.StudentStatus) (*domain.Student, error) {
	query := `UPDATE students SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + studentColumns

	student, err := scanStudent(r.db.QueryRowContext(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to update student status: %w", err)
	}
	return student, nil
}

func (r *StudentRepositoryAdapter) List(ctx context.Context, filter domain.StudentFilter) ([]*domain.Student, error) {
	where, args := buildWhereClause(filter)
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1` + where + ` ORDER BY id ASC`

	argIndex := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

func (r *StudentRepositoryAdapter) Count(ctx context.Context, filter domain.StudentFilter) (int, error) {
	where, args := buildWhereClause(filter)
	query := "SELECT COUNT(*) FROM students WHERE 1=1" + where

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

func (r *StudentRepositoryAdapter) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// buildWhereClause returns the AND-joined filter conditions and their
// positional arguments, numbered from $1.
func buildWhereClause(filter domain.StudentFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	idx := 1
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", idx))
		args = append(args, "%"+escapeLike(filter.Name)+"%")
		idx++
	}
	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", idx))
		args = append(args, filter.Class)
		idx++
	}
	if filter.Section != "" {
		conditions = append(conditions, fmt.Sprintf("section = $%d", idx))
		args = append(args, filter.Section)
		idx++
	}
	if filter.Roll != nil {
		conditions = append(conditions, fmt.Sprintf("roll = $%d", idx))
		args = append(args, *filter.Roll)
		idx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", idx))
		args = append(args, string(*filter.Status))
	}

	where := ""
	if len(conditions) > 0 {
		where = " AND " + strings.Join(conditions, " AND ")
	}
	return where, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
