package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/campusdesk/students/application/port/outbound"
	"github.com/campusdesk/students/domain"
)

const (
	ContentTypePDF = "application/pdf"

	displayDateLayout = "02-Jan-2006"
	divider           = "---------------------------------------------------"
)

// PDFRenderer lays a student out as a single A4 page
type PDFRenderer struct {
	now      func() time.Time
	compress bool
}

var _ outbound.ReportRenderer = (*PDFRenderer)(nil)

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{now: time.Now, compress: true}
}

func (r *PDFRenderer) ContentType() string {
	return ContentTypePDF
}

func (r *PDFRenderer) Render(student *domain.Student) ([]byte, error) {
	generatedAt := r.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(fmt.Sprintf("Student report %d", student.ID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "STUDENT REPORT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, "Generated on: "+generatedAt.Format("02-Jan-2006 15:04:05"))
	pdf.Ln(10)

	section := func(title string, lines ...string) {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, divider)
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, title)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 12)
		for _, line := range lines {
			pdf.Cell(40, 10, tr(line))
			pdf.Ln(6)
		}
		pdf.Ln(2)
	}

	section("STUDENT INFORMATION",
		"ID: "+strconv.FormatInt(student.ID, 10),
		"Name: "+student.Name,
		"Email: "+student.Email,
		"Phone: "+student.Phone,
		"Gender: "+student.Gender,
		"Date of Birth: "+FormatDate(student.Dob),
		"Class: "+student.Class,
		"Section: "+student.Section,
		"Roll Number: "+strconv.Itoa(student.Roll),
		"Status: "+string(student.Status),
		"System Access: "+strconv.FormatBool(student.SystemAccess),
	)
	section("PARENT AND GUARDIAN INFORMATION",
		"Father Name: "+student.FatherName,
		"Father Phone: "+student.FatherPhone,
		"Mother Name: "+student.MotherName,
		"Mother Phone: "+student.MotherPhone,
		"Guardian Name: "+student.GuardianName,
		"Guardian Phone: "+student.GuardianPhone,
		"Relationship: "+student.RelationOfGuardian,
	)
	section("ADDRESS INFORMATION",
		"Current Address: "+student.CurrentAddress,
		"Permanent Address: "+student.PermanentAddress,
		"Admission Date: "+FormatDate(student.AdmissionDate),
	)
	section("REPORTED BY",
		"Reporter Name: "+student.ReporterName,
	)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatDate renders an RFC 3339 or YYYY-MM-DD date as 02-Jan-2006.
// Anything else is returned unchanged.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return value
}
