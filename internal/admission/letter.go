package admission

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"admissions/internal/common/config"
	"admissions/internal/models"
)

//go:embed templates/letter.html.tmpl
var templateFS embed.FS

const letterDateLayout = "January 2, 2006"

// AfterPayment lists what the college sends once the fee is received.
var AfterPayment = []string{
	"Official enrollment confirmation certificate",
	"Student handbook and academic calendar",
	"Orientation schedule and campus information",
	"Access credentials to the student portal",
	"Housing application (if required)",
	"Course registration materials",
}

// Letter is a rendered admission letter.
type Letter struct {
	Subject  string
	HTML     string
	Text     string
	PDF      []byte
	Filename string
}

type letterData struct {
	College              config.AdmissionConfig
	FirstName            string
	LastName             string
	StudentID            string
	IssueDate            string
	RegistrationDeadline string
	Year                 int
	AfterPayment         []string
}

// LetterRenderer produces the HTML body, plain-text fallback and optional PDF
// copy of an admission letter.
type LetterRenderer struct {
	cfg       config.AdmissionConfig
	tmpl      *template.Template
	attachPDF bool
}

func NewLetterRenderer(cfg config.AdmissionConfig) (*LetterRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/letter.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse letter template: %w", err)
	}
	return &LetterRenderer{cfg: cfg, tmpl: tmpl, attachPDF: cfg.AttachPDF}, nil
}

// InitialSubject is the subject of the first letter sent for an application.
func InitialSubject(college, firstName string) string {
	return fmt.Sprintf("🎉 Congratulations %s! Your Admission to %s", firstName, college)
}

// ResendSubject is the subject of a re-sent letter.
func ResendSubject(college, studentID string) string {
	return fmt.Sprintf("🎉 [RESENT] Your Admission Letter - %s (%s)", college, studentID)
}

// Render builds the letter for a stored application. issuedAt is the date
// printed on the letter; the registration deadline is counted from it.
func (r *LetterRenderer) Render(rec *models.ApplicationRecord, issuedAt time.Time, resend bool) (*Letter, error) {
	data := letterData{
		College:              r.cfg,
		FirstName:            strings.TrimSpace(rec.PersonalInfo.FirstName),
		LastName:             strings.TrimSpace(rec.PersonalInfo.LastName),
		StudentID:            rec.StudentID,
		IssueDate:            issuedAt.Format(letterDateLayout),
		RegistrationDeadline: issuedAt.AddDate(0, 0, r.cfg.PaymentDeadlineDays).Format(letterDateLayout),
		Year:                 issuedAt.Year(),
		AfterPayment:         AfterPayment,
	}

	var html bytes.Buffer
	if err := r.tmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("execute letter template: %w", err)
	}

	letter := &Letter{
		Subject: InitialSubject(r.cfg.CollegeName, data.FirstName),
		HTML:    html.String(),
		Text:    plainText(data),
	}
	if resend {
		letter.Subject = ResendSubject(r.cfg.CollegeName, rec.StudentID)
	}

	if r.attachPDF {
		pdf, err := renderPDF(data)
		if err != nil {
			return nil, err
		}
		letter.PDF = pdf
		letter.Filename = fmt.Sprintf("admission-letter-%s.pdf", rec.StudentID)
	}
	return letter, nil
}

func plainText(d letterData) string {
	c := d.College
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nDate: %s\n\n", strings.ToUpper(c.CollegeName), d.IssueDate)
	fmt.Fprintf(&b, "Dear %s %s,\n\n", d.FirstName, d.LastName)
	fmt.Fprintf(&b, "You have been ACCEPTED FOR ADMISSION to the %s program at %s with tuition-free status.\n\n", c.ProgramName, c.CollegeName)
	fmt.Fprintf(&b, "Your Student ID: %s\n\n", d.StudentID)
	fmt.Fprintf(&b, "To secure your place, pay the processing fee of %s (%s) within %d days.\n\n",
		c.RegistrationFee, c.RegistrationFeeText, c.PaymentDeadlineDays)
	for _, line := range bankLines(d) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nRegistration Deadline: %s\n\n", d.RegistrationDeadline)
	fmt.Fprintf(&b, "Questions: %s | %s\n\n", c.ContactEmail, c.ContactPhone)
	fmt.Fprintf(&b, "Sincerely,\n%s\n%s\n%s\n", c.DirectorName, c.DirectorTitle, c.CollegeName)
	return b.String()
}

func bankLines(d letterData) []string {
	c := d.College
	return []string{
		"Bank: " + c.BankName,
		"Account Name: " + c.BankAccountName,
		"Account Number: " + c.BankAccountNumber,
		"Branch: " + c.BankBranch,
		"Swift Code: " + c.BankSwiftCode,
		"Payment Reference: " + d.StudentID,
	}
}

func renderPDF(d letterData) ([]byte, error) {
	c := d.College

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Admission Letter %s", d.StudentID), false)
	pdf.SetAuthor(c.CollegeName, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Times", "B", 20)
	pdf.SetTextColor(20, 83, 45)
	pdf.CellFormat(0, 10, tr(strings.ToUpper(c.CollegeName)), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, "Excellence in Education | Transforming Lives", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Tel: %s | Email: %s", c.ContactPhone, c.ContactEmail)), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Times", "I", 11)
	pdf.CellFormat(0, 6, "Date: "+d.IssueDate, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Times", "B", 12)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Dear %s %s,", d.FirstName, d.LastName)), "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf(
		"On behalf of the Admissions Committee, I am delighted to inform you that you have been ACCEPTED FOR ADMISSION to the %s program at %s with tuition-free status.",
		c.ProgramName, c.CollegeName)), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Courier", "B", 14)
	pdf.CellFormat(0, 8, "Student ID: "+d.StudentID, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf(
		"To secure your place, please remit the processing fee of %s (%s) within %d days:",
		c.RegistrationFee, c.RegistrationFeeText, c.PaymentDeadlineDays)), "", "L", false)
	pdf.SetFont("Courier", "", 11)
	for _, line := range bankLines(d) {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(0, 6, "Upon receipt of your payment, we will send you:", "", 1, "L", false, 0, "")
	pdf.SetFont("Times", "", 12)
	for _, item := range d.AfterPayment {
		pdf.CellFormat(0, 6, tr("- "+item), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.CellFormat(0, 6, "Registration Deadline: "+d.RegistrationDeadline, "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.CellFormat(0, 6, "Sincerely,", "", 1, "R", false, 0, "")
	pdf.SetFont("Times", "B", 12)
	pdf.CellFormat(0, 6, tr(c.DirectorName), "", 1, "R", false, 0, "")
	pdf.SetFont("Times", "", 12)
	pdf.CellFormat(0, 6, tr(c.DirectorTitle), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, tr(c.CollegeName), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
