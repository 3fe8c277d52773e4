package report

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sgthedux/sgth-sub001/internal/license"
)

// Permit form cell positions (formato de solicitud de permisos laborales).
const (
	formSheet = "Formato"

	cellRadicado      = "E2"
	cellRequestDate   = "E3"
	cellFullName      = "C5"
	cellDocument      = "C6"
	cellWorkArea      = "C7"
	cellJobTitle      = "C8"
	cellStartDate     = "E24"
	cellEndDate       = "E25"
	cellStartTime     = "F24"
	cellEndTime       = "F25"
	cellCompensation  = "E26"
	cellReplacement   = "E27"
	cellReason        = "B29"
	cellStatus        = "E31"
	cellHRComment     = "B32"
	checkMark         = "X"
	permitLabelColumn = "B"
	permitLabelFirst  = 10
	permitLabelLast   = 21
)

// FormFiller renders the single-request permit form. When a template path is
// configured the institutional template is opened and only the variable cells
// are written; otherwise a plain workbook with the same coordinates is built.
type FormFiller struct {
	templatePath string
	logger       *zap.Logger
}

func NewFormFiller(templatePath string, logger ...*zap.Logger) (*FormFiller, error) {
	l := zap.L().Named("form_filler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err != nil {
			return nil, fmt.Errorf("form template not found: %s", templatePath)
		}
	}

	return &FormFiller{templatePath: templatePath, logger: l}, nil
}

func (ff *FormFiller) Fill(r *license.LicenseRequest) ([]byte, error) {
	f, err := ff.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set := func(cell string, value interface{}) {
		if err := f.SetCellValue(formSheet, cell, value); err != nil {
			ff.logger.Warn("failed to set form cell", zap.String("cell", cell), zap.Error(err))
		}
	}

	set(cellRadicado, r.Radicado)
	set(cellRequestDate, r.CreatedAt.Format("2006-01-02"))
	set(cellFullName, r.FirstName+" "+r.LastName)
	set(cellDocument, r.DocumentType+" "+r.DocumentNumber)
	if r.WorkArea != nil {
		set(cellWorkArea, *r.WorkArea)
	}
	set(cellJobTitle, r.JobTitle)

	// Checkmark next to the matching permit type.
	if cell := r.PermitType.FormCell(); cell != "" {
		set(cell, checkMark)
	}

	set(cellStartDate, r.StartDate.Format("2006-01-02"))
	set(cellEndDate, r.EndDate.Format("2006-01-02"))
	if r.StartTime != nil {
		set(cellStartTime, *r.StartTime)
	}
	if r.EndTime != nil {
		set(cellEndTime, *r.EndTime)
	}
	if r.CompensationDate != nil {
		set(cellCompensation, r.CompensationDate.Format("2006-01-02"))
	}
	if r.RequiresReplacement && r.ReplacementName != nil {
		set(cellReplacement, *r.ReplacementName)
	}
	set(cellReason, r.Reason)
	set(cellStatus, r.Status.Label())
	if r.HRComment != nil {
		set(cellHRComment, *r.HRComment)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write form workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (ff *FormFiller) open() (*excelize.File, error) {
	if ff.templatePath != "" {
		f, err := excelize.OpenFile(ff.templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open form template: %w", err)
		}
		return f, nil
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", formSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := ff.writeBlankLayout(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (ff *FormFiller) writeBlankLayout(f *excelize.File) error {
	if err := f.SetColWidth(formSheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(formSheet, "C", "F", 22); err != nil {
		return err
	}

	labels := map[string]string{
		"A2":  "Radicado",
		"A3":  "Fecha de solicitud",
		"A5":  "Nombre completo",
		"A6":  "Documento",
		"A7":  "Área",
		"A8":  "Cargo",
		"A9":  "Tipo de permiso",
		"A24": "Fecha inicio",
		"A25": "Fecha fin",
		"A26": "Fecha de compensación",
		"A27": "Reemplazo",
		"A29": "Motivo",
		"A31": "Estado",
	}
	for cell, label := range labels {
		if err := f.SetCellValue(formSheet, cell, label); err != nil {
			return err
		}
	}

	row := permitLabelFirst
	for _, pt := range license.PermitTypes() {
		cell := fmt.Sprintf("%s%d", permitLabelColumn, row)
		if err := f.SetCellValue(formSheet, cell, pt.Label()); err != nil {
			return err
		}
		row++
		if row > permitLabelLast {
			break
		}
	}

	return nil
}
