// =============================================================================
// Payment Auditor - Reports
// =============================================================================
//
// This module renders a ResultSet for people. Three formats are available:
//
//   | Format | Writer    | Content                                         |
//   |--------|-----------|-------------------------------------------------|
//   | text   | WriteText | per-rule count and table, for the terminal      |
//   | xlsx   | WriteXLSX | "Resumen" sheet plus one sheet per rule         |
//   | xml    | WriteXML  | <auditReport> with every flagged row            |
//
// Reports only read the result set. Nothing is kept between runs.
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ginjaninja78/payment-auditor/internal/audit"
	"github.com/ginjaninja78/payment-auditor/internal/config"
	"github.com/ginjaninja78/payment-auditor/internal/dataset"
	"github.com/ginjaninja78/payment-auditor/internal/mapper"
	"github.com/ginjaninja78/payment-auditor/pkg/utils"
)

// NoIssues is printed for a rule that ran and flagged nothing.
const NoIssues = "Sin inconsistencias detectadas."

// Meta identifies one audit run.
type Meta struct {
	RunID       uuid.UUID
	Source      string
	GeneratedAt time.Time
	FiscalYear  int
}

// NewMeta creates the metadata for a run started now.
func NewMeta(source string, fiscalYear int) Meta {
	return Meta{
		RunID:       uuid.New(),
		Source:      source,
		GeneratedAt: time.Now(),
		FiscalYear:  fiscalYear,
	}
}

// CountLine returns the heading shown above a rule's rows.
func CountLine(r audit.RuleResult) string {
	return fmt.Sprintf("%s (%d registros encontrados)", r.Name, r.Count())
}

// header returns the display label of a column. Logical fields get their
// Spanish label; other columns keep the source label.
func header(column string) string {
	return mapper.Field(column).Label()
}

// cellText renders a cell for reports.
func cellText(row dataset.Row, column string) string {
	return row.Get(column).String()
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes one report per format into settings.OutputDir and returns the
// paths written.
//
// PARAMETERS:
//   - settings: output directory, formats and file name format
//   - rs: the result set to render
//   - meta: run metadata; RunID and GeneratedAt fill {uuid} and {timestamp}
//
// RETURNS:
//   - The paths of the files written, in format order.
//   - An error for the first format that could not be written. Files
//     written before it are kept.
func Save(settings config.ReportSettings, rs *audit.ResultSet, meta Meta) ([]string, error) {
	if err := utils.EnsureDir(settings.OutputDir); err != nil {
		return nil, err
	}

	params := map[string]string{
		"uuid":      meta.RunID.String(),
		"timestamp": meta.GeneratedAt.Format("20060102_150405"),
		"source":    utils.BaseName(meta.Source),
	}

	var paths []string
	for _, format := range settings.Formats {
		format = strings.ToLower(format)
		if err := config.ValidateFormat(format); err != nil {
			return paths, err
		}

		name := utils.GenerateOutputFileName(settings.FileNameFormat, extension(format), params)
		path := filepath.Join(settings.OutputDir, name)

		err := utils.WriteFileAtomic(path, func(w io.Writer) error {
			return Write(w, format, rs, meta)
		})
		if err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", format, err)
		}

		size, err := utils.GetFileSize(path)
		if err != nil {
			return paths, fmt.Errorf("failed to stat %s report: %w", format, err)
		}

		log.WithFields(log.Fields{"format": format, "path": path, "bytes": size}).Info("report written")
		paths = append(paths, path)
	}

	return paths, nil
}

// Write renders rs in the named format.
func Write(w io.Writer, format string, rs *audit.ResultSet, meta Meta) error {
	switch strings.ToLower(format) {
	case config.FormatText:
		return WriteText(w, rs, meta)
	case config.FormatXLSX:
		return WriteXLSX(w, rs, meta)
	case config.FormatXML:
		return WriteXML(w, rs, meta)
	default:
		return config.ValidateFormat(format)
	}
}

func extension(format string) string {
	if format == config.FormatText {
		return "txt"
	}
	return format
}
