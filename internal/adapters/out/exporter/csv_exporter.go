package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
)

// BOM нужен, чтобы табличные редакторы распознали UTF-8
const utf8BOM = "\uFEFF"

var csvHeader = []string{"ID", "Patient", "Praticien", "Date", "Statut", "Parent"}

type CSVExporter struct {
	logger out.LoggerPort
}

func NewCSVExporter(logger out.LoggerPort) *CSVExporter {
	return &CSVExporter{
		logger: logger.WithModule("CSVExporter"),
	}
}

func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (e *CSVExporter) FileName() string {
	return "rendezvous.csv"
}

func (e *CSVExporter) Export(ctx context.Context, rows []domain.ExportRow, w io.Writer) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("export.csv.write_bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("export.csv.write_header: %w", err)
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.PatientDisplayName,
			row.PractitionerDisplayName,
			row.FormattedDateTime,
			row.LocalizedStatus,
			row.ParentIDOrDash,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("export.csv.write_row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("export.csv.flush: %w", err)
	}

	e.logger.Debug("export.csv.written", out.LogFields{
		"rows": len(rows),
	})
	return nil
}
