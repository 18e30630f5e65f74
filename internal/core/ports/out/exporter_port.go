package out

import (
	"context"
	"io"

	"github.com/suchimauz/appointment-board/internal/core/domain"
)

type ExporterPort interface {
	ContentType() string
	FileName() string
	Export(ctx context.Context, rows []domain.ExportRow, w io.Writer) error
}
