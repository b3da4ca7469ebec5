package analytics

import (
	"context"

	"github.com/jhoicas/pos-analytics/internal/application/dto"
)

// ReportPDFGenerator puerto para renderizar reportes en PDF.
// Implementación en infrastructure/pdf (Maroto v2).
type ReportPDFGenerator interface {
	GenerateProfitMarginPDF(ctx context.Context, tenantID string, report *dto.ProfitMarginDTO) ([]byte, error)
}
