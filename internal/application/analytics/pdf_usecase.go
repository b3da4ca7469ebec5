package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/pos-analytics/internal/application/dto"
)

// PDFUseCase exporta el reporte de margen de utilidad como PDF.
// Reutiliza ReportUseCase, así que el PDF y el JSON muestran las mismas cifras.
type PDFUseCase struct {
	reports   *ReportUseCase
	generator ReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(reports *ReportUseCase, generator ReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{reports: reports, generator: generator}
}

// ProfitMarginPDF genera el PDF del margen de utilidad.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - *ValidationError          si las fechas no son válidas.
//   - el error del repositorio  si la consulta falla.
func (uc *PDFUseCase) ProfitMarginPDF(
	ctx context.Context,
	tenantID string,
	req dto.SalesReportRequest,
) (pdfBytes []byte, filename string, err error) {
	report, err := uc.reports.ProfitMargin(ctx, tenantID, req)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateProfitMarginPDF(ctx, uc.reports.tenant(tenantID), report)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, profitMarginFilename(report.Period), nil
}

func profitMarginFilename(p dto.PeriodDTO) string {
	parts := []string{"margen_utilidad"}
	if p.StartDate != "" {
		parts = append(parts, safeFilePart(p.StartDate))
	}
	if p.EndDate != "" {
		parts = append(parts, safeFilePart(p.EndDate))
	}
	return strings.Join(parts, "_") + ".pdf"
}

// safeFilePart deja solo dígitos, letras y guiones (las fechas RFC 3339 traen ':' y '+').
func safeFilePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		}
		return '-'
	}, s)
}
