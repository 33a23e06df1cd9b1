package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/receiptlens/backend/internal/domain"
)

// reportHeader is the column order of the exported table
var reportHeader = []interface{}{
	"product_name", "english_name", "calories", "protein", "fat",
	"portion_size", "num_servings", "matched_price", "match_score", "matched_receipt_name",
}

// Writer exports a match report to a Google Spreadsheet
type Writer struct {
	spreadsheetID   string
	sheetName       string
	credentialsFile string
}

// NewWriter creates a spreadsheet report writer
func NewWriter(spreadsheetID, sheetName, credentialsFile string) *Writer {
	return &Writer{
		spreadsheetID:   spreadsheetID,
		sheetName:       sheetName,
		credentialsFile: credentialsFile,
	}
}

// Write replaces the sheet contents with the report table. Any failure
// surfaces as ErrSheetsUnavailable and aborts only the current run.
func (w *Writer) Write(ctx context.Context, report *domain.MatchReport) error {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(w.credentialsFile))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSheetsUnavailable, err)
	}

	values := make([][]interface{}, 0, len(report.Products)+1)
	values = append(values, reportHeader)
	for i := range report.Products {
		values = append(values, reportRow(&report.Products[i]))
	}

	valueRange := &sheetsapi.ValueRange{Values: values}
	_, err = service.Spreadsheets.Values.
		Update(w.spreadsheetID, w.sheetName+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSheetsUnavailable, err)
	}

	return nil
}

// reportRow formats one product as a spreadsheet row; nil fields become
// empty cells
func reportRow(p *domain.MatchedProduct) []interface{} {
	row := []interface{}{p.ProductName, p.EnglishName}

	for _, value := range []*float64{p.Calories, p.Protein, p.Fat, p.PortionSize} {
		if value != nil {
			row = append(row, *value)
		} else {
			row = append(row, "")
		}
	}

	row = append(row, p.NumServings)

	if p.MatchedPrice != nil {
		row = append(row, p.MatchedPrice.String())
	} else {
		row = append(row, "")
	}
	if p.MatchScore != nil {
		row = append(row, *p.MatchScore)
	} else {
		row = append(row, "")
	}
	if p.MatchedReceiptName != nil {
		row = append(row, *p.MatchedReceiptName)
	} else {
		row = append(row, "")
	}

	return row
}
