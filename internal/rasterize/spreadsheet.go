package rasterize

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// spreadsheetToImage renders the first sheet of a workbook as a PNG. The
// sheet is laid out as a bordered table on a single landscape page and the
// page is rasterized through the PDF path, so the model sees the same kind
// of tabular image a screenshot of the sheet would give it.
func spreadsheetToImage(data []byte) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	pdfData, err := renderTablePDF(rows)
	if err != nil {
		return nil, fmt.Errorf("laying out sheet: %w", err)
	}
	return pdfToImage(pdfData)
}

// renderTablePDF draws the sheet rows as a table on one landscape A4 page.
// The first row is treated as a header.
func renderTablePDF(rows [][]string) ([]byte, error) {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil, fmt.Errorf("no columns")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 20) / float64(cols)
	const rowHeight = 7.0

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(230, 230, 230)
		} else {
			pdf.SetFont("Arial", "", 9)
			pdf.SetFillColor(255, 255, 255)
		}
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			pdf.CellFormat(colWidth, rowHeight, cell, "1", 0, "L", i == 0, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
