package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Excel renders the quote as a single-sheet workbook: title block,
// styled header row, one row per line item, and a totals block.
func Excel(doc QuoteDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Quote " + doc.QuoteNumber
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	widths := []float64{52, 10, 10, 14, 14}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 12},
		NumFmt: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	setCell := func(cell string, value any) error {
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
		return nil
	}

	title := doc.Title
	if title == "" {
		title = "Quote " + doc.QuoteNumber
	}
	if err := setCell("A1", title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("style title: %w", err)
	}
	if err := setCell("A2", "Quote "+doc.QuoteNumber); err != nil {
		return nil, err
	}
	if err := setCell("A3", doc.CreatedAt.Format("02 Jan 2006")); err != nil {
		return nil, err
	}

	headerRow := 5
	headers := []string{"Description", "Qty", "Unit", "Unit price", "Total"}
	for i, h := range headers {
		cell := fmt.Sprintf("%s%d", columns[i], headerRow)
		if err := setCell(cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheetName,
		fmt.Sprintf("A%d", headerRow),
		fmt.Sprintf("E%d", headerRow),
		headerStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	row := headerRow + 1
	for _, item := range doc.LineItems {
		if err := setCell(fmt.Sprintf("A%d", row), item.Description); err != nil {
			return nil, err
		}
		if err := setCell(fmt.Sprintf("B%d", row), item.Quantity); err != nil {
			return nil, err
		}
		if err := setCell(fmt.Sprintf("C%d", row), item.Unit); err != nil {
			return nil, err
		}
		if err := setCell(fmt.Sprintf("D%d", row), item.UnitPrice); err != nil {
			return nil, err
		}
		if err := setCell(fmt.Sprintf("E%d", row), item.Total); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName,
			fmt.Sprintf("D%d", row),
			fmt.Sprintf("E%d", row),
			moneyStyle); err != nil {
			return nil, fmt.Errorf("style money cells row %d: %w", row, err)
		}
		row++
	}

	row++
	if err := setCell(fmt.Sprintf("D%d", row), "Total"); err != nil {
		return nil, err
	}
	if err := setCell(fmt.Sprintf("E%d", row), doc.Totals.Total); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName,
		fmt.Sprintf("D%d", row),
		fmt.Sprintf("E%d", row),
		totalStyle); err != nil {
		return nil, fmt.Errorf("style total row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
