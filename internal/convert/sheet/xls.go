package sheet

import (
	"bytes"
	"fmt"

	"github.com/shakinm/xlsReader/xls"

	"github.com/docview-dev/docview/internal/models"
)

// convertLegacyWorkbook 解析旧版二进制 .xls 工作簿。
// xlsReader 对畸形输入会 panic，统一兜成错误。
func convertLegacyWorkbook(data []byte) (sheets []models.Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets = nil
			err = fmt.Errorf("parse xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}

	numSheets := wb.GetNumberSheets()
	sheets = make([]models.Sheet, 0, numSheets)
	for i := 0; i < numSheets; i++ {
		s, err := wb.GetSheet(i)
		if err != nil {
			return nil, fmt.Errorf("read sheet %d: %w", i, err)
		}

		numRows := s.GetNumberRows()
		rows := make([][]string, 0, numRows)
		for rowIdx := 0; rowIdx < numRows; rowIdx++ {
			row, err := s.GetRow(rowIdx)
			if err != nil || row == nil {
				continue
			}
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}

		frag, err := tableFragment(rows)
		if err != nil {
			return nil, fmt.Errorf("render sheet %q: %w", s.GetName(), err)
		}

		sheets = append(sheets, models.Sheet{
			Name:         s.GetName(),
			HTMLFragment: frag,
		})
	}

	return sheets, nil
}
