package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"github.com/docview-dev/docview/internal/convert/fragment"
	"github.com/docview-dev/docview/internal/models"
)

// convertWorkbook 按工作簿声明顺序逐表转换为 HTML 表格片段
func convertWorkbook(data []byte) ([]models.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]models.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		frag, err := tableFragment(rows)
		if err != nil {
			return nil, fmt.Errorf("render sheet %q: %w", name, err)
		}

		sheets = append(sheets, models.Sheet{
			Name:         name,
			HTMLFragment: frag,
		})
	}

	return sheets, nil
}

// tableFragment 把单元格矩阵渲染为一个 <table> 片段，文本自动转义
func tableFragment(rows [][]string) (string, error) {
	table := fragment.Element("table")
	for _, row := range rows {
		tr := fragment.Element("tr")
		for _, val := range row {
			td := fragment.Element("td")
			td.AppendChild(fragment.Text(val))
			tr.AppendChild(td)
		}
		table.AppendChild(tr)
	}
	return fragment.Render([]*html.Node{table})
}
