package question

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var optionColumns = []string{"secenek_a", "secenek_b", "secenek_c", "secenek_d", "secenek_e"}

// ExportTopicExcel renders all active questions of a topic as an .xlsx
// workbook, one question per row, options spread over fixed columns A-E.
func (s *Service) ExportTopicExcel(ctx context.Context, topicID int64) ([]byte, error) {
	items, err := s.ListByTopic(ctx, topicID, true)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	headers := []string{"id", "baglam", "oncullar", "soru_koku"}
	headers = append(headers, optionColumns...)
	headers = append(headers, "dogru_secenek", "aciklama", "kaynak")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, it := range items {
		row := i + 2
		values := []any{
			it.ID,
			it.ContextText,
			strings.Join(it.PremiseItems, " | "),
			it.QuestionStem,
		}
		for col := 0; col < len(optionColumns); col++ {
			if col < len(it.Options) {
				values = append(values, it.Options[col])
			} else {
				values = append(values, "")
			}
		}
		values = append(values, optionLetter(it.CorrectOptionIndex), it.Explanation, it.Source)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "L", 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func optionLetter(index int) string {
	if index < 0 || index >= maxOptions {
		return ""
	}
	return string(rune('A' + index))
}
