package question

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	internaldb "sorubank/internal/db"
)

func openQuestionTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dsn := fmt.Sprintf("file:questiontest_%d?mode=memory&cache=shared", time.Now().UnixNano())
	dbConn, err := internaldb.Open(ctx, internaldb.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })
	return dbConn
}

func seedTopic(t *testing.T, dbConn *sql.DB) int64 {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Unix()
	suffix := time.Now().UnixNano()

	var categoryID int64
	if err := dbConn.QueryRowContext(ctx, `
		INSERT INTO categories (name, created_at)
		VALUES ($1, $2)
		RETURNING id
	`, fmt.Sprintf("Kategori %d", suffix), now).Scan(&categoryID); err != nil {
		t.Fatalf("insert category: %v", err)
	}

	var topicID int64
	if err := dbConn.QueryRowContext(ctx, `
		INSERT INTO topics (category_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, categoryID, fmt.Sprintf("Konu %d", suffix), now).Scan(&topicID); err != nil {
		t.Fatalf("insert topic: %v", err)
	}
	return topicID
}

func TestExportTopicExcelWorkbook_DBIntegration(t *testing.T) {
	dbConn := openQuestionTestDB(t)
	topicID := seedTopic(t, dbConn)
	svc := NewService(dbConn)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		TopicID:            topicID,
		ContextText:        "Osmanlı klasik dönemi.",
		PremiseItems:       []string{"Tımar", "Devşirme"},
		QuestionStem:       "Hangisi doğrudur?",
		Options:            []string{"Bir", "Iki", "Uc"},
		CorrectOptionIndex: 2,
		Explanation:        "Açıklama.",
		Source:             "import",
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}

	data, err := svc.ExportTopicExcel(ctx, topicID)
	if err != nil {
		t.Fatalf("export topic: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	if got, _ := wb.GetCellValue(sheet, "B1"); got != "baglam" {
		t.Fatalf("header B1 = %q", got)
	}
	if got, _ := wb.GetCellValue(sheet, "C2"); got != "Tımar | Devşirme" {
		t.Fatalf("premises cell = %q", got)
	}
	if got, _ := wb.GetCellValue(sheet, "D2"); got != "Hangisi doğrudur?" {
		t.Fatalf("stem cell = %q", got)
	}
	if got, _ := wb.GetCellValue(sheet, "J2"); got != "C" {
		t.Fatalf("correct option cell = %q", got)
	}
}
