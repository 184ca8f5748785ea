package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"backoffice/testhelpers"
)

func newImportRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contractor-quotes/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleQuoteImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteImport(app)

	csv := "品名,数量,単価,金額\n資材A,2,1500,3000\n工事B,1,50000,50000\n"
	req := newImportRequest(t, "工事見積.csv", csv)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp["success"] != true {
		t.Errorf("expected success=true, got %v", resp["success"])
	}
	if resp["subject"] != "工事見積" {
		t.Errorf("expected subject 工事見積, got %v", resp["subject"])
	}
	if got := resp["itemCount"].(float64); got != 2 {
		t.Errorf("expected 2 items, got %v", got)
	}
	if got := resp["totalCost"].(float64); got != 53000 {
		t.Errorf("expected totalCost 53000, got %v", got)
	}

	// Header and items persisted
	quotes, err := app.FindRecordsByFilter("contractor_quotes", "id != ''", "", 0, 0)
	if err != nil || len(quotes) != 1 {
		t.Fatalf("expected 1 quote record, got %d (err %v)", len(quotes), err)
	}
	items, err := app.FindRecordsByFilter("contractor_quote_items",
		"quote = {:q}", "line_no", 0, 0, map[string]any{"q": quotes[0].Id})
	if err != nil || len(items) != 2 {
		t.Fatalf("expected 2 item records, got %d (err %v)", len(items), err)
	}
	if items[0].GetString("name") != "資材A" {
		t.Errorf("expected first item 資材A, got %q", items[0].GetString("name"))
	}
	if items[0].GetFloat("amount") != 3000 {
		t.Errorf("expected first amount 3000, got %v", items[0].GetFloat("amount"))
	}
}

func TestHandleQuoteImport_ItemFailureRollsBackHeader(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteImport(app)

	app.OnRecordCreate("contractor_quote_items").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetString("name") == "工事B" {
			return errors.New("disk full")
		}
		return e.Next()
	})

	csv := "品名,数量,単価,金額\n資材A,2,1500,3000\n工事B,1,50000,50000\n"
	req := newImportRequest(t, "工事見積.csv", csv)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}

	// Header must not survive without its items
	quotes, _ := app.FindRecordsByFilter("contractor_quotes", "id != ''", "", 0, 0)
	if len(quotes) != 0 {
		t.Errorf("expected no quote header after rollback, got %d", len(quotes))
	}
	items, _ := app.FindRecordsByFilter("contractor_quote_items", "id != ''", "", 0, 0)
	if len(items) != 0 {
		t.Errorf("expected no quote items after rollback, got %d", len(items))
	}
}

func TestHandleQuoteImport_UnsupportedExtension(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteImport(app)

	req := newImportRequest(t, "old_format.ods", "not really a spreadsheet")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "xlsx")
}

func TestHandleQuoteImport_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleQuoteImport(app)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("unrelated", "value")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/contractor-quotes/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
