package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"backoffice/testhelpers"
)

func TestHandleInvoiceCreate_DerivesTotal(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleInvoiceCreate(app)

	body := `{
		"clientName": "株式会社テスト",
		"items": [
			{"description": "外構工事一式", "amount": 100000},
			{"description": "諸経費", "amount": 5000}
		]
	}`
	req, rec := postJSON(t, "/api/invoices", body)
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		InvoiceID string `json:"invoiceId"`
		Amount    int64  `json:"amount"`
		ItemCount int    `json:"itemCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Amount != 105000 {
		t.Errorf("expected derived total 105000, got %d", resp.Amount)
	}
	if !strings.HasPrefix(resp.InvoiceID, "INV-") {
		t.Errorf("expected INV- prefix, got %q", resp.InvoiceID)
	}
	if resp.ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", resp.ItemCount)
	}

	headers, err := app.FindRecordsByFilter("invoices", "id != ''", "", 0, 0)
	if err != nil || len(headers) != 1 {
		t.Fatalf("expected 1 invoice record, got %d (err %v)", len(headers), err)
	}
	if headers[0].GetBool("is_issued") {
		t.Error("expected new invoice to be unissued")
	}
	items, err := app.FindRecordsByFilter("invoice_items",
		"invoice = {:id}", "line_no", 0, 0, map[string]any{"id": headers[0].Id})
	if err != nil || len(items) != 2 {
		t.Fatalf("expected 2 invoice items, got %d (err %v)", len(items), err)
	}
}

func TestHandleInvoiceCreate_ExplicitAmountWins(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleInvoiceCreate(app)

	body := `{
		"clientName": "株式会社テスト",
		"amount": 99000,
		"items": [{"description": "値引後一式", "amount": 100000}]
	}`
	req, rec := postJSON(t, "/api/invoices", body)
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Amount int64 `json:"amount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Amount != 99000 {
		t.Errorf("expected explicit amount 99000, got %d", resp.Amount)
	}
}

func TestHandleInvoiceCreate_Validation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleInvoiceCreate(app)

	tests := []struct {
		name string
		body string
	}{
		{"missing client", `{"items": [{"description": "一式", "amount": 1000}]}`},
		{"no items", `{"clientName": "株式会社テスト", "items": []}`},
		{"blank descriptions only", `{"clientName": "株式会社テスト", "items": [{"description": " ", "amount": 1000}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := postJSON(t, "/api/invoices", tt.body)
			if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}
