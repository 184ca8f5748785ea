package services

import (
	"testing"
)

func sampleInvoiceDoc() InvoiceDocData {
	return InvoiceDocData{
		InvoiceID:   "INV-20260115093041",
		CompanyName: "サンプル工業株式会社",
		ClientName:  "株式会社山田建設",
		IssueDate:   "2026-01-15",
		Lines: []InvoiceLine{
			{Description: "外壁改修工事一式", Amount: 253000},
			{Description: "追加補修費", Amount: 30000},
		},
		Total: 283000,
	}
}

func TestGenerateInvoicePDF_Basic(t *testing.T) {
	result, err := GenerateInvoicePDF(sampleInvoiceDoc())
	if err != nil {
		t.Fatalf("GenerateInvoicePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateInvoicePDF() returned empty bytes")
	}
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGenerateInvoicePDF_NoLines(t *testing.T) {
	data := sampleInvoiceDoc()
	data.Lines = nil
	data.Total = 0

	result, err := GenerateInvoicePDF(data)
	if err != nil {
		t.Fatalf("GenerateInvoicePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateInvoicePDF() returned empty bytes")
	}
}
