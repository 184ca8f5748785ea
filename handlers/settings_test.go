package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/testhelpers"
)

func TestHandleSettingsSave_Upserts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SetTestSetting(t, app, "companyName", "旧社名")

	handler := HandleSettingsSave(app)
	body := `{"values": {"companyName": "テスト建設株式会社", "companyTel": "03-0000-0000"}}`
	req, rec := postJSON(t, "/api/settings", body)
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Settings["companyName"] != "テスト建設株式会社" {
		t.Errorf("expected updated company name, got %q", resp.Settings["companyName"])
	}
	if resp.Settings["companyTel"] != "03-0000-0000" {
		t.Errorf("expected new key inserted, got %q", resp.Settings["companyTel"])
	}

	// Upsert must not duplicate the row
	records, _ := app.FindRecordsByFilter("settings",
		"key = {:key}", "", 0, 0, map[string]any{"key": "companyName"})
	if len(records) != 1 {
		t.Errorf("expected 1 companyName row, got %d", len(records))
	}
}

func TestHandleSettingsSave_EmptyBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleSettingsSave(app)
	req, rec := postJSON(t, "/api/settings", `{}`)
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing values, got %d", rec.Code)
	}
}

func TestHandleSettingsGet(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.SetTestSetting(t, app, "defaultProfitRate", "20")

	handler := HandleSettingsGet(app)
	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Settings map[string]string `json:"settings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.Settings["defaultProfitRate"] != "20" {
		t.Errorf("expected defaultProfitRate 20, got %q", resp.Settings["defaultProfitRate"])
	}
}

func TestHandleClientList_MergesSources(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestEstimate(t, app, "外構工事", "株式会社A", "下書き")
	testhelpers.CreateTestInvoice(t, app, "INV-20250101120000", "株式会社B", 10000)
	testhelpers.CreateTestInvoice(t, app, "INV-20250102120000", "株式会社A", 20000)

	handler := HandleClientList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Clients []string `json:"clients"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("expected 2 distinct clients, got %d: %v", len(resp.Clients), resp.Clients)
	}
}
