package collections_test

import (
	"testing"

	"backoffice/collections"
	"backoffice/testhelpers"
)

func TestSeed_CreatesDefaultSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	settingsCol, _ := app.FindCollectionByNameOrId("settings")
	records, err := app.FindAllRecords(settingsCol)
	if err != nil {
		t.Fatalf("query settings error: %v", err)
	}

	values := make(map[string]string)
	for _, r := range records {
		values[r.GetString("key")] = r.GetString("value")
	}

	if values["defaultProfitRate"] != "15" {
		t.Errorf("defaultProfitRate = %q, want %q", values["defaultProfitRate"], "15")
	}
	if values["companyName"] == "" {
		t.Error("expected companyName placeholder to be seeded")
	}
	for _, key := range []string{"companyAddress", "companyTel"} {
		if _, ok := values[key]; !ok {
			t.Errorf("expected %q to be seeded", key)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}

	settingsCol, _ := app.FindCollectionByNameOrId("settings")
	first, _ := app.FindAllRecords(settingsCol)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	second, _ := app.FindAllRecords(settingsCol)

	if len(first) != len(second) {
		t.Errorf("expected %d settings after second seed, got %d", len(first), len(second))
	}
}

func TestSeed_KeepsExistingValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	testhelpers.SetTestSetting(t, app, "companyName", "既存の会社名")

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	records, _ := app.FindRecordsByFilter("settings",
		"key = {:key}", "", 0, 0, map[string]any{"key": "companyName"})
	if len(records) != 1 {
		t.Fatalf("expected 1 companyName row, got %d", len(records))
	}
	if got := records[0].GetString("value"); got != "既存の会社名" {
		t.Errorf("expected existing value kept, got %q", got)
	}
}
