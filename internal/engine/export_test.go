// internal/engine/export_test.go
package engine

import (
	"encoding/json"
	"testing"

	"github.com/YutaTadokoro/WordGotchi/internal/types"
)

func TestExportImportRoundTrip(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	pet := somePet()
	pet.FeedingCount = 7
	pet.EmotionVector.Joy = 0.6
	eng.SavePet(pet)
	eng.SaveFeedingRecord(someFeeding("hello world"))
	eng.SaveFeedingRecord(someFeeding("more food"))
	eng.SaveExpression(somePoem())

	exported, err := eng.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	// Restore into a fresh engine, as a new device would.
	fresh, _ := newTestEngine(testOptions())
	if !fresh.ImportData(exported) {
		t.Fatal("expected import to succeed")
	}

	loaded := fresh.LoadPet()
	if loaded == nil || loaded.ID != pet.ID {
		t.Fatalf("expected imported pet, got %+v", loaded)
	}
	if loaded.FeedingCount != 7 || loaded.EmotionVector.Joy != 0.6 {
		t.Errorf("imported pet state mismatch: %+v", loaded)
	}
	if got := len(fresh.FeedingHistory(0)); got != 2 {
		t.Errorf("expected 2 feeding records, got %d", got)
	}
	if got := len(fresh.Expressions(0)); got != 1 {
		t.Errorf("expected 1 expression, got %d", got)
	}
}

func TestExportFlushesPending(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	eng.SavePet(somePet())
	exported, err := eng.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	var doc types.StorageDocument
	if err := json.Unmarshal([]byte(exported), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Pet == nil {
		t.Error("expected buffered pet included in export")
	}
}

func TestExportEmptyStore(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	exported, err := eng.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(exported), &doc); err != nil {
		t.Fatal(err)
	}
	// Empty logs export as [], absent pet as null, so the document always
	// validates on re-import.
	if string(doc["pet"]) != "null" {
		t.Errorf("expected null pet, got %s", doc["pet"])
	}
	if string(doc["feedingHistory"]) != "[]" {
		t.Errorf("expected empty array, got %s", doc["feedingHistory"])
	}

	fresh, _ := newTestEngine(testOptions())
	if !fresh.ImportData(exported) {
		t.Error("expected empty export to import cleanly")
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	eng.SavePet(somePet())
	eng.FlushAll()
	before := eng.LoadPet()

	if eng.ImportData("{ not valid json") {
		t.Fatal("expected rejection")
	}

	after := eng.LoadPet()
	if after == nil || after.ID != before.ID {
		t.Error("failed import must leave existing state untouched")
	}
}

func TestImportRejectsWrongShape(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	cases := []string{
		`{}`,
		`{"pet": null}`,
		`{"pet": {"bogus": true}, "feedingHistory": [], "expressions": []}`,
		`{"pet": null, "feedingHistory": "nope", "expressions": []}`,
		`[]`,
	}
	for _, c := range cases {
		if eng.ImportData(c) {
			t.Errorf("expected rejection of %s", c)
		}
	}
}

func TestImportReplacesWholesale(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	// Existing state that must be fully replaced, not merged.
	eng.SavePet(somePet())
	for i := 0; i < 4; i++ {
		eng.SaveFeedingRecord(someFeeding("old"))
	}
	eng.FlushAll()

	donor, _ := newTestEngine(testOptions())
	donor.SavePet(somePet())
	donor.SaveFeedingRecord(someFeeding("new"))
	exported, err := donor.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	if !eng.ImportData(exported) {
		t.Fatal("expected import to succeed")
	}

	history := eng.FeedingHistory(0)
	if len(history) != 1 || history[0].InputText != "new" {
		t.Errorf("expected wholesale replacement, got %d records", len(history))
	}
}

func TestImportNullPetClearsPet(t *testing.T) {
	eng, _ := newTestEngine(testOptions())

	eng.SavePet(somePet())
	eng.FlushAll()

	if !eng.ImportData(`{"pet": null, "feedingHistory": [], "expressions": []}`) {
		t.Fatal("expected import to succeed")
	}
	if eng.LoadPet() != nil {
		t.Error("expected pet cleared by null import")
	}
}

func TestImportTruncatesOversizedLogs(t *testing.T) {
	opts := testOptions()
	opts.MaxHistory = 3
	eng, _ := newTestEngine(opts)

	donor, _ := newTestEngine(testOptions())
	for i := 0; i < 6; i++ {
		donor.SaveFeedingRecord(someFeeding("r"))
	}
	exported, err := donor.ExportData()
	if err != nil {
		t.Fatal(err)
	}

	if !eng.ImportData(exported) {
		t.Fatal("expected import to succeed")
	}
	if got := len(eng.FeedingHistory(0)); got != 3 {
		t.Errorf("expected history truncated to 3, got %d", got)
	}
}
