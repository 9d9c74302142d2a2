package profile

import "testing"

func TestNormalizePartialDocument(t *testing.T) {
	rec := Normalize(map[string]any{
		"identity": map[string]any{"name": "Ravi Kumar"},
		"personal": map[string]any{"email": "ravi@corp.example"},
	})

	if rec.Identity.Name != "Ravi Kumar" {
		t.Fatalf("expected name, got %q", rec.Identity.Name)
	}
	if rec.Personal.Email != "ravi@corp.example" {
		t.Fatalf("expected email, got %q", rec.Personal.Email)
	}
	if rec.Identity.Department != "" || rec.Bank.AccountNumber != "" {
		t.Fatal("missing fields must default to empty strings")
	}
	if rec.Education == nil || rec.Experience == nil || rec.Skills == nil ||
		rec.EmergencyContacts == nil || rec.IDProofs == nil {
		t.Fatal("list fields must never be nil")
	}
}

func TestNormalizeNilDocument(t *testing.T) {
	rec := Normalize(nil)
	if rec.Education == nil || rec.IDProofs == nil {
		t.Fatal("nil document must still yield defaulted lists")
	}
}

func TestNormalizeDropsWrongShapes(t *testing.T) {
	rec := Normalize(map[string]any{
		"identity":  "not-an-object",
		"education": []any{map[string]any{"degree": "BSc"}},
	})
	if rec.Identity.Name != "" {
		t.Fatalf("malformed section must default, got %+v", rec.Identity)
	}
	if len(rec.Education) != 1 || rec.Education[0].Degree != "BSc" {
		t.Fatalf("well-formed list entries must survive, got %+v", rec.Education)
	}
}

func TestToMapRoundTrip(t *testing.T) {
	rec := Record{Identity: Identity{Name: "Dana"}}
	rec.applyDefaults()

	doc := ToMap(rec)
	back := Normalize(doc)
	if back.Identity.Name != "Dana" {
		t.Fatalf("round trip lost data: %+v", back.Identity)
	}
}
