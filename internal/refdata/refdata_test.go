package refdata

import "testing"

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("load names: %v", err)
	}

	if !names.HasFirstName("Sarah") {
		t.Error("expected 'Sarah' in the first-name corpus")
	}
	if !names.HasFirstName("sarah") {
		t.Error("lookup should be case-insensitive")
	}
	if !names.HasLastName("Johnson") {
		t.Error("expected 'Johnson' in the last-name corpus")
	}
	if names.HasFirstName("Xqzzt") {
		t.Error("unknown token should miss")
	}
}

func TestGovernment(t *testing.T) {
	gov, err := Government()
	if err != nil {
		t.Fatalf("load government KB: %v", err)
	}

	for _, key := range []string{
		"OSHA",
		"osha",
		"Occupational Safety and Health Administration",
	} {
		info, ok := gov.Lookup(key)
		if !ok {
			t.Errorf("expected a hit for %q", key)
			continue
		}
		if info.FormalName != "Occupational Safety and Health Administration" {
			t.Errorf("%q: unexpected formal name %q", key, info.FormalName)
		}
		if info.Website == "" {
			t.Errorf("%q: expected a website", key)
		}
	}

	if _, ok := gov.Lookup("Acme Corp"); ok {
		t.Error("non-government org should miss")
	}
}

func TestKeywords(t *testing.T) {
	tables, err := Keywords()
	if err != nil {
		t.Fatalf("load keywords: %v", err)
	}
	if len(tables.Domains["safety"]) == 0 {
		t.Error("safety domain should have keywords")
	}
	if len(tables.DocTypes["policy"]) == 0 {
		t.Error("policy doc type should have keywords")
	}
}

func TestUnits(t *testing.T) {
	units, err := Units()
	if err != nil {
		t.Fatalf("load units: %v", err)
	}

	ft, ok := units["ft"]
	if !ok {
		t.Fatal("expected 'ft' alias")
	}
	if ft.Canonical != "feet" || ft.Category != "length" {
		t.Errorf("unexpected ft entry: %+v", ft)
	}
}

func TestLoadIsStable(t *testing.T) {
	a, err := Government()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Government()
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("repeated loads should return the same shared instance")
	}
}
