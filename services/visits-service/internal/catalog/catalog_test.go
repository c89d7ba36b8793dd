package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func seedCatalog(t *testing.T) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prototypes.json")
	doc := `{"prototypes":[
		{"id":"agata","name":"Ágata","type":"departamento","areaM2":84.5,"bedrooms":2,"fullBaths":2,"parking":"1 lugar"},
		{"id":"jade","name":"Jade","type":"penthouse","areaM2":160,"bedrooms":3,"fullBaths":3,"halfBaths":1,"parking":"2 lugares"}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cat
}

func TestLoad_MissingFile(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cat == nil || len(cat.All()) != 0 {
		t.Fatal("expected usable empty catalog on load failure")
	}
}

func TestByID(t *testing.T) {
	cat := seedCatalog(t)

	p, ok := cat.ByID("JADE")
	if !ok || p.Name != "Jade" {
		t.Fatalf("expected Jade for id JADE, got %+v ok=%v", p, ok)
	}
	if _, ok := cat.ByID("onix"); ok {
		t.Fatal("expected miss for unknown id")
	}
}

func TestMatchName(t *testing.T) {
	cat := seedCatalog(t)

	name, ok := cat.MatchName("me interesa el penthouse jade con terraza")
	if !ok || name != "Jade" {
		t.Fatalf("expected Jade match, got %q ok=%v", name, ok)
	}
	if _, ok := cat.MatchName("busco una casa con jardín"); ok {
		t.Fatal("expected no match")
	}
}
