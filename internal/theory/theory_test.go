package theory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndLookup(t *testing.T) {
	p := filepath.Join(t.TempDir(), "theory.json")
	src := `{"sections":[
	  {"key":"basics","title":"Основы работы","topics":[
	    {"key":"cycle","title":"Холодильный цикл","text":"..."},
	    {"key":"types","title":"Типы систем","text":"..."}]},
	  {"key":"maintenance","title":"Обслуживание","topics":[]}]}`
	if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	g, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(g.Sections()) != 2 || g.Sections()[0].Key != "basics" {
		t.Fatalf("section order lost: %+v", g.Sections())
	}
	tp, ok := g.Topic("basics", "types")
	if !ok || tp.Title != "Типы систем" {
		t.Fatalf("topic lookup: %+v %v", tp, ok)
	}
	if _, ok := g.Topic("basics", "nope"); ok {
		t.Fatalf("unknown topic found")
	}
	if _, ok := g.Section("nope"); ok {
		t.Fatalf("unknown section found")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	g, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if g == nil || len(g.Sections()) != 0 {
		t.Fatalf("want empty guide")
	}
}
