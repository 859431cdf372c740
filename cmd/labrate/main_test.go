package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/lab"
	"craftlab.ai/internal/crafting/resources"
	"craftlab.ai/internal/crafting/tuning"
	"craftlab.ai/internal/inventory"
)

const testPool = `resources:
  - id: 30
    name: Ketac
    class: snfr
    stats: {CD: 200, CR: 200, DR: 200, HR: 200, MA: 200, OQ: 200, SR: 200, UT: 200}
  - id: 20
    name: Beanpole
    class: yabns
    stats: {DR: 400, FL: 500, OQ: 600, PE: 300}
  - id: 10
    name: Greenleaf
    class: yabns
    stats: {DR: 100, FL: 900, OQ: 950, PE: 100}
`

const testSchematics = `schematics:
  - name: Ration Pack
    lines:
      - name: Nutrition
        class: ffd
        weights: "OQ:67 FL:33"
      - name: Flavor
        class: ffd
        weights: "OQ:67 FL:33"
  - name: Scrap Frame
    lines:
      - name: Frame
        class: snfr
        weights: LQ
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestOpenSession_UnionsPoolAndStock(t *testing.T) {
	dir := t.TempDir()
	cfg := tuning.Defaults()
	cfg.Pool = writeFile(t, dir, "pool.yaml", testPool)
	cfg.InventoryDB = filepath.Join(dir, "inventory.db")

	store, err := inventory.OpenSQLite(cfg.InventoryDB, quietLogger())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	c, _ := catalogs.Default().ByToken("yabns")
	spec := resources.ResourceSpec{ID: 40, Name: "Cellar Bean", Class: c.Token(), Stats: map[string]int{"DR": 1, "FL": 1, "OQ": 1000, "PE": 1}}
	r, err := spec.Resolve(catalogs.Default())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, r, 7); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = store.Close()

	sess, err := openSession(ctx, cfg, quietLogger())
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if len(sess.pool) != 4 {
		t.Fatalf("pool=%d want 4", len(sess.pool))
	}
	if got := []int64{sess.pool[0].ID, sess.pool[3].ID}; got[0] != 10 || got[1] != 40 {
		t.Fatalf("pool order=%v", got)
	}
	if n, ok := sess.inv.Amount(r); !ok || n != 7 {
		t.Fatalf("stock amount=%d,%v", n, ok)
	}
}

func TestOpenSession_MissingFilesAreNotFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := tuning.Defaults()
	cfg.Pool = filepath.Join(dir, "nope.yaml")
	cfg.InventoryDB = filepath.Join(dir, "nope.db")

	sess, err := openSession(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	if len(sess.pool) != 0 {
		t.Fatalf("pool=%d", len(sess.pool))
	}
	if _, err := os.Stat(cfg.InventoryDB); err == nil {
		t.Fatalf("missing inventory db should not be created")
	}
}

func TestSession_MatchesSchematics(t *testing.T) {
	dir := t.TempDir()
	cfg := tuning.Defaults()
	cfg.Pool = writeFile(t, dir, "pool.yaml", testPool)
	cfg.InventoryDB = ""
	sess, err := openSession(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	list, err := lab.ParseSchematics([]byte(testSchematics))
	if err != nil {
		t.Fatalf("ParseSchematics: %v", err)
	}
	jobs, err := sess.jobs(list)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	results, err := sess.matcher(cfg).MatchBatch(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("MatchBatch: %v", err)
	}
	if len(results) != 2 || results[0].Job != "Ration Pack" {
		t.Fatalf("results=%+v", results)
	}

	// The two identical lines merge; the class filter drops the metal.
	rows := results[0].Rows
	if len(rows) != 3 || !rows[0].IsHeader() || rows[0].Line.Name() != "Nutrition, Flavor" {
		t.Fatalf("ration rows=%+v", rows)
	}
	if rows[1].Resource.ID != 10 || rows[1].Marker.Kind() != lab.MarkerSuperiorFirst {
		t.Fatalf("top ration row=%+v", rows[1])
	}

	var buf bytes.Buffer
	if err := printRows(&buf, rows); err != nil {
		t.Fatalf("printRows: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Nutrition, Flavor", "[ffd]", "*best", "Greenleaf", "Beanpole"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Ketac") {
		t.Fatalf("metal listed for a flora line:\n%s", out)
	}

	scrap := results[1].Rows
	if len(scrap) != 2 || scrap[1].Score != 200 || scrap[1].Marker.Kind() != lab.MarkerSuperiorOther {
		t.Fatalf("scrap rows=%+v", scrap)
	}
}

func TestSession_UnknownClassIsReported(t *testing.T) {
	sess := &session{reg: catalogs.Default(), inv: inventory.Empty}
	list := []lab.Schematic{{Name: "Bad", Lines: []lab.LineSpec{{Name: "x", Class: "ffdd", Weights: "OQ:1"}}}}
	_, err := sess.jobs(list)
	if err == nil || !strings.Contains(err.Error(), `did you mean "ffd"`) {
		t.Fatalf("err=%v", err)
	}
}

func TestPickSchematics(t *testing.T) {
	list, err := lab.ParseSchematics([]byte(testSchematics))
	if err != nil {
		t.Fatalf("ParseSchematics: %v", err)
	}
	if got, err := pickSchematics(list, "", true); err != nil || len(got) != 2 {
		t.Fatalf("all: %v %v", got, err)
	}
	if _, err := pickSchematics(list, "", false); err == nil {
		t.Fatalf("expected error without a name")
	}
	if got, err := pickSchematics(list, "scrap frame", false); err != nil || got[0].Name != "Scrap Frame" {
		t.Fatalf("by name: %v %v", got, err)
	}
	if _, err := pickSchematics(list, "Hull", false); err == nil {
		t.Fatalf("expected error for unknown schematic")
	}
	if got, err := pickSchematics(list[:1], "", false); err != nil || len(got) != 1 {
		t.Fatalf("single: %v %v", got, err)
	}
}

func TestPrintClass(t *testing.T) {
	reg := catalogs.Default()
	c, _ := reg.ByToken("snfr")
	var buf bytes.Buffer
	if err := printClass(&buf, reg, c); err != nil {
		t.Fatalf("printClass: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Smelted Non-Ferrous Metal (snfr, id 826)", "space/recycled", "> nfr", "OQ"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ER ") {
		t.Fatalf("unconstrained stat listed:\n%s", out)
	}
}

func TestSampleConfig(t *testing.T) {
	cfg, err := tuning.Load(filepath.Join("..", "..", "configs", "lab.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.InventoryDB = ""
	sess, err := openSession(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	list, err := lab.LoadSchematics(cfg.Schematics)
	if err != nil {
		t.Fatalf("LoadSchematics: %v", err)
	}
	jobs, err := sess.jobs(list)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	results, err := sess.matcher(cfg).MatchBatch(context.Background(), jobs, cfg.Parallelism)
	if err != nil {
		t.Fatalf("MatchBatch: %v", err)
	}
	if len(results) != len(list) {
		t.Fatalf("results=%d want %d", len(results), len(list))
	}
	// Frame and Shielding share a class and weights.
	hull := lab.Group(results[0].Rows)
	if len(hull) != 2 || hull[0][0].Line.Name() != "Frame, Shielding" {
		t.Fatalf("hull groups=%d first=%q", len(hull), hull[0][0].Line.Name())
	}
	for _, r := range hull[0][1:] {
		if !r.Resource.Class.IsA(hull[0][0].Line.Class) {
			t.Fatalf("%s is not a metal", r.Resource.Name)
		}
	}
}
