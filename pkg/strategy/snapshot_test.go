package strategy

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteSnapshotSequence(t *testing.T) {
	db, err := Build(miniDeck(2))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "snapshots")

	n, err := db.WriteSnapshot(dir)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if n != 1 {
		t.Errorf("first snapshot numbered %d, expected 1", n)
	}

	n, err = db.WriteSnapshot(dir)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if n != 2 {
		t.Errorf("second snapshot numbered %d, expected 2", n)
	}

	for _, name := range []string{"snapshot_1.jls", "snapshot_2.jls"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	// Sequence numbers are parsed as full digit runs, not single digits.
	if err := os.WriteFile(filepath.Join(dir, "snapshot_41.jls"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err = db.WriteSnapshot(dir)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if n != 42 {
		t.Errorf("snapshot after snapshot_41.jls numbered %d, expected 42", n)
	}

	// Non-snapshot files are ignored when scanning.
	if err := os.WriteFile(filepath.Join(dir, "snapshot_9x.jls"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err = db.WriteSnapshot(dir)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if n != 43 {
		t.Errorf("snapshot numbered %d, expected 43", n)
	}
}

func TestSnapDataRecords(t *testing.T) {
	db, err := Build(miniDeck(2))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := db.RecordDeal(db.Hands[0], Dealer); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordDeal(db.Hands[0], Dealer); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordDeal(db.Hands[0], Pone); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if _, err := db.WriteSnapshot(dir); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	if _, err := db.WriteSnapshot(dir); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "snapdata.txt"))
	if err != nil {
		t.Fatalf("reading snapdata.txt: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("snapdata.txt has %d lines, expected 2", len(lines))
	}

	// Keys appear in insertion order on the wire.
	if !strings.HasPrefix(lines[0], `{"nSnapshot":1,"nDeals":2,"timestamp":`) {
		t.Errorf("unexpected line prefix: %s", lines[0])
	}

	var rec snapRecord
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("parsing snapdata line: %v", err)
	}
	if rec.NSnapshot != 2 {
		t.Errorf("second record nSnapshot = %d, expected 2", rec.NSnapshot)
	}
	if rec.NDeals != 2 {
		t.Errorf("nDeals = %d, expected max(2,1) = 2", rec.NDeals)
	}
	if rec.DMax != 2 || rec.PMax != 1 || rec.DMin != 0 {
		t.Errorf("per-block extrema %d/%d/%d, expected dMax=2 pMax=1 dMin=0",
			rec.DMax, rec.PMax, rec.DMin)
	}
	want := 1.0 / float64(len(db.Hands))
	if math.Abs(rec.DCoverage-want) > 1e-12 {
		t.Errorf("dCoverage = %v, expected %v", rec.DCoverage, want)
	}
	if rec.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db, err := Build(miniDeck(2))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Perturb a profile so the snapshot is not the uniform init.
	h := db.Hands[0]
	r := db.HandRows[h]
	probs := make([]float64, r.Len())
	probs[0] = 1
	if err := db.SetProfile(h, Pone, probs); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	n, err := db.WriteSnapshot(dir)
	if err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	dealer, pone, err := LoadSnapshot(filepath.Join(dir, "snapshot_1.jls"))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if n != 1 || len(dealer) != len(db.Rows) || len(pone) != len(db.Rows) {
		t.Fatalf("snapshot %d has %d/%d rows, table has %d", n, len(dealer), len(pone), len(db.Rows))
	}
	for i := range db.Rows {
		if dealer[i] != db.Rows[i].ProfileDealer || pone[i] != db.Rows[i].ProfilePone {
			t.Errorf("row %d profiles %v/%v, snapshot %v/%v",
				i, db.Rows[i].ProfileDealer, db.Rows[i].ProfilePone, dealer[i], pone[i])
		}
	}

	// Restoring into a fresh table reproduces the columns and aggregates.
	db2, err := Build(miniDeck(2))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := db2.ApplySnapshot(dealer, pone); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}
	for i := range db2.Rows {
		if db2.Rows[i].ProfilePone != db.Rows[i].ProfilePone {
			t.Errorf("row %d restored profile %v, expected %v",
				i, db2.Rows[i].ProfilePone, db.Rows[i].ProfilePone)
		}
		if math.Abs(db2.Rows[i].PPlayPone-db.Rows[i].PPlayPone) > 1e-12 {
			t.Errorf("row %d restored p_play %v, expected %v",
				i, db2.Rows[i].PPlayPone, db.Rows[i].PPlayPone)
		}
	}
	for _, p := range db2.PlayHands {
		if math.Abs(db2.PlayProbPone[p]-db.PlayProbPone[p]) > 1e-12 {
			t.Errorf("play hand %v restored aggregate %v, expected %v",
				p, db2.PlayProbPone[p], db.PlayProbPone[p])
		}
	}

	if err := db2.ApplySnapshot(dealer[:1], pone[:1]); err == nil {
		t.Error("ApplySnapshot accepted mismatched column lengths")
	}
}
