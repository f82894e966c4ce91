package standings

import "testing"

func TestTeamRecord_PointDifferential(t *testing.T) {
	t.Parallel()

	pf := 451.0
	pa := 311.0
	record := TeamRecord{PointsFor: &pf, PointsAgainst: &pa}

	diff := record.PointDifferential()
	if diff == nil {
		t.Fatal("expected a differential when both sides are known")
	}
	if *diff != 140.0 {
		t.Fatalf("expected 140.0, got %v", *diff)
	}
}

func TestTeamRecord_PointDifferentialMissingSide(t *testing.T) {
	t.Parallel()

	pf := 300.0
	tests := []struct {
		name   string
		record TeamRecord
	}{
		{"no points against", TeamRecord{PointsFor: &pf}},
		{"no points for", TeamRecord{PointsAgainst: &pf}},
		{"neither", TeamRecord{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.record.PointDifferential(); got != nil {
				t.Fatalf("expected nil differential, got %v", *got)
			}
		})
	}
}

func TestPlaceholderRecords(t *testing.T) {
	t.Parallel()

	records := PlaceholderRecords()
	if got := len(records); got != 32 {
		t.Fatalf("expected 32 placeholder rows, got %d", got)
	}

	bills, ok := records["Buffalo Bills"]
	if !ok {
		t.Fatal("expected Buffalo Bills placeholder")
	}
	if bills.Record != "No live data yet." {
		t.Fatalf("unexpected placeholder record: %q", bills.Record)
	}
	if bills.Note == "" {
		t.Fatal("placeholder should carry a refresh hint")
	}
	if bills.Conference != "AFC" || bills.Division != "AFC East" {
		t.Fatalf("placement lost: %q %q", bills.Conference, bills.Division)
	}
	if bills.WinPct != nil || bills.ConferenceSeed != nil {
		t.Fatal("placeholder must not carry performance numbers")
	}
	if !bills.IsPlaceholder() {
		t.Fatal("IsPlaceholder should report true for offline filler")
	}

	live := TeamRecord{Name: "Buffalo Bills", Record: "11-6"}
	if live.IsPlaceholder() {
		t.Fatal("fetched record misreported as placeholder")
	}
}
