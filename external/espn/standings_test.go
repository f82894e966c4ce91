package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	crerr "github.com/cockroachdb/errors"

	"huddle/internal/platform/logging"
)

func TestCollectTeamEntries_TagsNearestConference(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"children": []any{
			map[string]any{
				"name":         "American Football Conference",
				"abbreviation": "AFC",
				"isConference": true,
				"standings": map[string]any{
					"entries": []any{
						teamEntryFixture("2", "Buffalo Bills", 11, 6, 0),
					},
				},
			},
			map[string]any{
				"name":         "National Football Conference",
				"abbreviation": "NFC",
				"isConference": true,
				"standings": map[string]any{
					"entries": []any{
						teamEntryFixture("9", "Green Bay Packers", 9, 8, 0),
					},
				},
			},
		},
	}

	entries := collectTeamEntries(payload)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got=%d", len(entries))
	}
	if entries[0].conference != "AFC" {
		t.Fatalf("expected AFC label, got=%q", entries[0].conference)
	}
	if entries[1].conference != "NFC" {
		t.Fatalf("expected NFC label, got=%q", entries[1].conference)
	}
}

func TestCollectTeamEntries_GathersAndKeepsDescending(t *testing.T) {
	t.Parallel()

	// A node that both holds entries and wraps deeper division groups.
	payload := map[string]any{
		"abbreviation": "AFC",
		"entries": []any{
			teamEntryFixture("2", "Buffalo Bills", 11, 6, 0),
		},
		"divisions": []any{
			map[string]any{
				"name": "AFC East",
				"entries": []any{
					teamEntryFixture("15", "Miami Dolphins", 8, 9, 0),
				},
			},
		},
	}

	entries := collectTeamEntries(payload)
	if len(entries) != 2 {
		t.Fatalf("expected both shallow and nested entries, got=%d", len(entries))
	}
	for _, item := range entries {
		if item.conference != "AFC" {
			t.Fatalf("expected inherited AFC label, got=%q", item.conference)
		}
	}
}

func TestCollectTeamEntries_IgnoresUnknownWrappers(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"logos": []any{
			map[string]any{
				"entries": []any{
					teamEntryFixture("2", "Buffalo Bills", 11, 6, 0),
				},
			},
		},
	}

	if entries := collectTeamEntries(payload); len(entries) != 0 {
		t.Fatalf("expected no entries under unlisted wrappers, got=%d", len(entries))
	}
}

func TestCollectTeamEntries_StopsAtDepthGuard(t *testing.T) {
	t.Parallel()

	leaf := map[string]any{
		"entries": []any{
			teamEntryFixture("2", "Buffalo Bills", 11, 6, 0),
		},
	}
	node := leaf
	for i := 0; i < 30; i++ {
		node = map[string]any{"children": node}
	}

	if entries := collectTeamEntries(node); len(entries) != 0 {
		t.Fatalf("expected depth guard to stop the walk, got=%d entries", len(entries))
	}
}

func TestParseStandingsPayload_FirstOccurrenceWinsOnDuplicateID(t *testing.T) {
	t.Parallel()

	first := teamEntryFixture("2", "Buffalo Bills", 11, 6, 0)
	duplicate := teamEntryFixture("2", "Buffalo Bills", 4, 13, 0)

	payload := map[string]any{
		"children": []any{
			map[string]any{
				"abbreviation": "AFC",
				"standings":    map[string]any{"entries": []any{first}},
			},
			map[string]any{
				"name":      "AFC East",
				"standings": map[string]any{"entries": []any{duplicate}},
			},
		},
	}

	records := parseStandingsPayload(payload)
	if len(records) != 1 {
		t.Fatalf("expected one record, got=%d", len(records))
	}
	bills := records["Buffalo Bills"]
	if bills.Record != "11-6" {
		t.Fatalf("expected first occurrence to win, got record=%q", bills.Record)
	}
}

func TestParseTeamEntry_BuildsFullRecord(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"team": map[string]any{
			"id":          "2",
			"location":    "Buffalo",
			"name":        "Bills",
			"displayName": "Buffalo Bills",
		},
		"note": map[string]any{"text": "z - Clinched Division"},
		"stats": []any{
			statFixture("wins", float64(11), "11"),
			statFixture("losses", float64(6), "6"),
			statFixture("ties", float64(0), "0"),
			statFixture("winPercent", 0.647, ".647"),
			statFixture("pointsFor", float64(451), "451"),
			statFixture("pointsAgainst", float64(311), "311"),
			statFixture("streak", float64(3), "W3"),
			statFixture("playoffSeed", float64(2), "2"),
		},
	}

	record := parseTeamEntry(entry, "AFC")
	if record.Name != "Buffalo Bills" {
		t.Fatalf("unexpected name: %q", record.Name)
	}
	if record.Record != "11-6" {
		t.Fatalf("expected record 11-6, got=%q", record.Record)
	}
	if record.Wins != 11 || record.Losses != 6 || record.Ties != 0 {
		t.Fatalf("unexpected counts: %d-%d-%d", record.Wins, record.Losses, record.Ties)
	}
	if record.WinPct == nil || *record.WinPct != 0.647 {
		t.Fatalf("unexpected win pct: %v", record.WinPct)
	}
	if record.PointsFor == nil || *record.PointsFor != 451 {
		t.Fatalf("unexpected points for: %v", record.PointsFor)
	}
	if record.PointsAgainst == nil || *record.PointsAgainst != 311 {
		t.Fatalf("unexpected points against: %v", record.PointsAgainst)
	}
	if record.Streak != "W3" {
		t.Fatalf("expected display streak W3, got=%q", record.Streak)
	}
	if record.ConferenceSeed == nil || *record.ConferenceSeed != 2 {
		t.Fatalf("unexpected seed: %v", record.ConferenceSeed)
	}
	if record.Note != "z - Clinched Division" {
		t.Fatalf("unexpected note: %q", record.Note)
	}
	if record.Conference != "AFC" {
		t.Fatalf("unexpected conference: %q", record.Conference)
	}
	if record.Division != "AFC East" {
		t.Fatalf("expected division from metadata, got=%q", record.Division)
	}
	if record.ExternalID != "2" {
		t.Fatalf("unexpected external id: %q", record.ExternalID)
	}
}

func TestParseTeamEntry_TiesShowInRecord(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"team": map[string]any{"id": "26", "displayName": "Tennessee Titans"},
		"stats": []any{
			statFixture("wins", float64(9), "9"),
			statFixture("losses", float64(7), "7"),
			statFixture("ties", float64(1), "1"),
		},
	}

	record := parseTeamEntry(entry, "")
	if record.Record != "9-7-1" {
		t.Fatalf("expected 9-7-1, got=%q", record.Record)
	}
}

func TestParseTeamEntry_MissingCountsDefaultToZero(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"team": map[string]any{"id": "12", "displayName": "Kansas City Chiefs"},
	}

	record := parseTeamEntry(entry, "")
	if record.Record != "0-0" {
		t.Fatalf("expected 0-0 for missing stats, got=%q", record.Record)
	}
	if record.WinPct != nil || record.PointsFor != nil || record.PointsAgainst != nil {
		t.Fatal("optional stats should stay nil when absent")
	}
}

func TestParseTeamEntry_UnparsableSeedStaysNil(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"team": map[string]any{"id": "12", "displayName": "Kansas City Chiefs"},
		"stats": []any{
			statFixture("playoffSeed", "-", "-"),
		},
	}

	record := parseTeamEntry(entry, "")
	if record.ConferenceSeed != nil {
		t.Fatalf("expected nil seed, got=%v", *record.ConferenceSeed)
	}
}

func TestParseTeamEntry_NameFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		team map[string]any
		want string
	}{
		{"location plus name", map[string]any{"location": "Buffalo", "name": "Bills"}, "Buffalo Bills"},
		{"name only", map[string]any{"name": "Bills"}, "Bills"},
		{"nothing", map[string]any{}, "Unknown Team"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			record := parseTeamEntry(map[string]any{"team": tt.team}, "")
			if record.Name != tt.want {
				t.Fatalf("expected %q, got=%q", tt.want, record.Name)
			}
		})
	}
}

func TestParseTeamEntry_MetadataFillsMissingConference(t *testing.T) {
	t.Parallel()

	entry := map[string]any{
		"team": map[string]any{"id": "9", "displayName": "Green Bay Packers"},
	}

	record := parseTeamEntry(entry, "")
	if record.Conference != "NFC" {
		t.Fatalf("expected metadata conference, got=%q", record.Conference)
	}
	if record.Division != "NFC North" {
		t.Fatalf("expected metadata division, got=%q", record.Division)
	}

	labeled := parseTeamEntry(entry, "AFC")
	if labeled.Conference != "AFC" {
		t.Fatalf("walker label should win over metadata, got=%q", labeled.Conference)
	}
}

func TestConferenceLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		node    map[string]any
		current string
		want    string
	}{
		{"isConference prefers abbreviation", map[string]any{"isConference": true, "abbreviation": "AFC", "name": "American Football Conference"}, "", "AFC"},
		{"isConference falls back to name", map[string]any{"isConference": true, "name": "American Football Conference"}, "", "American Football Conference"},
		{"isConference without labels keeps inherited", map[string]any{"isConference": true}, "NFC", "NFC"},
		{"bare abbreviation shortcut", map[string]any{"abbreviation": "NFC"}, "", "NFC"},
		{"full name shortcut", map[string]any{"name": "National Football Conference", "shortName": "NFC"}, "", "NFC"},
		{"division node inherits", map[string]any{"name": "AFC East"}, "AFC", "AFC"},
		{"unrelated abbreviation inherits", map[string]any{"abbreviation": "XFL"}, "NFC", "NFC"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := conferenceLabel(tt.node, tt.current); got != tt.want {
				t.Fatalf("expected %q, got=%q", tt.want, got)
			}
		})
	}
}

func TestFetchStandings_ParsesLivePayload(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		writeJSON(t, w, map[string]any{
			"children": []any{
				map[string]any{
					"abbreviation": "AFC",
					"isConference": true,
					"standings": map[string]any{
						"entries": []any{
							teamEntryFixture("2", "Buffalo Bills", 11, 6, 0),
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		SiteAPIBaseURL: server.URL,
		Logger:         logging.NewNop(),
	})

	records, err := client.FetchStandings(context.Background(), 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got=%d", len(records))
	}
	if gotPath != "/standings?season=2024&seasontype=2" {
		t.Fatalf("unexpected request path: %q", gotPath)
	}
	if records["Buffalo Bills"].Conference != "AFC" {
		t.Fatalf("unexpected conference: %q", records["Buffalo Bills"].Conference)
	}
}

func TestFetchStandings_ZeroEntriesIsSchemaError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"season": map[string]any{"year": float64(2024)}})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		SiteAPIBaseURL: server.URL,
		Logger:         logging.NewNop(),
	})

	_, err := client.FetchStandings(context.Background(), 2024)
	if !crerr.Is(err, ErrSchema) {
		t.Fatalf("expected schema failure, got %v", err)
	}
}

func teamEntryFixture(id, displayName string, wins, losses, ties int) map[string]any {
	return map[string]any{
		"team": map[string]any{
			"id":          id,
			"displayName": displayName,
		},
		"stats": []any{
			statFixture("wins", float64(wins), ""),
			statFixture("losses", float64(losses), ""),
			statFixture("ties", float64(ties), ""),
		},
	}
}

func statFixture(name string, value any, display string) map[string]any {
	stat := map[string]any{
		"name":  name,
		"value": value,
	}
	if display != "" {
		stat["displayValue"] = display
	}
	return stat
}
