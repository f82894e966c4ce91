package standings

import "huddle/internal/domain/team"

// TeamRecord is one team's standings row for a season. Counting stats default
// to zero when the upstream payload omits them; rate and ranking fields stay
// nil so renderers can distinguish "missing" from a real value.
type TeamRecord struct {
	Name           string
	Conference     string
	Division       string
	Record         string
	Wins           int
	Losses         int
	Ties           int
	PointsFor      *float64
	PointsAgainst  *float64
	WinPct         *float64
	Streak         string
	ConferenceSeed *int
	Note           string
	ExternalID     string
}

// PointDifferential returns points scored minus points allowed, or nil when
// either side is unknown.
func (r TeamRecord) PointDifferential() *float64 {
	if r.PointsFor == nil || r.PointsAgainst == nil {
		return nil
	}
	diff := *r.PointsFor - *r.PointsAgainst
	return &diff
}

const (
	placeholderRecord = "No live data yet."
	placeholderNote   = "Press 'Refresh Data' once you are online to pull standings."
)

// PlaceholderRecords builds an offline standings table covering every
// franchise. Performance numbers stay empty so stale data is never mistaken
// for live results.
func PlaceholderRecords() map[string]TeamRecord {
	records := make(map[string]TeamRecord, len(team.MetaByName))
	for name, meta := range team.MetaByName {
		records[name] = TeamRecord{
			Name:       name,
			Conference: meta.Conference,
			Division:   meta.Division,
			Record:     placeholderRecord,
			Note:       placeholderNote,
		}
	}
	return records
}

// IsPlaceholder reports whether the record is offline filler rather than a
// fetched standings row.
func (r TeamRecord) IsPlaceholder() bool {
	return r.Record == placeholderRecord
}
