package termui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"huddle/internal/domain/roster"
	"huddle/internal/domain/standings"
)

const boardColumnWidth = 42

var divisionOrder = [...]string{
	"AFC East",
	"AFC North",
	"AFC South",
	"AFC West",
	"NFC East",
	"NFC North",
	"NFC South",
	"NFC West",
}

// RosterStatus tells the renderer which roster branch to draw when no player
// rows are available yet.
type RosterStatus int

const (
	// RosterMissingTeamID means standings have not supplied the team's
	// upstream ID, so no roster fetch can be addressed.
	RosterMissingTeamID RosterStatus = iota
	// RosterLoading means a fetch is running or about to run.
	RosterLoading
	// RosterUnavailable means the last fetch failed.
	RosterUnavailable
	// RosterReady means player rows are available (possibly zero).
	RosterReady
)

// TeamView renders the stat block for one team.
func TeamView(seasonYear int, name string, record standings.TeamRecord) []string {
	lines := []string{
		fmt.Sprintf("Team: %s", name),
		fmt.Sprintf("Season: %d", seasonYear),
		fmt.Sprintf("Record: %s", orNA(record.Record)),
		fmt.Sprintf("Wins: %d | Losses: %d | Ties: %d", record.Wins, record.Losses, record.Ties),
		fmt.Sprintf("Win %%: %s", formatOptionalFloat(record.WinPct)),
		fmt.Sprintf("Points For: %s", formatOptionalFloat(record.PointsFor)),
		fmt.Sprintf("Points Against: %s", formatOptionalFloat(record.PointsAgainst)),
		fmt.Sprintf("Point Differential: %s", formatOptionalFloat(record.PointDifferential())),
		fmt.Sprintf("Streak: %s", orNA(record.Streak)),
	}
	if record.Note != "" {
		lines = append(lines, fmt.Sprintf("Note: %s", record.Note))
	}
	return lines
}

// RosterSection renders the roster block under a team view.
func RosterSection(seasonYear int, status RosterStatus, players []roster.Player) []string {
	lines := []string{"", fmt.Sprintf("Roster (%d)", seasonYear)}

	switch status {
	case RosterMissingTeamID:
		return append(lines, "Roster pending: standings must load team IDs.")
	case RosterUnavailable:
		return append(lines, "Roster unavailable. Press 'Refresh Data' to retry.")
	case RosterLoading:
		return append(lines, "Roster is loading...")
	}

	if len(players) == 0 {
		return append(lines, "No roster entries found.")
	}

	lines = append(lines, "Pos   #   Player                  Age  Ht/Wt    Exp   College             Status")
	for _, player := range players {
		age := "N/A"
		if player.Age != nil {
			age = strconv.Itoa(*player.Age)
		}
		size := TruncateText(player.Height+"/"+player.Weight, 9)
		lines = append(lines, fmt.Sprintf("%-6s %2s  %-22s %-3s  %-9s %-5s %-19s %s",
			TruncateText(player.Positions, 6),
			TruncateText(player.Jersey, 3),
			TruncateText(player.Name, 22),
			TruncateText(age, 3),
			size,
			TruncateText(player.Experience, 5),
			TruncateText(player.College, 19),
			TruncateText(player.Status, 10),
		))
	}
	return lines
}

// StandingsBoard renders conference standings beside division breakdowns.
func StandingsBoard(seasonYear int, now time.Time, records map[string]standings.TeamRecord) []string {
	conferences := make(map[string][]boardRow)
	divisions := make(map[string][]boardRow)
	for name, record := range records {
		conference := record.Conference
		if conference == "" {
			conference = "Unknown Conference"
		}
		division := record.Division
		if division == "" {
			division = "Unknown Division"
		}
		conferences[conference] = append(conferences[conference], boardRow{name: name, record: record})
		divisions[division] = append(divisions[division], boardRow{name: name, record: record})
	}

	left := []string{fmt.Sprintf("Conference Standings (%d)", seasonYear), ""}
	for _, conference := range sortedKeys(conferences) {
		left = append(left, fmt.Sprintf("%s Standings", conference))
		rows := conferences[conference]
		sortRows(rows)
		for idx, row := range rows {
			seed := idx + 1
			if s := row.record.ConferenceSeed; s != nil && *s != 0 {
				seed = *s
			}
			left = append(left, fmt.Sprintf("%d. %s (%s)", seed, row.name, orNA(row.record.Record)))
		}
		left = append(left, "")
	}
	left = trimTrailingBlank(left)

	var extras []string
	known := make(map[string]struct{}, len(divisionOrder))
	for _, division := range divisionOrder {
		known[division] = struct{}{}
	}
	for _, division := range sortedKeys(divisions) {
		if _, ok := known[division]; !ok {
			extras = append(extras, division)
		}
	}

	right := []string{"Division Standings", ""}
	for _, division := range append(divisionOrder[:], extras...) {
		rows := divisions[division]
		if len(rows) == 0 {
			continue
		}
		right = append(right, division)
		sortRows(rows)
		for idx, row := range rows {
			right = append(right, fmt.Sprintf("%d. %s (%s)", idx+1, row.name, orNA(row.record.Record)))
		}
		right = append(right, "")
	}
	right = trimTrailingBlank(right)

	combined := []string{
		fmt.Sprintf("Season: %d", seasonYear),
		fmt.Sprintf("Current as of: %s", now.Format("2006-01-02 03:04 PM")),
		"",
	}
	for i := 0; i < len(left) || i < len(right); i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		combined = append(combined, pad(l, boardColumnWidth)+r)
	}
	return combined
}

// TruncateText trims long strings so table rows stay aligned.
func TruncateText(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return value[:maxLen]
	}
	return value[:maxLen-3] + "..."
}

type boardRow struct {
	name   string
	record standings.TeamRecord
}

// sortRows orders teams the way the board reads: seeded teams first by seed,
// then best win percentage, most wins, fewest losses, and finally name.
func sortRows(rows []boardRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		aRanked := a.record.ConferenceSeed != nil
		bRanked := b.record.ConferenceSeed != nil
		if aRanked != bRanked {
			return aRanked
		}
		aSeed, bSeed := 999, 999
		if aRanked {
			aSeed = *a.record.ConferenceSeed
		}
		if bRanked {
			bSeed = *b.record.ConferenceSeed
		}
		if aSeed != bSeed {
			return aSeed < bSeed
		}
		var aPct, bPct float64
		if a.record.WinPct != nil {
			aPct = *a.record.WinPct
		}
		if b.record.WinPct != nil {
			bPct = *b.record.WinPct
		}
		if aPct != bPct {
			return aPct > bPct
		}
		if a.record.Wins != b.record.Wins {
			return a.record.Wins > b.record.Wins
		}
		if a.record.Losses != b.record.Losses {
			return a.record.Losses < b.record.Losses
		}
		return a.name < b.name
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func trimTrailingBlank(lines []string) []string {
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	return lines
}

func pad(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
