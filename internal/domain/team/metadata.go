package team

import (
	"sort"
	"time"
)

// Meta carries the league placement for one NFL franchise.
type Meta struct {
	Conference string
	Division   string
}

// MetaByName maps every current franchise to its conference and division.
// It backs the team picker and fills in placement when a standings payload
// omits group labels.
var MetaByName = map[string]Meta{
	// AFC East
	"Buffalo Bills":        {Conference: "AFC", Division: "AFC East"},
	"Miami Dolphins":       {Conference: "AFC", Division: "AFC East"},
	"New England Patriots": {Conference: "AFC", Division: "AFC East"},
	"New York Jets":        {Conference: "AFC", Division: "AFC East"},
	// AFC North
	"Baltimore Ravens":    {Conference: "AFC", Division: "AFC North"},
	"Cincinnati Bengals":  {Conference: "AFC", Division: "AFC North"},
	"Cleveland Browns":    {Conference: "AFC", Division: "AFC North"},
	"Pittsburgh Steelers": {Conference: "AFC", Division: "AFC North"},
	// AFC South
	"Houston Texans":       {Conference: "AFC", Division: "AFC South"},
	"Indianapolis Colts":   {Conference: "AFC", Division: "AFC South"},
	"Jacksonville Jaguars": {Conference: "AFC", Division: "AFC South"},
	"Tennessee Titans":     {Conference: "AFC", Division: "AFC South"},
	// AFC West
	"Denver Broncos":       {Conference: "AFC", Division: "AFC West"},
	"Kansas City Chiefs":   {Conference: "AFC", Division: "AFC West"},
	"Las Vegas Raiders":    {Conference: "AFC", Division: "AFC West"},
	"Los Angeles Chargers": {Conference: "AFC", Division: "AFC West"},
	// NFC East
	"Dallas Cowboys":        {Conference: "NFC", Division: "NFC East"},
	"New York Giants":       {Conference: "NFC", Division: "NFC East"},
	"Philadelphia Eagles":   {Conference: "NFC", Division: "NFC East"},
	"Washington Commanders": {Conference: "NFC", Division: "NFC East"},
	// NFC North
	"Chicago Bears":     {Conference: "NFC", Division: "NFC North"},
	"Detroit Lions":     {Conference: "NFC", Division: "NFC North"},
	"Green Bay Packers": {Conference: "NFC", Division: "NFC North"},
	"Minnesota Vikings": {Conference: "NFC", Division: "NFC North"},
	// NFC South
	"Atlanta Falcons":      {Conference: "NFC", Division: "NFC South"},
	"Carolina Panthers":    {Conference: "NFC", Division: "NFC South"},
	"New Orleans Saints":   {Conference: "NFC", Division: "NFC South"},
	"Tampa Bay Buccaneers": {Conference: "NFC", Division: "NFC South"},
	// NFC West
	"Arizona Cardinals":   {Conference: "NFC", Division: "NFC West"},
	"Los Angeles Rams":    {Conference: "NFC", Division: "NFC West"},
	"San Francisco 49ers": {Conference: "NFC", Division: "NFC West"},
	"Seattle Seahawks":    {Conference: "NFC", Division: "NFC West"},
}

// FranchiseStartYears records the first season for each modern franchise so
// the season picker can run back to the true start of the organization.
var FranchiseStartYears = map[string]int{
	"Arizona Cardinals":     1920,
	"Atlanta Falcons":       1966,
	"Baltimore Ravens":      1996,
	"Buffalo Bills":         1960,
	"Carolina Panthers":     1995,
	"Chicago Bears":         1920,
	"Cincinnati Bengals":    1968,
	"Cleveland Browns":      1946,
	"Dallas Cowboys":        1960,
	"Denver Broncos":        1960,
	"Detroit Lions":         1930,
	"Green Bay Packers":     1921,
	"Houston Texans":        2002,
	"Indianapolis Colts":    1953,
	"Jacksonville Jaguars":  1995,
	"Kansas City Chiefs":    1960,
	"Las Vegas Raiders":     1960,
	"Los Angeles Chargers":  1960,
	"Los Angeles Rams":      1937,
	"Miami Dolphins":        1966,
	"Minnesota Vikings":     1961,
	"New England Patriots":  1960,
	"New Orleans Saints":    1967,
	"New York Giants":       1925,
	"New York Jets":         1960,
	"Philadelphia Eagles":   1933,
	"Pittsburgh Steelers":   1933,
	"San Francisco 49ers":   1946,
	"Seattle Seahawks":      1976,
	"Tampa Bay Buccaneers":  1976,
	"Tennessee Titans":      1960,
	"Washington Commanders": 1932,
}

// EarliestFranchiseYear is the oldest first season across all franchises.
const EarliestFranchiseYear = 1920

// Names returns every franchise name in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(MetaByName))
	for name := range MetaByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrentSeasonYear returns the season that most likely represents the
// current NFL season. Seasons start in early fall, so before July the prior
// season is assumed.
func CurrentSeasonYear(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}

// SeasonYears lists selectable seasons for a franchise, newest first, running
// from latest down to the franchise's first season. Unknown franchises fall
// back to the earliest league year.
func SeasonYears(name string, latest int) []int {
	start, ok := FranchiseStartYears[name]
	if !ok {
		start = EarliestFranchiseYear
	}
	if latest < start {
		return []int{latest}
	}

	years := make([]int, 0, latest-start+1)
	for year := latest; year >= start; year-- {
		years = append(years, year)
	}
	return years
}
