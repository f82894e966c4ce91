package espn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"huddle/internal/domain/standings"
	"huddle/internal/domain/team"
)

// Wrapper keys ESPN has used to nest standings groups over the years. The
// walker descends through these rather than every child so unrelated blobs
// (logos, links, seasons) stay untouched.
var standingsWrapperKeys = [...]string{"standings", "children", "groups", "leagues", "conferences", "divisions"}

const maxWalkDepth = 10

// FetchStandings pulls the regular-season standings for one season and
// normalizes them into records keyed by team display name.
func (c *Client) FetchStandings(ctx context.Context, seasonYear int) (map[string]standings.TeamRecord, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(seasonYear))
	query.Set("seasontype", "2")
	fullURL := c.siteBaseURL + "/standings?" + query.Encode()

	var payload map[string]any
	if err := c.fetchJSON(ctx, endpointStandings, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("fetch standings season=%d: %w", seasonYear, err)
	}

	records := parseStandingsPayload(payload)
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no team entries found in standings payload", ErrSchema)
	}

	c.logger.DebugContext(ctx, "standings parsed", "season", seasonYear, "teams", len(records))
	return records, nil
}

type teamEntry struct {
	entry      map[string]any
	conference string
}

// collectTeamEntries walks the standings payload and returns every team entry
// alongside the nearest enclosing conference label. ESPN wraps standings
// differently over time (sometimes under "children", other times under
// "standings"), so the recursive search keeps the parser resilient to small
// schema shifts and gathers entries across conferences instead of stopping
// at the first group.
func collectTeamEntries(root map[string]any) []teamEntry {
	out := make([]teamEntry, 0, 32)

	var walk func(node any, conference string, depth int)
	walk = func(node any, conference string, depth int) {
		if depth > maxWalkDepth || node == nil {
			return
		}

		switch typed := node.(type) {
		case []any:
			for _, child := range typed {
				walk(child, conference, depth+1)
			}
		case map[string]any:
			conference = conferenceLabel(typed, conference)

			// A node can hold entries and still wrap deeper groups, so
			// gather here and keep descending.
			if entries := asSlice(typed["entries"]); entries != nil {
				for _, raw := range entries {
					if entry := asMap(raw); entry != nil {
						out = append(out, teamEntry{entry: entry, conference: conference})
					}
				}
			}

			for _, key := range standingsWrapperKeys {
				if child, ok := typed[key]; ok {
					walk(child, conference, depth+1)
				}
			}
		}
	}

	walk(root, "", 0)
	return out
}

// conferenceLabel returns the conference this node establishes, or the
// inherited label when the node is not a conference boundary.
func conferenceLabel(node map[string]any, current string) string {
	if truthy(node["isConference"]) {
		if label := firstNonEmpty(getString(node, "abbreviation"), getString(node, "shortName"), getString(node, "name")); label != "" {
			return label
		}
		return current
	}

	if abbr := getString(node, "abbreviation"); abbr == "AFC" || abbr == "NFC" {
		return abbr
	}

	name := getString(node, "name")
	if name == "American Football Conference" || name == "National Football Conference" {
		if label := firstNonEmpty(getString(node, "abbreviation"), getString(node, "shortName"), name); label != "" {
			return label
		}
	}

	return current
}

// parseStandingsPayload converts the raw standings JSON into records keyed by
// team display name. Teams listed under multiple parents are kept once, the
// first occurrence winning.
func parseStandingsPayload(payload map[string]any) map[string]standings.TeamRecord {
	entries := collectTeamEntries(payload)
	parsed := make(map[string]standings.TeamRecord, len(entries))
	seenIDs := make(map[string]struct{}, len(entries))

	for _, item := range entries {
		record := parseTeamEntry(item.entry, item.conference)
		if record.ExternalID != "" {
			if _, dup := seenIDs[record.ExternalID]; dup {
				continue
			}
			seenIDs[record.ExternalID] = struct{}{}
		}
		parsed[record.Name] = record
	}

	return parsed
}

func parseTeamEntry(entry map[string]any, conference string) standings.TeamRecord {
	teamInfo := asMap(entry["team"])

	displayName := firstNonEmpty(
		getString(teamInfo, "displayName"),
		joinNonEmpty(" ", getString(teamInfo, "location"), getString(teamInfo, "name")),
		getString(teamInfo, "name"),
	)
	if displayName == "" {
		displayName = "Unknown Team"
	}
	meta := team.MetaByName[displayName]

	// Stats arrive as a list of {"name": ..., "value": ..., "displayValue": ...}.
	values := make(map[string]any)
	displays := make(map[string]string)
	for _, raw := range asSlice(entry["stats"]) {
		stat := asMap(raw)
		name := getString(stat, "name")
		if name == "" {
			continue
		}
		values[name] = stat["value"]
		displays[name] = getString(stat, "displayValue")
	}

	wins := intFromAny(values["wins"])
	losses := intFromAny(values["losses"])
	ties := intFromAny(values["ties"])

	recordText := fmt.Sprintf("%d-%d", wins, losses)
	if ties != 0 {
		recordText = fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}

	streak := displays["streak"]
	if streak == "" {
		streak = stringFromAny(values["streak"])
	}

	conf := conference
	if conf == "" {
		conf = meta.Conference
	}

	return standings.TeamRecord{
		Name:           displayName,
		Conference:     conf,
		Division:       meta.Division,
		Record:         recordText,
		Wins:           wins,
		Losses:         losses,
		Ties:           ties,
		PointsFor:      floatPtrFromAny(values["pointsFor"]),
		PointsAgainst:  floatPtrFromAny(values["pointsAgainst"]),
		WinPct:         floatPtrFromAny(values["winPercent"]),
		Streak:         streak,
		ConferenceSeed: intPtrFromAny(values["playoffSeed"]),
		Note:           getString(asMap(entry["note"]), "text"),
		ExternalID:     getID(teamInfo, "id"),
	}
}
