package espn

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	ants "github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"

	"huddle/internal/domain/roster"
)

// FetchRoster assembles the season roster for one team. The core API returns
// an index of athlete $ref links; each link is hydrated concurrently and a
// single failed link drops that athlete rather than failing the roster.
func (c *Client) FetchRoster(ctx context.Context, teamID string, seasonYear int) ([]roster.Player, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("team id is required")
	}

	fullURL := fmt.Sprintf("%s/seasons/%d/teams/%s/athletes?limit=%d",
		c.coreBaseURL, seasonYear, url.PathEscape(teamID), c.rosterLimit)

	var index map[string]any
	if err := c.fetchJSON(ctx, endpointRoster, fullURL, &index); err != nil {
		return nil, fmt.Errorf("fetch roster index team=%s season=%d: %w", teamID, seasonYear, err)
	}

	items, ok := index["items"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: roster index missing athlete items", ErrSchema)
	}

	refs := make([]string, 0, len(items))
	athletes := make([]map[string]any, 0, len(items))
	for _, raw := range items {
		item := asMap(raw)
		if item == nil {
			continue
		}
		if ref := getString(item, "$ref"); ref != "" {
			refs = append(refs, normalizeRefURL(ref))
			continue
		}
		athletes = append(athletes, item)
	}

	if len(refs) > 0 {
		hydrated, err := c.hydrateAthleteRefs(ctx, refs)
		if err != nil {
			return nil, err
		}
		athletes = append(athletes, hydrated...)
	}

	if len(athletes) == 0 {
		return nil, fmt.Errorf("%w: roster index returned no athletes", ErrSchema)
	}

	c.populateCollegeNames(ctx, athletes)

	players, ok := parseRosterPayload(map[string]any{"athletes": toAnySlice(athletes)})
	if !ok {
		return nil, fmt.Errorf("%w: roster payload missing expected fields", ErrSchema)
	}

	c.logger.DebugContext(ctx, "roster parsed",
		"team", teamID, "season", seasonYear, "players", len(players))
	return players, nil
}

// hydrateAthleteRefs resolves athlete links through a bounded worker pool,
// preserving index order in the result.
func (c *Client) hydrateAthleteRefs(ctx context.Context, refs []string) ([]map[string]any, error) {
	workerPool, err := ants.NewPool(c.rosterWorkers)
	if err != nil {
		return nil, fmt.Errorf("create roster hydration pool: %w", err)
	}
	defer workerPool.Release()

	results := make([]map[string]any, len(refs))
	var dropped atomic.Int32
	var workers sync.WaitGroup

	for idx, ref := range refs {
		idx, ref := idx, ref
		workers.Add(1)
		submitErr := workerPool.Submit(func() {
			defer workers.Done()
			var athlete map[string]any
			if err := c.fetchJSON(ctx, endpointAthlete, ref, &athlete); err != nil {
				dropped.Add(1)
				c.logger.DebugContext(ctx, "athlete hydration failed", "ref", ref, "error", err)
				return
			}
			results[idx] = athlete
		})
		if submitErr != nil {
			workers.Done()
			dropped.Add(1)
		}
	}

	workers.Wait()

	hydrated := make([]map[string]any, 0, len(refs))
	for _, athlete := range results {
		if athlete != nil {
			hydrated = append(hydrated, athlete)
		}
	}
	if n := dropped.Load(); n > 0 {
		c.logger.WarnContext(ctx, "athlete refs dropped", "dropped", n, "total", len(refs))
	}
	return hydrated, nil
}

// populateCollegeNames fills missing college names in place using cached,
// bounded lookups. Lookup failures leave the athlete's college as-is.
func (c *Client) populateCollegeNames(ctx context.Context, athletes []map[string]any) {
	pending := make([]string, 0, len(athletes))
	seen := make(map[string]struct{}, len(athletes))
	for _, athlete := range athletes {
		ref := collegeRefNeedingLookup(athlete)
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		pending = append(pending, ref)
	}
	if len(pending) == 0 {
		return
	}

	resolved := make(map[string]string, len(pending))
	var mu sync.Mutex
	workers := concpool.New().WithMaxGoroutines(c.collegeWorkers)
	for _, ref := range pending {
		ref := ref
		workers.Go(func() {
			name, err := c.collegeName(ctx, ref)
			if err != nil {
				c.logger.DebugContext(ctx, "college lookup failed", "ref", ref, "error", err)
				return
			}
			if name == "" {
				return
			}
			mu.Lock()
			resolved[ref] = name
			mu.Unlock()
		})
	}
	workers.Wait()

	for _, athlete := range athletes {
		if collegeNameFromInfo(athlete["college"]) != "" {
			continue
		}
		ref := extractCollegeRef(athlete["college"])
		if ref == "" {
			continue
		}
		if name, ok := resolved[ref]; ok {
			athlete["college"] = map[string]any{"name": name}
		}
	}
}

// collegeName resolves one college $ref, caching results for the lifetime of
// the client so repeated roster fetches skip the lookup.
func (c *Client) collegeName(ctx context.Context, ref string) (string, error) {
	value, err := c.collegeCache.GetOrLoad(ctx, ref, func(ctx context.Context) (any, error) {
		var payload map[string]any
		if err := c.fetchJSON(ctx, endpointCollege, ref, &payload); err != nil {
			return nil, err
		}
		return firstNonEmpty(
			getString(payload, "name"),
			getString(payload, "shortDisplayName"),
			getString(payload, "displayName"),
		), nil
	})
	if err != nil {
		return "", err
	}
	name, _ := value.(string)
	return name, nil
}

// collegeRefNeedingLookup returns the $ref to resolve for an athlete whose
// college is still just a link.
func collegeRefNeedingLookup(athlete map[string]any) string {
	info := athlete["college"]
	if _, isName := info.(string); isName {
		return ""
	}
	if obj := asMap(info); obj != nil && getString(obj, "name") != "" {
		return ""
	}
	return extractCollegeRef(info)
}

func extractCollegeRef(info any) string {
	obj := asMap(info)
	if obj == nil {
		return ""
	}
	ref := getString(obj, "$ref")
	if ref == "" {
		return ""
	}
	return normalizeRefURL(ref)
}

func collegeNameFromInfo(info any) string {
	switch typed := info.(type) {
	case string:
		return strings.TrimSpace(typed)
	case map[string]any:
		return getString(typed, "name")
	default:
		return ""
	}
}

type rosterEntry struct {
	athlete map[string]any
	group   string
}

// extractRosterEntries pulls athlete records from a roster payload and
// preserves any position-group label. ESPN serves rosters either grouped by
// position (site API) or as a flat list (core API index); both shapes land
// here. A nil return means the payload shape was not recognized.
func extractRosterEntries(payload map[string]any) []rosterEntry {
	if payload == nil {
		return nil
	}

	data := payload
	if rosterPayload := asMap(payload["roster"]); rosterPayload != nil {
		data = rosterPayload
	} else if teamPayload := asMap(payload["team"]); teamPayload != nil {
		data = teamPayload
	}

	if athletes, ok := data["athletes"].([]any); ok {
		entries := make([]rosterEntry, 0, len(athletes))
		for _, raw := range athletes {
			group := asMap(raw)
			if group == nil {
				continue
			}
			items, grouped := group["items"].([]any)
			if !grouped {
				// Flat athlete record sitting directly in the list.
				entries = append(entries, rosterEntry{athlete: group})
				continue
			}
			position := asMap(group["position"])
			label := firstNonEmpty(getString(position, "abbreviation"), getString(position, "name"))
			for _, item := range items {
				if athlete := asMap(item); athlete != nil {
					entries = append(entries, rosterEntry{athlete: athlete, group: label})
				}
			}
		}
		return entries
	}

	for _, key := range []string{"items", "entries", "players"} {
		if items, ok := data[key].([]any); ok {
			entries := make([]rosterEntry, 0, len(items))
			for _, item := range items {
				if athlete := asMap(item); athlete != nil {
					entries = append(entries, rosterEntry{athlete: athlete})
				}
			}
			return entries
		}
	}

	return nil
}

// parseRosterPayload converts a roster payload into player rows. The boolean
// is false when the payload shape is not recognized.
func parseRosterPayload(payload map[string]any) ([]roster.Player, bool) {
	entries := extractRosterEntries(payload)
	if entries == nil {
		return nil, false
	}

	players := make([]roster.Player, 0, len(entries))
	for _, item := range entries {
		players = append(players, parseAthlete(item.athlete, item.group))
	}
	return players, true
}

func parseAthlete(athlete map[string]any, group string) roster.Player {
	name := firstNonEmpty(
		getString(athlete, "fullName"),
		getString(athlete, "displayName"),
		getString(athlete, "shortName"),
		joinNonEmpty(" ", getString(athlete, "firstName"), getString(athlete, "lastName")),
	)
	if name == "" {
		name = "Unknown Player"
	}

	position := asMap(athlete["position"])
	positionLabel := firstNonEmpty(getString(position, "abbreviation"), getString(position, "name"))

	statusInfo := athlete["status"]
	status := stringFromAny(statusInfo)
	if obj := asMap(statusInfo); obj != nil {
		status = firstNonEmpty(getString(obj, "name"), getString(obj, "type"))
	}

	return roster.Player{
		Name:       name,
		Positions:  orNA(joinDistinct("/", group, positionLabel)),
		Jersey:     orNA(firstNonEmpty(stringFromAny(athlete["jersey"]), stringFromAny(athlete["jerseyNumber"]))),
		Age:        intPtrFromAny(athlete["age"]),
		Height:     orNA(formatHeight(firstValue(athlete, "displayHeight", "height"))),
		Weight:     orNA(formatWeight(firstValue(athlete, "displayWeight", "weight"))),
		Experience: orNA(formatExperience(athlete["experience"])),
		College:    orNA(collegeNameFromInfo(athlete["college"])),
		Status:     orNA(status),
	}
}

// formatHeight renders a height as feet and inches when the raw value is a
// total inch count. Preformatted strings pass through.
func formatHeight(raw any) string {
	switch typed := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		inches := int(typed)
		return fmt.Sprintf("%d'%d\"", inches/12, inches%12)
	default:
		return stringFromAny(raw)
	}
}

// formatWeight appends the pound unit to bare numbers. Preformatted strings
// pass through.
func formatWeight(raw any) string {
	switch typed := raw.(type) {
	case nil:
		return ""
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return ""
		}
		if _, err := strconv.Atoi(trimmed); err == nil {
			return trimmed + " lb"
		}
		return trimmed
	case float64:
		return fmt.Sprintf("%d lb", int(typed))
	default:
		return stringFromAny(raw)
	}
}

// formatExperience normalizes a season count into "Rookie", "1 yr", or
// "N yrs". Objects prefer the numeric years field over display text.
func formatExperience(raw any) string {
	if raw == nil {
		return ""
	}
	if info := asMap(raw); info != nil {
		if years, ok := info["years"]; ok && years != nil {
			raw = years
		} else {
			return firstNonEmpty(getString(info, "displayValue"), getString(info, "display"))
		}
	}

	var years int
	switch typed := raw.(type) {
	case float64:
		years = int(typed)
	case float32:
		years = int(typed)
	case int:
		years = typed
	case int64:
		years = int(typed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return strings.TrimSpace(typed)
		}
		years = parsed
	default:
		return stringFromAny(raw)
	}

	switch {
	case years == 0:
		return "Rookie"
	case years == 1:
		return "1 yr"
	default:
		return fmt.Sprintf("%d yrs", years)
	}
}

// firstValue returns the first key whose value is present and non-empty,
// treating empty strings and zero numbers as absent.
func firstValue(src map[string]any, keys ...string) any {
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if s, isStr := raw.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		if f, isNum := raw.(float64); isNum && f == 0 {
			continue
		}
		return raw
	}
	return nil
}

func joinDistinct(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, item := range values {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return strings.Join(out, sep)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func toAnySlice(items []map[string]any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
