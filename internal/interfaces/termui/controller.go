package termui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"huddle/internal/domain/standings"
	"huddle/internal/domain/team"
	"huddle/internal/metrics"
	"huddle/internal/platform/logging"
	"huddle/internal/usecase"
)

// ControllerConfig wires a Controller. Service is required; Metrics is
// optional and feeds the stats command.
type ControllerConfig struct {
	Service *usecase.ViewerService
	Metrics *metrics.Recorder
	Writer  io.Writer
	Logger  *logging.Logger
	Now     func() time.Time
}

// Controller owns the viewer state and renders it to a terminal. All state
// lives on the Run goroutine: commands and fetch updates are both consumed
// there, so no field needs a lock.
type Controller struct {
	svc      *usecase.ViewerService
	recorder *metrics.Recorder
	out      io.Writer
	logger   *logging.Logger
	now      func() time.Time

	teamName      string
	seasonYear    int
	latestSeason  int
	showStandings bool
}

// NewController builds a Controller around the given service.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("%w: service is required", usecase.ErrInvalidInput)
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	latest := team.CurrentSeasonYear(cfg.Now())
	return &Controller{
		svc:           cfg.Service,
		recorder:      cfg.Metrics,
		out:           cfg.Writer,
		logger:        cfg.Logger,
		now:           cfg.Now,
		seasonYear:    latest,
		latestSeason:  latest,
		showStandings: true,
	}, nil
}

// ReadCommands turns a reader into a channel of trimmed, non-empty lines.
// The channel closes when the reader is exhausted.
func ReadCommands(r io.Reader) <-chan string {
	commands := make(chan string)
	go func() {
		defer close(commands)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				commands <- line
			}
		}
	}()
	return commands
}

// Run renders the initial board, starts the first standings fetch, and then
// loops over commands and fetch updates until the commands channel closes,
// the user quits, or the context ends.
func (c *Controller) Run(ctx context.Context, commands <-chan string) error {
	c.renderStandings()
	c.requestStandings(c.seasonYear, false)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-commands:
			if !ok {
				return nil
			}
			if quit := c.handleCommand(line); quit {
				return nil
			}
		case update := <-c.svc.Updates():
			c.handleUpdate(update)
		}
	}
}

func (c *Controller) handleCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	rest := strings.Join(fields[1:], " ")

	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		c.printHelp()
	case "teams":
		c.print(team.Names())
	case "team":
		c.selectTeam(rest)
	case "years":
		c.listYears()
	case "year":
		c.selectYear(rest)
	case "standings":
		c.showStandings = true
		c.renderStandings()
	case "roster":
		c.showRoster()
	case "show":
		c.rerender()
	case "refresh":
		c.refresh()
	case "stats":
		c.printStats()
	default:
		c.setStatus(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", fields[0]))
	}
	return false
}

func (c *Controller) handleUpdate(update usecase.Update) {
	c.svc.Apply(update)

	switch update.Kind {
	case usecase.UpdateStandings:
		if update.SeasonYear != c.seasonYear {
			return
		}
		if update.Err != "" {
			c.logger.Warn("standings fetch failed",
				"season_year", update.SeasonYear,
				"reason", update.Err,
			)
			c.setStatus(update.Err)
			c.setStatus(fmt.Sprintf("Using offline fallback data for %d. Connect to the internet and press 'Refresh Data'.", update.SeasonYear))
			return
		}
		c.rerender()
		c.setStatus(fmt.Sprintf("Standings refreshed for %d.", update.SeasonYear))
	case usecase.UpdateRoster:
		if update.SeasonYear != c.seasonYear || update.TeamName != c.teamName {
			return
		}
		if !c.showStandings {
			c.rerender()
		}
		if update.Err != "" {
			c.logger.Warn("roster fetch failed",
				"team", update.TeamName,
				"season_year", update.SeasonYear,
				"reason", update.Err,
			)
			c.setStatus(fmt.Sprintf("Roster unavailable for %s (%d).", update.TeamName, update.SeasonYear))
			return
		}
		c.setStatus(fmt.Sprintf("Roster updated for %s (%d).", update.TeamName, update.SeasonYear))
	}
}

func (c *Controller) selectTeam(name string) {
	if name == "" {
		c.setStatus("Usage: team <name>. Try 'teams' for the full list.")
		return
	}
	if _, ok := team.MetaByName[name]; !ok {
		c.setStatus(fmt.Sprintf("Unknown team: %s", name))
		return
	}
	c.teamName = name
	c.clampSeason()
	c.showStandings = false
	c.renderTeamView()
}

func (c *Controller) selectYear(raw string) {
	year, err := strconv.Atoi(raw)
	if err != nil {
		c.setStatus(fmt.Sprintf("Season %q is not a year.", raw))
		return
	}
	earliest := team.EarliestFranchiseYear
	if c.teamName != "" {
		years := team.SeasonYears(c.teamName, c.latestSeason)
		earliest = years[len(years)-1]
	}
	if year < earliest || year > c.latestSeason {
		c.setStatus(fmt.Sprintf("Season %d is not available.", year))
		return
	}
	c.seasonYear = year
	if _, ok := c.svc.StandingsFor(year); !ok {
		c.requestStandings(year, false)
	}
	c.rerender()
}

// showRoster jumps to the selected team's view, which carries the roster
// section and starts the fetch when nothing is cached yet.
func (c *Controller) showRoster() {
	if c.teamName == "" {
		c.setStatus("Select a team first with 'team <name>'.")
		return
	}
	c.showStandings = false
	c.renderTeamView()
}

func (c *Controller) listYears() {
	if c.teamName == "" {
		c.setStatus("Select a team first with 'team <name>'.")
		return
	}
	years := team.SeasonYears(c.teamName, c.latestSeason)
	labels := make([]string, len(years))
	for i, year := range years {
		labels[i] = strconv.Itoa(year)
	}
	c.setStatus(fmt.Sprintf("Seasons for %s: %s", c.teamName, strings.Join(labels, ", ")))
}

func (c *Controller) refresh() {
	c.requestStandings(c.seasonYear, true)
	if c.teamName == "" {
		return
	}
	teamID := c.selectedTeamID()
	if teamID == "" {
		return
	}
	c.requestRoster(teamID, true)
}

func (c *Controller) rerender() {
	if c.showStandings || c.teamName == "" {
		c.renderStandings()
		return
	}
	c.renderTeamView()
}

func (c *Controller) renderStandings() {
	records, _ := c.svc.StandingsOrPlaceholder(c.seasonYear)
	c.print(StandingsBoard(c.seasonYear, c.now(), records))
	c.setStatus(fmt.Sprintf("Showing conference standings for %d.", c.seasonYear))
}

func (c *Controller) renderTeamView() {
	records, _ := c.svc.StandingsOrPlaceholder(c.seasonYear)
	record, ok := records[c.teamName]
	if !ok {
		c.setStatus("No data for that team yet; try refreshing.")
		return
	}
	lines := TeamView(c.seasonYear, c.teamName, record)
	lines = append(lines, c.rosterLines(record)...)
	c.print(lines)
	c.setStatus(fmt.Sprintf("Showing data for %s (%d).", c.teamName, c.seasonYear))
}

// rosterLines picks the roster branch for the selected team and, when nothing
// is cached and nothing has failed, starts the fetch right away so the
// loading line it returns is honest.
func (c *Controller) rosterLines(record standings.TeamRecord) []string {
	teamID := record.ExternalID
	if teamID == "" {
		return RosterSection(c.seasonYear, RosterMissingTeamID, nil)
	}
	if players, ok := c.svc.RosterFor(c.seasonYear, teamID); ok {
		return RosterSection(c.seasonYear, RosterReady, players)
	}
	if c.svc.RosterError(c.seasonYear, teamID) != "" {
		return RosterSection(c.seasonYear, RosterUnavailable, nil)
	}
	c.requestRoster(teamID, false)
	return RosterSection(c.seasonYear, RosterLoading, nil)
}

func (c *Controller) requestStandings(seasonYear int, force bool) {
	started, err := c.svc.RequestStandings(usecase.StandingsRequest{SeasonYear: seasonYear, Force: force})
	if err != nil {
		c.setStatus(fmt.Sprintf("Cannot fetch standings: %v", err))
		return
	}
	if started {
		c.setStatus(fmt.Sprintf("Fetching standings for %d from ESPN...", seasonYear))
	}
}

func (c *Controller) requestRoster(teamID string, force bool) {
	started, err := c.svc.RequestRoster(usecase.RosterRequest{
		SeasonYear: c.seasonYear,
		TeamID:     teamID,
		TeamName:   c.teamName,
		Force:      force,
	})
	if err != nil {
		c.setStatus(fmt.Sprintf("Cannot fetch roster: %v", err))
		return
	}
	if started {
		c.setStatus(fmt.Sprintf("Fetching roster for %s (%d) from ESPN...", c.teamName, c.seasonYear))
	}
}

// selectedTeamID reads the upstream team ID out of the cached standings row
// for the selected team. Placeholder rows carry no ID.
func (c *Controller) selectedTeamID() string {
	records, _ := c.svc.StandingsOrPlaceholder(c.seasonYear)
	return records[c.teamName].ExternalID
}

// clampSeason keeps the selected season inside the franchise's playing years
// after a team change.
func (c *Controller) clampSeason() {
	years := team.SeasonYears(c.teamName, c.latestSeason)
	if len(years) == 0 {
		return
	}
	if earliest := years[len(years)-1]; c.seasonYear < earliest {
		c.seasonYear = earliest
	}
	if latest := years[0]; c.seasonYear > latest {
		c.seasonYear = latest
	}
}

// printStats dumps the upstream call counters collected since startup.
func (c *Controller) printStats() {
	snapshots := c.recorder.SnapshotAll()
	if len(snapshots) == 0 {
		c.setStatus("No fetch stats recorded yet.")
		return
	}
	lines := []string{"Fetch stats:"}
	for _, endpoint := range sortedKeys(snapshots) {
		snap := snapshots[endpoint]
		lines = append(lines, fmt.Sprintf("  %-14s calls=%-4d errors=%-4d last=%s",
			endpoint, snap.Calls, snap.Errors, snap.LastCallLatency.Round(time.Millisecond)))
	}
	c.print(lines)
}

func (c *Controller) printHelp() {
	c.print([]string{
		"Commands:",
		"  teams            List the NFL teams.",
		"  team <name>      Show one team's record and roster.",
		"  year <season>    Switch the season year.",
		"  years            List seasons available for the selected team.",
		"  standings        Show the conference standings board.",
		"  roster           Show the selected team's roster.",
		"  show             Redraw the current view.",
		"  refresh          Force a refresh from ESPN.",
		"  stats            Show upstream fetch counters.",
		"  quit             Exit.",
	})
}

func (c *Controller) print(lines []string) {
	fmt.Fprintln(c.out, strings.Join(lines, "\n"))
}

func (c *Controller) setStatus(message string) {
	fmt.Fprintln(c.out, message)
}
