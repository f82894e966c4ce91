package usecase

import (
	"context"
	"fmt"

	validator "github.com/go-playground/validator/v10"

	"huddle/internal/domain/roster"
	"huddle/internal/domain/standings"
	"huddle/internal/platform/logging"
)

// StatsFetcher pulls live standings and rosters from the upstream provider.
type StatsFetcher interface {
	FetchStandings(ctx context.Context, seasonYear int) (map[string]standings.TeamRecord, error)
	FetchRoster(ctx context.Context, teamID string, seasonYear int) ([]roster.Player, error)
}

type UpdateKind int

const (
	UpdateStandings UpdateKind = iota + 1
	UpdateRoster
)

// Update is the completion notice for one background fetch. Exactly one of
// the result fields is set on success; Err carries the collapsed message on
// failure.
type Update struct {
	Kind       UpdateKind
	SeasonYear int
	TeamID     string
	TeamName   string
	Standings  map[string]standings.TeamRecord
	Players    []roster.Player
	Err        string
}

type rosterKey struct {
	year   int
	teamID string
}

type rosterState struct {
	players []roster.Player
	fetched bool
	errMsg  string
}

// ViewerService owns the season caches and coordinates background fetches.
// Request, Apply, and the lookup methods must all run on one goroutine (the
// update loop); fetches run on their own goroutines and report back through
// Updates, so cache state is never touched concurrently.
type ViewerService struct {
	fetcher  StatsFetcher
	logger   *logging.Logger
	validate *validator.Validate

	updates chan Update

	standingsBySeason map[int]map[string]standings.TeamRecord
	rostersBySeason   map[rosterKey]rosterState

	inflightStandings map[int]struct{}
	inflightRosters   map[rosterKey]struct{}
}

type ViewerServiceConfig struct {
	Fetcher      StatsFetcher
	Logger       *logging.Logger
	UpdateBuffer int
}

func NewViewerService(cfg ViewerServiceConfig) (*ViewerService, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher is required", ErrInvalidInput)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	buffer := cfg.UpdateBuffer
	if buffer <= 0 {
		buffer = 16
	}

	return &ViewerService{
		fetcher:           cfg.Fetcher,
		logger:            logger,
		validate:          validator.New(),
		updates:           make(chan Update, buffer),
		standingsBySeason: make(map[int]map[string]standings.TeamRecord),
		rostersBySeason:   make(map[rosterKey]rosterState),
		inflightStandings: make(map[int]struct{}),
		inflightRosters:   make(map[rosterKey]struct{}),
	}, nil
}

// Updates delivers fetch completions. The owning loop must drain this
// channel and hand each update to Apply.
func (s *ViewerService) Updates() <-chan Update {
	return s.updates
}

type StandingsRequest struct {
	SeasonYear int `validate:"required,gte=1920,lte=2100"`
	Force      bool
}

type RosterRequest struct {
	SeasonYear int    `validate:"required,gte=1920,lte=2100"`
	TeamID     string `validate:"required"`
	TeamName   string
	Force      bool
}

// RequestStandings starts a background standings fetch unless the season is
// already cached (force bypasses this) or a fetch for it is already running
// (force does not bypass this). It reports whether a fetch was started.
func (s *ViewerService) RequestStandings(req StandingsRequest) (bool, error) {
	if err := s.validateRequest(req); err != nil {
		return false, err
	}

	if !req.Force {
		if _, cached := s.standingsBySeason[req.SeasonYear]; cached {
			return false, nil
		}
	}
	if _, running := s.inflightStandings[req.SeasonYear]; running {
		return false, nil
	}
	s.inflightStandings[req.SeasonYear] = struct{}{}

	go s.fetchStandings(req.SeasonYear)
	return true, nil
}

// RequestRoster starts a background roster fetch unless a result or a
// recorded failure for the team/season already exists (force bypasses both)
// or the same fetch is already running (force does not bypass this). A
// forced request also clears the recorded failure so the viewer stops
// showing a stale error while the retry runs.
func (s *ViewerService) RequestRoster(req RosterRequest) (bool, error) {
	if err := s.validateRequest(req); err != nil {
		return false, err
	}

	key := rosterKey{year: req.SeasonYear, teamID: req.TeamID}
	if req.Force {
		if st, ok := s.rostersBySeason[key]; ok && st.errMsg != "" {
			st.errMsg = ""
			s.rostersBySeason[key] = st
		}
	} else {
		st := s.rostersBySeason[key]
		if st.fetched || st.errMsg != "" {
			return false, nil
		}
	}
	if _, running := s.inflightRosters[key]; running {
		return false, nil
	}
	s.inflightRosters[key] = struct{}{}

	go s.fetchRoster(req.SeasonYear, req.TeamID, req.TeamName)
	return true, nil
}

// Apply folds a completed fetch into the caches. A failed fetch never evicts
// previously cached data; it only records the error for roster lookups.
func (s *ViewerService) Apply(update Update) {
	switch update.Kind {
	case UpdateStandings:
		delete(s.inflightStandings, update.SeasonYear)
		if update.Err == "" && update.Standings != nil {
			s.standingsBySeason[update.SeasonYear] = update.Standings
		}
	case UpdateRoster:
		key := rosterKey{year: update.SeasonYear, teamID: update.TeamID}
		delete(s.inflightRosters, key)
		st := s.rostersBySeason[key]
		if update.Err == "" && update.Players != nil {
			st.players = update.Players
			st.fetched = true
			st.errMsg = ""
		} else {
			st.errMsg = update.Err
			if st.errMsg == "" {
				st.errMsg = "Roster unavailable."
			}
		}
		s.rostersBySeason[key] = st
	}
}

// StandingsFor returns the cached standings for a season, if any.
func (s *ViewerService) StandingsFor(seasonYear int) (map[string]standings.TeamRecord, bool) {
	records, ok := s.standingsBySeason[seasonYear]
	return records, ok
}

// StandingsOrPlaceholder returns cached standings for a season, falling back
// to the offline placeholder table. The boolean reports whether the data is
// live.
func (s *ViewerService) StandingsOrPlaceholder(seasonYear int) (map[string]standings.TeamRecord, bool) {
	if records, ok := s.standingsBySeason[seasonYear]; ok {
		return records, true
	}
	return standings.PlaceholderRecords(), false
}

// RosterFor returns the cached roster for a team and season, if fetched.
func (s *ViewerService) RosterFor(seasonYear int, teamID string) ([]roster.Player, bool) {
	st, ok := s.rostersBySeason[rosterKey{year: seasonYear, teamID: teamID}]
	if !ok || !st.fetched {
		return nil, false
	}
	return st.players, true
}

// RosterError returns the recorded failure for a team and season, if any.
func (s *ViewerService) RosterError(seasonYear int, teamID string) string {
	return s.rostersBySeason[rosterKey{year: seasonYear, teamID: teamID}].errMsg
}

func (s *ViewerService) fetchStandings(seasonYear int) {
	// Detached on purpose: a season that stops being selected is still worth
	// caching once the fetch completes.
	records, err := s.fetcher.FetchStandings(context.Background(), seasonYear)

	update := Update{Kind: UpdateStandings, SeasonYear: seasonYear}
	if err != nil {
		s.logger.Warn("standings fetch failed", "season", seasonYear, "error", err)
		update.Err = CollapseError(err)
	} else {
		update.Standings = records
	}
	s.updates <- update
}

func (s *ViewerService) fetchRoster(seasonYear int, teamID, teamName string) {
	players, err := s.fetcher.FetchRoster(context.Background(), teamID, seasonYear)

	update := Update{
		Kind:       UpdateRoster,
		SeasonYear: seasonYear,
		TeamID:     teamID,
		TeamName:   teamName,
	}
	if err != nil {
		s.logger.Warn("roster fetch failed", "season", seasonYear, "team", teamID, "error", err)
		update.Err = CollapseError(err)
	} else {
		update.Players = players
	}
	s.updates <- update
}

func (s *ViewerService) validateRequest(payload any) error {
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return nil
}
