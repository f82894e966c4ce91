package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"huddle/internal/domain/standings"
	usecasemock "huddle/internal/mocks/usecase"
	"huddle/internal/platform/logging"
)

func TestViewerService_StandingsFetch_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	fetcher := usecasemock.NewStatsFetcher(t)
	svc, err := NewViewerService(ViewerServiceConfig{Fetcher: fetcher, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("new viewer service: %v", err)
	}

	expected := map[string]standings.TeamRecord{
		"Buffalo Bills": {Record: "11-6", Wins: 11, Losses: 6, ExternalID: "2"},
	}
	fetcher.
		On("FetchStandings", mock.Anything, 2024).
		Return(expected, nil).
		Once()

	started, err := svc.RequestStandings(StandingsRequest{SeasonYear: 2024})
	mustStart(t, started, err)

	update := awaitUpdate(t, svc)
	if update.Err != "" {
		t.Fatalf("unexpected fetch error: %s", update.Err)
	}
	svc.Apply(update)

	records, ok := svc.StandingsFor(2024)
	if !ok {
		t.Fatal("expected standings to be cached")
	}
	if records["Buffalo Bills"].Record != "11-6" {
		t.Fatalf("unexpected record: got=%s want=11-6", records["Buffalo Bills"].Record)
	}
}

func TestViewerService_RosterFetch_FailureUsingMockery(t *testing.T) {
	t.Parallel()

	fetcher := usecasemock.NewStatsFetcher(t)
	svc, err := NewViewerService(ViewerServiceConfig{Fetcher: fetcher, Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("new viewer service: %v", err)
	}

	fetcher.
		On("FetchRoster", mock.Anything, "12", 2024).
		Return(nil, errors.New("espn network failure: status=503")).
		Once()

	started, err := svc.RequestRoster(RosterRequest{SeasonYear: 2024, TeamID: "12", TeamName: "Kansas City Chiefs"})
	mustStart(t, started, err)

	update := awaitUpdate(t, svc)
	want := "fetch failed, reason: espn network failure: status=503"
	if update.Err != want {
		t.Fatalf("unexpected collapsed error: got=%q want=%q", update.Err, want)
	}
	svc.Apply(update)

	if got := svc.RosterError(2024, "12"); got != want {
		t.Fatalf("unexpected recorded error: got=%q want=%q", got, want)
	}
	if _, ok := svc.RosterFor(2024, "12"); ok {
		t.Fatal("expected no roster rows after a failed fetch")
	}
}
