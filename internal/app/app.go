package app

import (
	"io"

	"huddle/external/espn"
	"huddle/internal/config"
	"huddle/internal/interfaces/termui"
	"huddle/internal/metrics"
	"huddle/internal/platform/logging"
	"huddle/internal/usecase"
)

// NewViewer wires the ESPN client, the viewer service, and the terminal
// controller together. Output goes to out; diagnostics go to the logger.
func NewViewer(cfg config.Config, logger *logging.Logger, out io.Writer) (*termui.Controller, error) {
	recorder := metrics.NewRecorder()

	client := espn.NewClient(espn.ClientConfig{
		SiteAPIBaseURL:  cfg.ESPNSiteAPIBaseURL,
		CoreAPIBaseURL:  cfg.ESPNCoreAPIBaseURL,
		Timeout:         cfg.ESPNTimeout,
		RosterPageLimit: cfg.RosterPageLimit,
		RosterWorkers:   cfg.RosterWorkers,
		CollegeWorkers:  cfg.CollegeWorkers,
		Logger:          logger,
		Metrics:         recorder,
	})

	svc, err := usecase.NewViewerService(usecase.ViewerServiceConfig{
		Fetcher:      client,
		Logger:       logger,
		UpdateBuffer: cfg.UpdateBuffer,
	})
	if err != nil {
		return nil, err
	}

	return termui.NewController(termui.ControllerConfig{
		Service: svc,
		Metrics: recorder,
		Writer:  out,
		Logger:  logger,
	})
}
