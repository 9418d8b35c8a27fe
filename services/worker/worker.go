package worker

import (
	"context"
	"encoding/json"

	"github.com/KamilKwapisz/car-prices/internal/crawler"
	"github.com/KamilKwapisz/car-prices/logger"
	"github.com/KamilKwapisz/car-prices/pkg/errors"
	"github.com/KamilKwapisz/car-prices/services/publisher"
	"github.com/KamilKwapisz/car-prices/services/storage"
)

// LinkHarvester produces the ordered listing URLs for one crawl
type LinkHarvester interface {
	Harvest(ctx context.Context) []string
	CarName() string
}

// ListingParser extracts a car record from one listing URL
type ListingParser interface {
	Parse(url string) (*crawler.CarRecord, error)
}

// Stats summarizes one crawl run
type Stats struct {
	LinksFound  int
	Written     int
	Rejected    int
	FetchErrors int
	WriteErrors int
	OtherErrors int
}

// Worker drives one crawl session: harvest the listing URLs, then fetch,
// parse and persist each listing in sequence. No per-listing failure
// aborts the run; the only ways it ends are list exhaustion and context
// cancellation.
type Worker struct {
	harvester LinkHarvester
	parser    ListingParser
	store     storage.Store
	pub       publisher.Publisher
	log       *logger.Logger
}

// NewWorker creates a new worker. pub may be nil when no downstream
// publisher is configured.
func NewWorker(harvester LinkHarvester, parser ListingParser, store storage.Store, pub publisher.Publisher) *Worker {
	return &Worker{
		harvester: harvester,
		parser:    parser,
		store:     store,
		pub:       pub,
		log:       logger.ForComponent("worker"),
	}
}

// Run executes the crawl and closes the store once the listing list is
// exhausted (or the context is cancelled)
func (w *Worker) Run(ctx context.Context) Stats {
	defer func() {
		if err := w.store.Close(); err != nil {
			w.log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	var stats Stats

	links := w.harvester.Harvest(ctx)
	stats.LinksFound = len(links)

	for _, link := range links {
		select {
		case <-ctx.Done():
			w.log.Warn().Msg("Crawl cancelled")
			return stats
		default:
		}

		w.processListing(link, &stats)
	}

	return stats
}

// processListing handles one listing URL end to end. Errors are counted
// by class and logged, never propagated.
func (w *Worker) processListing(link string, stats *Stats) {
	record, err := w.parser.Parse(link)
	if err != nil {
		switch {
		case errors.IsIncomplete(err):
			stats.Rejected++
			w.log.Info().Str("url", link).Err(err).Msg("Rejected fake ad")
		case errors.IsNetwork(err):
			stats.FetchErrors++
			w.log.Warn().Str("url", link).Err(err).Msg("Listing fetch failed")
		default:
			stats.OtherErrors++
			w.log.Warn().Str("url", link).Err(err).Msg("Listing parse failed")
		}
		return
	}

	if err := w.store.Append(*record); err != nil {
		stats.WriteErrors++
		w.log.Error().Str("url", link).Err(err).Msg("Failed to persist record")
		return
	}
	stats.Written++

	w.publish(*record)
}

// publish sends the record downstream when a publisher is configured.
// Publish failures are logged only; the CSV row already exists.
func (w *Worker) publish(record crawler.CarRecord) {
	if w.pub == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to marshal record")
		return
	}

	if err := w.pub.Publish(data); err != nil {
		w.log.Warn().Err(err).Msg("Failed to publish record")
	}
}
