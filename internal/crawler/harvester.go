package crawler

import (
	"context"
	stderrors "errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/KamilKwapisz/car-prices/helpers"
	"github.com/KamilKwapisz/car-prices/logger"
	"github.com/KamilKwapisz/car-prices/services/cache"
)

// selectorOfferLink matches the listing anchors on a search-results page
const selectorOfferLink = "a.offer-title__link"

// Harvester walks the paginated search results for one make/model and
// collects listing URLs in document order. URLs are not deduplicated.
type Harvester struct {
	startingURL string
	pagesLimit  int
	carName     string

	// Optional cooldown cache; when the site answers with a rate-limit
	// status, further fetches are skipped for blockTime.
	cacheSvc  cache.CacheService
	cacheKey  string
	blockTime time.Duration

	log *logger.Logger
}

// NewHarvester creates a harvester for a search-results URL. The URL is
// normalized to carry a page parameter so pagination can rewrite it.
func NewHarvester(startingURL string, pagesLimit int, cacheSvc cache.CacheService, blockTime time.Duration) *Harvester {
	normalized := normalizeStartingURL(startingURL)
	carName := carNameFromURL(normalized)

	return &Harvester{
		startingURL: normalized,
		pagesLimit:  pagesLimit,
		carName:     carName,
		cacheSvc:    cacheSvc,
		cacheKey:    "car_prices_" + carName + "_cooldown",
		blockTime:   blockTime,
		log:         logger.ForCrawl(carName),
	}
}

// CarName returns the make_model label derived from the starting URL,
// used for logging only.
func (h *Harvester) CarName() string {
	return h.carName
}

// Harvest fetches up to pagesLimit result pages and returns the listing
// URLs found, in document order. A failed page fetch contributes no URLs
// and the loop moves on; cancelling ctx stops the loop early with
// whatever was collected so far.
func (h *Harvester) Harvest(ctx context.Context) []string {
	base := strings.TrimRight(h.startingURL, "0123456789")

	var links []string
	for page := 1; page <= h.pagesLimit; page++ {
		select {
		case <-ctx.Done():
			h.log.Warn().Int("page", page).Msg("Harvest cancelled")
			return links
		default:
		}

		pageURL := base + strconv.Itoa(page)
		h.log.Info().Str("url", pageURL).Int("page", page).Msg("Fetching results page")

		body, err := h.fetchPage(pageURL)
		if err != nil {
			h.log.Warn().Err(err).Str("url", pageURL).Msg("Results page fetch failed, skipping")
			continue
		}

		doc, err := goquery.NewDocumentFromReader(body)
		if err != nil {
			h.log.Warn().Err(err).Str("url", pageURL).Msg("Results page parse failed, skipping")
			continue
		}

		links = append(links, listingLinks(doc)...)
	}

	h.log.Info().Int("links", len(links)).Msg("Listing URL list created")
	return links
}

// fetchPage fetches one results page, honoring the cooldown cache when
// one is configured
func (h *Harvester) fetchPage(url string) (io.Reader, error) {
	if h.cacheSvc != nil {
		if _, err := h.cacheSvc.Get(h.cacheKey); err == nil {
			return nil, helpers.ErrRateLimited
		}
	}

	body, err := helpers.FetchWithRandomHeaders(url)
	if err != nil {
		if h.cacheSvc != nil && isRateLimited(err) {
			if setErr := h.cacheSvc.Set(h.cacheKey, []byte("1"), h.blockTime); setErr != nil {
				h.log.Warn().Err(setErr).Msg("Failed to set cooldown")
			}
		}
		return nil, err
	}

	return body, nil
}

func isRateLimited(err error) bool {
	return stderrors.Is(err, helpers.ErrRateLimited)
}

// listingLinks extracts listing hrefs from a results document, omitting
// anchors without an href attribute
func listingLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(selectorOfferLink).Each(func(_ int, anchor *goquery.Selection) {
		if href, ok := anchor.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

// normalizeStartingURL ensures the URL ends with a page parameter the
// pagination loop can rewrite
func normalizeStartingURL(url string) string {
	if strings.Contains(url, "page=") {
		return url
	}
	switch {
	case strings.HasSuffix(url, "?"):
		return url + "page=1"
	case strings.Contains(url, "?"):
		return url + "&page=1"
	default:
		return url + "?page=1"
	}
}

// carNameFromURL derives a make_model label from the last two non-empty
// path segments of the search URL, e.g. "volkswagen_golf"
func carNameFromURL(url string) string {
	if i := strings.Index(url, "?"); i >= 0 {
		url = url[:i]
	}

	var segments []string
	for _, segment := range strings.Split(url, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	if len(segments) < 2 {
		return "unknown"
	}
	return strings.Join(segments[len(segments)-2:], "_")
}
