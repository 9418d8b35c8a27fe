package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/html/charset"
)

// ErrRateLimited marks a fetch rejected by the remote site with a
// 429-class status. The harvester uses it to start a cooldown window.
var ErrRateLimited = errors.New("rate limited")

// Desktop user agents, one pool per OS family (mac/linux/win)
var (
	userAgents = []string{
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.5 Safari/605.1.15",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.google.pl/",
		"https://www.bing.com/",
	}

	// Shared HTTP client. The timeout bounds every request so a hung
	// connection cannot stall the whole crawl.
	client = &http.Client{
		Timeout: 10 * time.Second,
	}

	// Extra attempts after a failed fetch. Zero by default: a failed
	// page or listing is simply lost.
	fetchRetries = 0
)

// SetRequestTimeout overrides the shared client timeout. Called once from
// main before any fetch.
func SetRequestTimeout(d time.Duration) {
	if d > 0 {
		client.Timeout = d
	}
}

// SetFetchRetries sets how many times a failed fetch is re-attempted.
// Called once from main before any fetch.
func SetFetchRetries(n int) {
	if n >= 0 {
		fetchRetries = n
	}
}

// RandomUserAgent returns a plausible desktop user-agent string from the
// mac/linux/win pool.
func RandomUserAgent() string {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	return userAgents[rnd.Intn(len(userAgents))]
}

// FetchSimply sends a plain HTTP GET with only a randomized User-Agent
// header and returns the response body. Used for listing detail pages.
func FetchSimply(url string) ([]byte, error) {
	var data []byte
	err := withRetries(func() error {
		var err error
		data, err = fetchSimplyOnce(url)
		return err
	})
	return data, err
}

func fetchSimplyOnce(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", RandomUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// FetchWithRandomHeaders sends an HTTP GET request with randomized
// browser-like headers, converts the response body to UTF-8 (if needed),
// and returns it as an io.Reader. Used for search-results pages.
func FetchWithRandomHeaders(url string) (io.Reader, error) {
	var body io.Reader
	err := withRetries(func() error {
		var err error
		body, err = fetchWithRandomHeadersOnce(url)
		return err
	})
	return body, err
}

// withRetries runs fetch up to 1+fetchRetries times, stopping on the
// first success or on a rate-limit response
func withRetries(fetch func() error) error {
	var err error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		err = fetch()
		if err == nil || errors.Is(err, ErrRateLimited) {
			return err
		}
	}
	return err
}

func fetchWithRandomHeadersOnce(url string) (io.Reader, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("referer", referers[rnd.Intn(len(referers))])
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("upgrade-insecure-requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		retryAfter := resp.Header.Get("Retry-After")
		return nil, fmt.Errorf("%w; retry after %s", ErrRateLimited, retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s unexpected status code: %d", url, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}
