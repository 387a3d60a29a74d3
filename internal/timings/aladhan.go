package timings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/minaret/internal/models"
	"golang.org/x/time/rate"
)

// AladhanBaseURL is the public AlAdhan API root.
const AladhanBaseURL = "https://api.aladhan.com/v1"

// DefaultMethod is the calculation method passed to AlAdhan (2 = ISNA).
const DefaultMethod = 2

const aladhanDateLayout = "02-01-2006"

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors for the AlAdhan provider.
var (
	ErrAladhanBadCode      = errors.New("aladhan API returned a non-200 code")
	ErrAladhanEmptyTimings = errors.New("aladhan API returned no timings")
	ErrAladhanEmptyHijri   = errors.New("aladhan API returned no hijri date")
	ErrAladhanEmptyCity    = errors.New("aladhan provider got empty city")
)

// AladhanProvider implements Provider using the AlAdhan prayer times API.
type AladhanProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the AlAdhan API
	method  int           // Calculation method
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Rate limiter
}

type aladhanHijri struct {
	Day   string `json:"day"`
	Month struct {
		En string `json:"en"`
	} `json:"month"`
	Year string `json:"year"`
}

type aladhanTimingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
		Date    struct {
			Hijri *aladhanHijri `json:"hijri"`
		} `json:"date"`
	} `json:"data"`
}

type aladhanHijriResponse struct {
	Code int `json:"code"`
	Data struct {
		Hijri *aladhanHijri `json:"hijri"`
	} `json:"data"`
}

// NewAladhanProvider creates a provider talking to the public AlAdhan endpoint.
func NewAladhanProvider(method, rateLimit int, log *slog.Logger) *AladhanProvider {
	const timeout = 10

	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	return NewAladhanProviderWithClient(
		&http.Client{Timeout: timeout * time.Second},
		AladhanBaseURL,
		method,
		limiter,
		log,
	)
}

// NewAladhanProviderWithClient allows injecting a custom HTTP client, endpoint and limiter.
func NewAladhanProviderWithClient(
	client HTTPClient,
	baseURL string,
	method int,
	limiter *rate.Limiter,
	log *slog.Logger,
) *AladhanProvider {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &AladhanProvider{
		client:  client,
		baseURL: baseURL,
		method:  method,
		log:     log,
		limiter: limiter,
	}
}

// Timings fetches the five daily prayer times of a city for the given date.
func (ap *AladhanProvider) Timings(
	ctx context.Context,
	city, country string,
	date time.Time,
) (*models.DailyTimings, error) {
	if city == "" {
		return nil, ErrAladhanEmptyCity
	}

	query := url.Values{}
	query.Set("city", city)
	query.Set("country", country)
	query.Set("method", fmt.Sprint(ap.method))

	var resp aladhanTimingsResponse
	if err := ap.get(ctx, "/timingsByCity/"+date.Format(aladhanDateLayout), query, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrAladhanBadCode, resp.Code)
	}

	daily := &models.DailyTimings{Date: date, Timings: make(map[models.PrayerName]string, len(models.CanonicalPrayers))}
	for _, prayer := range models.CanonicalPrayers {
		if value, ok := resp.Data.Timings[string(prayer)]; ok {
			daily.Timings[prayer] = value
		}
	}
	if len(daily.Timings) == 0 {
		return nil, ErrAladhanEmptyTimings
	}
	if h := resp.Data.Date.Hijri; h != nil {
		daily.Hijri = &models.HijriDate{Day: h.Day, Month: h.Month.En, Year: h.Year}
	}

	ap.log.DebugContext(ctx, "AlAdhan timings received", "city", city, "country", country, "count", len(daily.Timings))

	return daily, nil
}

// HijriDate converts a Gregorian date to the Hijri calendar.
func (ap *AladhanProvider) HijriDate(ctx context.Context, date time.Time) (*models.HijriDate, error) {
	query := url.Values{}
	query.Set("date", date.Format(aladhanDateLayout))

	var resp aladhanHijriResponse
	if err := ap.get(ctx, "/gToH", query, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrAladhanBadCode, resp.Code)
	}
	if resp.Data.Hijri == nil {
		return nil, ErrAladhanEmptyHijri
	}
	h := resp.Data.Hijri

	return &models.HijriDate{Day: h.Day, Month: h.Month.En, Year: h.Year}, nil
}

func (ap *AladhanProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := ap.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	reqURL, err := url.Parse(ap.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	reqURL.RawQuery = query.Encode()

	ap.log.DebugContext(ctx, "AlAdhan request URL", "url", reqURL.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ap.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute aladhan request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		ap.log.ErrorContext(ctx, "AlAdhan API error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("aladhan API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode aladhan response: %w", err)
	}

	return nil
}
