// Package weather fetches the latest outdoor temperature for a station from
// a weather-observation HTTP endpoint.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tutu-network/statbar/internal/domain"
)

// Data source names.
const (
	SourceNWS   = "nws"
	SourceMETAR = "metar"
	SourceLine  = "line"
)

// Default endpoints; {station} is replaced with the station identifier.
const (
	DefaultNWSURL   = "https://api.weather.gov/stations/{station}/observations/latest"
	DefaultMETARURL = "https://tgftp.nws.noaa.gov/data/observations/metar/stations/{station}.TXT"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "statbar (https://github.com/tutu-network/statbar)"
	maxBodyBytes     = 1 << 20
)

// Config selects the source and station.
type Config struct {
	Source    string        // nws, metar or line
	Station   string        // station identifier, e.g. KBOS
	URL       string        // endpoint template; defaults per source
	Units     string        // output unit, F or C
	LineUnit  string        // unit of a "line" source's number
	Timeout   time.Duration // per-request timeout
	UserAgent string
}

func normalizeConfig(cfg Config) (Config, error) {
	n := cfg
	if n.Source == "" {
		n.Source = SourceNWS
	}
	if n.URL == "" {
		switch n.Source {
		case SourceNWS:
			n.URL = DefaultNWSURL
		case SourceMETAR:
			n.URL = DefaultMETARURL
		case SourceLine:
			return n, fmt.Errorf("weather source %q requires a url", SourceLine)
		}
	}
	switch n.Source {
	case SourceNWS, SourceMETAR, SourceLine:
	default:
		return n, fmt.Errorf("%w %q for mode tmp", domain.ErrUnknownSource, n.Source)
	}
	n.Units = strings.ToUpper(n.Units)
	if n.Units != domain.Celsius {
		n.Units = domain.Fahrenheit
	}
	n.LineUnit = strings.ToUpper(n.LineUnit)
	if n.LineUnit != domain.Celsius {
		n.LineUnit = domain.Fahrenheit
	}
	if n.Timeout <= 0 {
		n.Timeout = defaultTimeout
	}
	if n.UserAgent == "" {
		n.UserAgent = defaultUserAgent
	}
	return n, nil
}

// Fetcher implements domain.Provider for the tmp mode.
type Fetcher struct {
	config Config
	client *http.Client
}

// NewFetcher validates cfg and creates a fetcher.
func NewFetcher(cfg Config) (*Fetcher, error) {
	n, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		config: n,
		client: &http.Client{Timeout: n.Timeout},
	}, nil
}

// Mode returns domain.ModeTemperature.
func (f *Fetcher) Mode() domain.Mode { return domain.ModeTemperature }

// Source returns the configured source name.
func (f *Fetcher) Source() string { return f.config.Source }

// URL returns the endpoint for the configured station.
func (f *Fetcher) URL() string {
	return strings.ReplaceAll(f.config.URL, "{station}", f.config.Station)
}

// Read fetches and parses one observation.
func (f *Fetcher) Read(ctx context.Context) (domain.Sample, error) {
	body, err := f.fetch(ctx)
	if err != nil {
		return domain.Sample{}, err
	}

	var r Reading
	switch f.config.Source {
	case SourceNWS:
		r, err = ParseNWS(body)
	case SourceMETAR:
		r, err = ParseMETAR(body, f.config.Station)
	case SourceLine:
		r, err = ParseLine(body, f.config.LineUnit)
	}
	if err != nil {
		return domain.Sample{}, fmt.Errorf("station %s: %w", f.config.Station, err)
	}

	return domain.Sample{
		Mode:    domain.ModeTemperature,
		Source:  f.config.Source,
		Value:   r.In(f.config.Units),
		Unit:    f.config.Units,
		TakenAt: time.Now(),
	}, nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	url := f.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	if f.config.Source == SourceNWS {
		req.Header.Set("Accept", "application/geo+json")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("get %s: %w: %d", url, domain.ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
