package dataset

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"university-browser-backend/config"
	"university-browser-backend/internal/model"
	"university-browser-backend/internal/parse"
)

// SourceDB selects the mirrored database table as the dataset source.
const SourceDB = "db"

// RecordLister reads previously mirrored records.
type RecordLister interface {
	ListUniversities(ctx context.Context) ([]model.University, error)
}

// Loader performs the one-time load of the university table.
type Loader struct {
	cfg    *config.DatasetConfig
	dates  *parse.DateParser
	client *http.Client
	lister RecordLister
}

// NewLoader builds a loader for cfg. lister may be nil unless the source is "db".
func NewLoader(cfg *config.DatasetConfig, lister RecordLister) (*Loader, error) {
	dates, err := parse.NewDateParser(cfg.DateLayouts, cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Dataset download will not use a proxy.", cfg.HTTPProxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Loader{
		cfg:   cfg,
		dates: dates,
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		lister: lister,
	}, nil
}

// Load reads every record from the configured source.
func (l *Loader) Load(ctx context.Context) ([]model.University, error) {
	src := l.cfg.Source
	switch {
	case src == SourceDB:
		if l.lister == nil {
			return nil, fmt.Errorf("dataset source %q requires an enabled database", SourceDB)
		}
		records, err := l.lister.ListUniversities(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read universities from database: %w", err)
		}
		log.Printf("Loaded %d universities from database", len(records))
		return records, nil
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return l.loadURL(ctx, src)
	default:
		return l.loadFile(src)
	}
}

func (l *Loader) loadFile(path string) ([]model.University, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadCSV(f, l.dates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	log.Printf("Loaded %d universities from %s", len(records), path)
	return records, nil
}

func (l *Loader) loadURL(ctx context.Context, src string) ([]model.University, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	records, err := ReadCSV(resp.Body, l.dates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src, err)
	}
	log.Printf("Loaded %d universities from %s", len(records), src)
	return records, nil
}
