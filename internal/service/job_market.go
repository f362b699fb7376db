package service

import (
	"carevo_backend/internal/config"
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
)

type JobSearchResult struct {
	TotalJobs int                `json:"totalJobs"`
	Jobs      []model.JobListing `json:"jobs"`
}

// JobSearchOutcome is either a result (Source live or cache) or Degraded.
// A degraded lookup must never fail the caller.
type JobSearchOutcome struct {
	Result   JobSearchResult
	Source   model.JobMarketSource
	Degraded error
}

type JobSearcher interface {
	Search(ctx context.Context, role string) JobSearchOutcome
}

const jobListingLimit = 5

type JobMarketClient struct {
	mu         sync.RWMutex
	cfg        config.JobMarketConfig
	cache      JobCache
	httpClient *http.Client
}

func NewJobMarketClient(cfg config.JobMarketConfig, cache JobCache) *JobMarketClient {
	return &JobMarketClient{
		cfg:        cfg,
		cache:      cache,
		httpClient: &http.Client{},
	}
}

// Apply swaps in new settings after a config reload.
func (c *JobMarketClient) Apply(cfg config.JobMarketConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *JobMarketClient) settings() config.JobMarketConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func jobCacheKey(role string) string {
	return "jobmarket:" + strings.ToLower(strings.TrimSpace(role))
}

func (c *JobMarketClient) Search(ctx context.Context, role string) JobSearchOutcome {
	cfg := c.settings()
	key := jobCacheKey(role)

	if c.cache != nil {
		if res, ok := c.cache.Get(ctx, key); ok {
			return JobSearchOutcome{Result: res, Source: model.JobSourceCache}
		}
	}

	if cfg.BaseURL == "" {
		return JobSearchOutcome{Degraded: util.ErrJobSearchUnavailable}
	}

	res, err := c.fetch(ctx, cfg, role)
	if err != nil {
		return JobSearchOutcome{Degraded: fmt.Errorf("%w: %v", util.ErrJobSearchUnavailable, err)}
	}

	if c.cache != nil && cfg.CacheTTL() > 0 {
		c.cache.Set(ctx, key, res, cfg.CacheTTL())
	}
	return JobSearchOutcome{Result: res, Source: model.JobSourceLive}
}

func (c *JobMarketClient) fetch(ctx context.Context, cfg config.JobMarketConfig, role string) (JobSearchResult, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&limit=%d",
		strings.TrimRight(cfg.BaseURL, "/"), url.QueryEscape(role), jobListingLimit)

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	// 所有重试共用一个截止时间，整个查询不超过 timeout
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out JobSearchResult
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("job search http %d: %s", resp.StatusCode, string(body)))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("job search http %d", resp.StatusCode)
		}

		var decoded JobSearchResult
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return backoff.Permanent(fmt.Errorf("decode job search response: %w", err))
		}
		out = decoded
		return nil
	}

	var b backoff.BackOff
	if cfg.MaxRetry() > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = 200 * time.Millisecond
		eb.MaxElapsedTime = cfg.MaxRetry()
		b = eb
	} else {
		b = backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 0)
	}

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return JobSearchResult{}, err
	}
	if out.Jobs == nil {
		out.Jobs = []model.JobListing{}
	}
	return out, nil
}

var mockJobCounts = []struct {
	keywords []string
	count    int
}{
	{[]string{"software", "developer"}, 12400},
	{[]string{"data scientist"}, 5200},
	{[]string{"data"}, 8700},
	{[]string{"product"}, 4300},
	{[]string{"design", "ux"}, 3800},
	{[]string{"devops", "cloud"}, 6100},
	{[]string{"ml", "ai", "machine learning"}, 7500},
	{[]string{"cyber", "security"}, 4900},
	{[]string{"mobile", "ios", "android"}, 3600},
}

// MockJobCount is the deterministic stand-in used when the job search is
// unavailable. The first matching keyword row wins.
func MockJobCount(role string) int {
	lower := strings.ToLower(role)
	for _, row := range mockJobCounts {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				return row.count
			}
		}
	}
	return 2000 + (utf8.RuneCountInString(role)*317)%5000
}
