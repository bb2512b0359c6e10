package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hierarchicalmenu/profilefield/internal/config"
	"hierarchicalmenu/profilefield/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// TreeImporter fetches a category tree published at a remote URL. The
// document is either the stored JSON form or an HTML page with nested lists.
type TreeImporter interface {
	Import(ctx context.Context, url string) (domain.CategoryTree, error)
}

type treeImporter struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	parser     *treeParser
}

func NewTreeImporter(cfg config.ImporterConfig) TreeImporter {
	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json,text/html;q=0.9,*/*;q=0.8")

	return &treeImporter{
		rl:         ratelimit.New(rps),
		httpClient: client,
		parser:     newTreeParser(),
	}
}

func (c *treeImporter) Import(ctx context.Context, url string) (domain.CategoryTree, error) {
	body, contentType, err := c.fetch(ctx, url)
	if err != nil {
		return domain.CategoryTree{}, fmt.Errorf("failed to fetch category tree: %w", err)
	}

	if isJSON(body, contentType) {
		tree, err := domain.ParseTree(body)
		if err != nil {
			return domain.CategoryTree{}, fmt.Errorf("failed to decode category tree from %s: %w", url, err)
		}
		log.Debugf("Imported JSON tree from %s with %d roots", url, len(tree.Items))
		return tree, nil
	}

	tree, err := c.parser.ParseTree(body)
	if err != nil {
		return domain.CategoryTree{}, fmt.Errorf("failed to parse category tree from %s: %w", url, err)
	}
	log.Debugf("Imported HTML tree from %s with %d roots", url, len(tree.Items))
	return tree, nil
}

func (c *treeImporter) fetch(ctx context.Context, url string) (string, string, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", "", fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return "", "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return resp.String(), resp.Header().Get("Content-Type"), nil
}

func isJSON(body, contentType string) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "{")
}
