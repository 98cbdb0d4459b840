// Package covers downloads IGDB cover images for the titles of each list
// into one shared directory.
package covers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/gamerank/core/source"
	"github.com/huangsam/gamerank/internal/contract"
	"github.com/huangsam/gamerank/schema"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// UserAgent identifies the downloader to the image host.
const UserAgent = "gamerank/cover-downloader"

const defaultMaxRetries = 3

var yearSuffix = regexp.MustCompile(`^(.*)\s+\((\d{4})\)$`)

// Options configures a Downloader.
type Options struct {
	Dir        string
	Size       schema.CoverSize
	BaseURL    string
	Force      bool
	Parallel   int
	RateLimit  float64 // requests per second, 0 for unlimited
	Timeout    time.Duration
	MaxRetries int
}

// OptionsFromConfig maps the validated CLI config onto downloader options.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		Dir:       cfg.CoversDir,
		Size:      cfg.CoverSize,
		BaseURL:   cfg.CoverBaseURL,
		Force:     cfg.Force,
		Parallel:  cfg.Parallel,
		RateLimit: cfg.RateLimit,
		Timeout:   cfg.Timeout,
	}
}

// Downloader fetches cover images with bounded parallelism.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    Options
}

// NewDownloader creates a Downloader, filling unset options with defaults.
func NewDownloader(opts Options) *Downloader {
	if opts.Dir == "" {
		opts.Dir = contract.DefaultCoversDir
	}
	if opts.Size == "" {
		opts.Size = schema.BothCovers
	}
	if opts.BaseURL == "" {
		opts.BaseURL = contract.DefaultCoverBase
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Parallel <= 0 {
		opts.Parallel = contract.DefaultParallel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit)))
	}

	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: limiter,
		opts:    opts,
	}
}

// BaseTitle strips a trailing " (YYYY)" from a display title.
func BaseTitle(title string) string {
	title = strings.TrimSpace(title)
	if m := yearSuffix.FindStringSubmatch(title); m != nil {
		title = m[1]
	}
	return strings.TrimSpace(title)
}

// CoverCodes reads the picked source files and returns the distinct cover
// codes of the list, in first-seen order. Only the first code seen for a
// title counts.
func CoverCodes(picks []schema.SourcePick) ([]string, error) {
	byTitle := make(map[string]struct{})
	seen := make(map[string]struct{})
	var codes []string
	for _, p := range picks {
		rows, err := source.ReadRows(p.Path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			title := BaseTitle(row.Title)
			code := strings.TrimSpace(row.CoverImageID)
			if title == "" || code == "" {
				continue
			}
			if _, ok := byTitle[title]; ok {
				continue
			}
			byTitle[title] = struct{}{}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// Tasks expands codes into one task per requested size.
func (d *Downloader) Tasks(codes []string) []schema.CoverTask {
	variants := d.opts.Size.Variants()
	tasks := make([]schema.CoverTask, 0, len(codes)*len(variants))
	for _, code := range codes {
		for _, size := range variants {
			tasks = append(tasks, schema.CoverTask{
				Code: code,
				Size: size,
				URL:  coverURL(d.opts.BaseURL, code, size),
				Dest: filepath.Join(d.opts.Dir, fmt.Sprintf("%s_%s.jpg", code, size)),
			})
		}
	}
	return tasks
}

func coverURL(base, code string, size schema.CoverSize) string {
	variant := "t_cover_big"
	if size == schema.SmallCover {
		variant = "t_cover_small"
	}
	return fmt.Sprintf("%s/%s/%s.jpg", base, variant, code)
}

// validCode rejects codes that would escape the covers directory.
func validCode(code string) bool {
	return code != "" && !strings.ContainsAny(code, `/\`) && !strings.Contains(code, "..")
}

// DownloadList fetches every cover of one list. Individual task failures are
// counted, never returned; only reading the list's sources can fail.
func (d *Downloader) DownloadList(ctx context.Context, listName string, picks []schema.SourcePick) (schema.CoverStats, error) {
	stats := schema.CoverStats{List: listName}
	codes, err := CoverCodes(picks)
	if err != nil {
		return stats, eris.Wrapf(err, "read covers for %s", listName)
	}
	for _, r := range d.Run(ctx, d.Tasks(codes)) {
		stats.Add(r)
	}
	return stats, nil
}

// Run executes tasks on a bounded pool and returns their outcomes in task order.
func (d *Downloader) Run(ctx context.Context, tasks []schema.CoverTask) []schema.CoverResult {
	results := make([]schema.CoverResult, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Parallel)
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = d.runTask(gctx, task)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Downloader) runTask(ctx context.Context, task schema.CoverTask) schema.CoverResult {
	log := zap.L().With(zap.String("code", task.Code), zap.String("size", string(task.Size)))

	if !validCode(task.Code) {
		err := eris.Errorf("invalid cover code %q", task.Code)
		log.Warn("Cover rejected", zap.Error(err))
		return schema.CoverResult{Task: task, Outcome: schema.CoverFailed, Err: err}
	}
	if !d.opts.Force && fileExists(task.Dest) {
		log.Debug("Cover exists")
		return schema.CoverResult{Task: task, Outcome: schema.CoverSkipped}
	}
	if err := d.fetchToFile(ctx, task.URL, task.Dest); err != nil {
		log.Warn("Cover download failed", zap.String("url", task.URL), zap.Error(err))
		return schema.CoverResult{Task: task, Outcome: schema.CoverFailed, Err: err}
	}
	log.Debug("Cover downloaded", zap.String("dest", task.Dest))
	return schema.CoverResult{Task: task, Outcome: schema.CoverDownloaded}
}
