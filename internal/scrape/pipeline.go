package scrape

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"jobharvest/internal/domain"
	"jobharvest/internal/scrape/types"
	"jobharvest/internal/skills"
)

type PageSource interface {
	FetchPage(ctx context.Context, offset int) (*goquery.Document, error)
}

type DetailSource interface {
	FetchDetail(ctx context.Context, url string) (*goquery.Document, error)
}

type Options struct {
	PageSize  int
	MaxOffset int
	// SiteURL is what relative detail links are resolved against.
	SiteURL       string
	ExcludeTitles []string
	Selectors     Selectors
	// Workers bounds concurrent detail fetches within one page.
	Workers int
}

// Pipeline walks the listing pages in offset order, drops repeated and
// excluded titles, and turns the rest into NormalizedJobs.
type Pipeline struct {
	opts    Options
	pages   PageSource
	details DetailSource
	matcher *skills.Matcher
	logger  *slog.Logger
}

func New(opts Options, pages PageSource, details DetailSource, matcher *skills.Matcher, logger *slog.Logger) *Pipeline {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Pipeline{opts: opts, pages: pages, details: details, matcher: matcher, logger: logger}
}

// Run processes offsets 0, PageSize, ... up to MaxOffset. Page and candidate
// failures are recorded and skipped. Only context cancellation stops a run
// early, in which case the partial result is returned with the error.
func (p *Pipeline) Run(ctx context.Context) (types.RunResult, error) {
	res := types.RunResult{RunID: uuid.NewString()}
	log := p.logger.With("run_id", res.RunID)
	seen := newSeenTitles()

	log.Info("scrape started", "max_offset", p.opts.MaxOffset, "page_size", p.opts.PageSize, "workers", p.opts.Workers)

	for offset := 0; offset <= p.opts.MaxOffset; offset += p.opts.PageSize {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Pages++
		doc, err := p.pages.FetchPage(ctx, offset)
		if err != nil {
			res.PagesFailed++
			log.Warn("listing page failed, skipping", "offset", offset, "error", err)
			continue
		}

		exts := ExtractCandidates(doc, p.opts.Selectors, p.opts.SiteURL)
		res.Candidates += len(exts)

		var work []domain.JobPosting
		for _, e := range exts {
			if !e.OK() {
				res.Skips = append(res.Skips, types.Skip{Offset: offset, Title: e.Posting.Title, Reason: e.Skip, Detail: e.Detail})
				log.Debug("candidate skipped", "offset", offset, "title", e.Posting.Title, "reason", e.Skip, "detail", e.Detail)
				continue
			}
			title := e.Posting.Title
			if !seen.add(title) {
				res.Skips = append(res.Skips, types.Skip{Offset: offset, Title: title, Reason: types.SkipDuplicate})
				log.Debug("duplicate title", "offset", offset, "title", title)
				continue
			}
			if keep, hit := ShouldEnrich(title, p.opts.ExcludeTitles); !keep {
				res.Skips = append(res.Skips, types.Skip{Offset: offset, Title: title, Reason: types.SkipExcluded, Detail: hit})
				log.Info("title excluded", "offset", offset, "title", title, "match", hit)
				continue
			}
			work = append(work, e.Posting)
		}

		jobs, skips := p.enrichPage(ctx, offset, work, log)
		res.Jobs = append(res.Jobs, jobs...)
		res.Skips = append(res.Skips, skips...)

		log.Info("page processed", "offset", offset, "candidates", len(exts), "kept", len(jobs))
	}

	log.Info("scrape finished",
		"pages", res.Pages,
		"pages_failed", res.PagesFailed,
		"candidates", res.Candidates,
		"unique_titles", seen.len(),
		"jobs", len(res.Jobs),
	)
	return res, nil
}

type outcome struct {
	job  *domain.NormalizedJob
	skip *types.Skip
}

// enrichPage fans detail fetches out to at most Workers goroutines and
// returns results in card order.
func (p *Pipeline) enrichPage(ctx context.Context, offset int, work []domain.JobPosting, log *slog.Logger) ([]domain.NormalizedJob, []types.Skip) {
	out := make([]outcome, len(work))

	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, post := range work {
		g.Go(func() error {
			out[i] = p.enrichOne(ctx, offset, post, log)
			return nil
		})
	}
	_ = g.Wait()

	var jobs []domain.NormalizedJob
	var skips []types.Skip
	for _, o := range out {
		if o.job != nil {
			jobs = append(jobs, *o.job)
		} else if o.skip != nil {
			skips = append(skips, *o.skip)
		}
	}
	return jobs, skips
}

func (p *Pipeline) enrichOne(ctx context.Context, offset int, post domain.JobPosting, log *slog.Logger) outcome {
	skip := func(reason types.SkipReason, detail string) outcome {
		log.Info("posting dropped", "offset", offset, "title", post.Title, "reason", reason, "detail", detail)
		return outcome{skip: &types.Skip{Offset: offset, Title: post.Title, Reason: reason, Detail: detail}}
	}

	loc, anomaly := ParseLocation(post.LocationText)
	if anomaly != "" {
		log.Debug("location not in City, ST form", "title", post.Title, "location", post.LocationText, "anomaly", anomaly)
	}

	doc, err := p.details.FetchDetail(ctx, post.DetailURL)
	if err != nil {
		return skip(types.SkipDetailUnavailable, err.Error())
	}
	desc, ok := Description(doc, p.opts.Selectors)
	if !ok {
		return skip(types.SkipMalformed, "no description")
	}

	matched := p.matcher.Match(desc)
	if len(matched) == 0 {
		return skip(types.SkipNoSkills, "")
	}

	log.Debug("posting accepted", "offset", offset, "title", post.Title, "skills", len(matched))
	return outcome{job: &domain.NormalizedJob{
		Title:   post.Title,
		Company: post.Company,
		City:    loc.City,
		State:   loc.State,
		URL:     post.DetailURL,
		Skills:  matched,
	}}
}
