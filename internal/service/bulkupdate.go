package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"vaultcast/internal/content"
	"vaultcast/internal/media"
	"vaultcast/internal/model"
	"vaultcast/internal/tmdb"
)

// Progress event types.
const (
	ProgressStart = "start"
	ProgressItem  = "item"
	ProgressPause = "pause"
	ProgressDone  = "done"
	ProgressError = "error"
)

// Per-item outcomes.
const (
	StatusUpdated = "updated"
	StatusCreated = "created"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
	StatusMissing = "missing"
)

// Progress is one bulk update event, streamed as a line of NDJSON.
type Progress struct {
	Type     string         `json:"type"`
	Index    int            `json:"index,omitempty"`
	Total    int            `json:"total"`
	Filename string         `json:"filename,omitempty"`
	Status   string         `json:"status,omitempty"`
	Message  string         `json:"message,omitempty"`
	Counts   map[string]int `json:"counts,omitempty"`
}

// BulkOptions configures one bulk update run.
type BulkOptions struct {
	Kind string
	// Dir is the content directory to scan; defaults to the kind's directory.
	Dir           string
	BatchSize     int
	Pause         time.Duration
	OnlyMissing   bool
	CreateMissing bool
}

// BulkUpdater re-fetches TMDb metadata for the files of a content directory.
type BulkUpdater interface {
	// Run processes every video file, calling emit for each event. Item
	// failures are reported and skipped; only an invalid TMDb token or
	// cancellation end the run early. Setup failures return before the start
	// event.
	Run(ctx context.Context, opts BulkOptions, emit func(Progress)) error
}

// BulkMetrics counts processed items per kind and status.
type BulkMetrics struct {
	items *prometheus.CounterVec
}

// NewBulkMetrics registers the bulk update counter on reg.
func NewBulkMetrics(reg prometheus.Registerer) (*BulkMetrics, error) {
	m := &BulkMetrics{
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultcast_bulk_update_items_total",
				Help: "Total number of files processed by the bulk metadata updater.",
			},
			[]string{"kind", "status"},
		),
	}
	if err := reg.Register(m.items); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BulkMetrics) observe(kind, status string) {
	if m == nil {
		return
	}
	m.items.WithLabelValues(kind, status).Inc()
}

type bulkUpdater struct {
	catalog  CatalogService
	lister   content.Lister
	tmdb     tmdb.API
	dirs     map[string]string
	defaults BulkOptions
	metrics  *BulkMetrics
	log      zerolog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewBulkUpdater constructs a BulkUpdater. dirs maps each kind to its content
// directory; defaults supplies BatchSize and Pause when a run leaves them unset.
func NewBulkUpdater(catalog CatalogService, lister content.Lister, api tmdb.API, dirs map[string]string, defaults BulkOptions, metrics *BulkMetrics, log zerolog.Logger) BulkUpdater {
	return &bulkUpdater{
		catalog:  catalog,
		lister:   lister,
		tmdb:     api,
		dirs:     dirs,
		defaults: defaults,
		metrics:  metrics,
		log:      log,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// searchCache memoizes TMDb lookups within one run.
type searchCache struct {
	showIDs map[string]int
	shows   map[int]*tmdb.TVDetails
}

func (b *bulkUpdater) Run(ctx context.Context, opts BulkOptions, emit func(Progress)) error {
	if emit == nil {
		emit = func(Progress) {}
	}
	if !model.ValidKind(opts.Kind) {
		return ErrInvalidKind
	}
	if opts.Dir == "" {
		opts.Dir = b.dirs[opts.Kind]
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = b.defaults.BatchSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.Pause <= 0 {
		opts.Pause = b.defaults.Pause
	}

	listing, err := b.lister.List(ctx, opts.Dir, true)
	if err != nil {
		return fmt.Errorf("list %s: %w", opts.Dir, err)
	}

	total := len(listing.Files)
	counts := map[string]int{}
	emit(Progress{Type: ProgressStart, Total: total, Message: fmt.Sprintf("processing %d file(s) in %s", total, opts.Dir)})
	b.log.Info().Str("kind", opts.Kind).Str("dir", opts.Dir).Int("total", total).Msg("bulk update started")

	cache := &searchCache{showIDs: map[string]int{}, shows: map[int]*tmdb.TVDetails{}}
	for i, f := range listing.Files {
		if err := ctx.Err(); err != nil {
			emit(Progress{Type: ProgressError, Total: total, Message: err.Error()})
			return err
		}

		status, msg, err := b.processFile(ctx, opts, cache, f.Name)
		if err != nil {
			status, msg = StatusFailed, err.Error()
			b.log.Warn().Err(err).Str("kind", opts.Kind).Str("filename", f.Name).Msg("bulk update item failed")
		}
		counts[status]++
		b.metrics.observe(opts.Kind, status)
		emit(Progress{Type: ProgressItem, Index: i + 1, Total: total, Filename: f.Name, Status: status, Message: msg})

		if errors.Is(err, tmdb.ErrUnauthorized) || errors.Is(err, tmdb.ErrNotConfigured) {
			emit(Progress{Type: ProgressError, Total: total, Message: err.Error(), Counts: counts})
			return err
		}

		if n := i + 1; n%opts.BatchSize == 0 && n < total {
			emit(Progress{Type: ProgressPause, Index: n, Total: total, Message: fmt.Sprintf("pausing %s after %d item(s)", opts.Pause, n)})
			if err := b.sleep(ctx, opts.Pause); err != nil {
				emit(Progress{Type: ProgressError, Total: total, Message: err.Error(), Counts: counts})
				return err
			}
		}
	}

	emit(Progress{Type: ProgressDone, Total: total, Counts: counts, Message: "bulk update complete"})
	b.log.Info().Str("kind", opts.Kind).Interface("counts", counts).Msg("bulk update finished")
	return nil
}

func (b *bulkUpdater) processFile(ctx context.Context, opts BulkOptions, cache *searchCache, name string) (string, string, error) {
	existing, err := b.catalog.GetByFilename(ctx, opts.Kind, name)
	switch {
	case errors.Is(err, ErrNotFound):
		if !opts.CreateMissing {
			return StatusMissing, "no catalog record", nil
		}
		existing = nil
	case err != nil:
		return "", "", err
	case opts.OnlyMissing && !existing.NeedsMetadata():
		return StatusSkipped, "metadata already present", nil
	}

	var fetched model.VideoFormData
	if opts.Kind == model.KindTV {
		ep := media.ParseEpisode(path.Base(name))
		if !ep.OK() {
			return StatusSkipped, "no season/episode in filename", nil
		}
		fetched, err = b.fetchEpisode(ctx, cache, media.ShowNameFromPath("", name), *ep.Season, *ep.Episode)
	} else {
		fetched, err = b.fetchMovie(ctx, path.Base(name))
	}
	if err != nil {
		return "", "", err
	}

	if existing == nil {
		form := fetched
		form.Filename = name
		if _, err := b.catalog.Create(ctx, opts.Kind, form); err != nil {
			return "", "", err
		}
		return StatusCreated, form.Title, nil
	}

	form := existing.VideoFormData
	form.Merge(fetched)
	if _, err := b.catalog.Update(ctx, opts.Kind, existing.ID, form); err != nil {
		return "", "", err
	}
	return StatusUpdated, form.Title, nil
}

func (b *bulkUpdater) fetchMovie(ctx context.Context, base string) (model.VideoFormData, error) {
	title := media.CleanTitle(base)
	if title == "" {
		return model.VideoFormData{}, fmt.Errorf("no title in %q", base)
	}
	results, err := b.tmdb.SearchMovie(ctx, title, media.YearFromName(base))
	if err != nil {
		return model.VideoFormData{}, err
	}
	if len(results) == 0 {
		return model.VideoFormData{}, fmt.Errorf("no TMDb match for %q", title)
	}
	d, err := b.tmdb.MovieDetails(ctx, results[0].ID)
	if err != nil {
		return model.VideoFormData{}, err
	}
	return tmdb.MovieToFormData(d), nil
}

func (b *bulkUpdater) fetchEpisode(ctx context.Context, cache *searchCache, show string, season, episode int) (model.VideoFormData, error) {
	id, ok := cache.showIDs[show]
	if !ok {
		results, err := b.tmdb.SearchTV(ctx, show)
		if err != nil {
			return model.VideoFormData{}, err
		}
		if len(results) > 0 {
			id = results[0].ID
		}
		cache.showIDs[show] = id
	}
	if id == 0 {
		return model.VideoFormData{}, fmt.Errorf("no TMDb match for show %q", show)
	}

	details, ok := cache.shows[id]
	if !ok {
		d, err := b.tmdb.TVDetails(ctx, id)
		if err != nil {
			return model.VideoFormData{}, err
		}
		details = d
		cache.shows[id] = d
	}

	ep, err := b.tmdb.EpisodeDetails(ctx, id, season, episode)
	if err != nil {
		return model.VideoFormData{}, err
	}
	return tmdb.EpisodeToFormData(details, ep), nil
}
