package cron

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/avelarsoto/gallery-backend/internal/uploads"
	"github.com/avelarsoto/gallery-backend/pkg/logger"
	"github.com/avelarsoto/gallery-backend/pkg/metrics"
)

const defaultSweepGrace = time.Hour

type imagePathLister interface {
	ListAllImagePaths(ctx context.Context) ([]string, error)
}

// OrphanImageSweepJobParams configure the orphan image sweep.
type OrphanImageSweepJobParams struct {
	Logger  *logger.Logger
	Repo    imagePathLister
	Metrics *metrics.JobMetrics
	Root    string
	Grace   time.Duration
	DryRun  bool
}

// NewOrphanImageSweepJob builds a job that removes stored image files no
// gallery row references anymore. Files younger than the grace window are
// left alone so an upload racing a row insert is never reaped.
func NewOrphanImageSweepJob(params OrphanImageSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("gallery repository required")
	}
	if params.Root == "" {
		return nil, fmt.Errorf("storage root required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultSweepGrace
	}
	return &orphanImageSweepJob{
		logg:    params.Logger,
		repo:    params.Repo,
		metrics: params.Metrics,
		root:    params.Root,
		grace:   grace,
		dryRun:  params.DryRun,
		now:     time.Now,
	}, nil
}

type orphanImageSweepJob struct {
	logg    *logger.Logger
	repo    imagePathLister
	metrics *metrics.JobMetrics
	root    string
	grace   time.Duration
	dryRun  bool
	now     func() time.Time
}

func (j *orphanImageSweepJob) Name() string { return "orphan-image-sweep" }

func (j *orphanImageSweepJob) Run(ctx context.Context) error {
	referenced, err := j.referencedPaths(ctx)
	if err != nil {
		return fmt.Errorf("load referenced paths: %w", err)
	}

	dir := filepath.Join(j.root, uploads.Namespace)
	cutoff := j.now().Add(-j.grace)

	var scanned, orphans, removed int
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		scanned++

		rel, err := filepath.Rel(j.root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}
		if referenced[filepath.ToSlash(rel)] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.ModTime().After(cutoff) {
			return nil
		}

		orphans++
		if j.dryRun {
			j.logg.Info(j.logg.WithField(ctx, "path", rel), "orphan image found (dry run)")
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			// nothing uploaded yet
			return nil
		}
		return fmt.Errorf("sweep %s: %w", dir, err)
	}

	if j.metrics != nil {
		j.metrics.AddSwept(j.Name(), removed)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": scanned,
		"orphans": orphans,
		"removed": removed,
		"dry_run": j.dryRun,
	})
	j.logg.Info(logCtx, "orphan image sweep complete")
	return nil
}

func (j *orphanImageSweepJob) referencedPaths(ctx context.Context) (map[string]bool, error) {
	paths, err := j.repo.ListAllImagePaths(ctx)
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[filepath.ToSlash(p)] = true
	}
	return referenced, nil
}
