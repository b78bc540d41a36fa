package driver

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"svcore/internal/decl"
	"svcore/internal/diag"
	"svcore/internal/layout"
	"svcore/internal/observ"
	"svcore/internal/snapshot"
)

// Options configures CheckFiles.
type Options struct {
	// Jobs bounds the files checked at once; 0 uses GOMAXPROCS.
	Jobs           int
	MaxDiagnostics int
	// Target overrides the [target] table of every file.
	Target *layout.Target
	Logger *zap.Logger
	Sink   ProgressSink
	// SnapshotDir receives a msgpack listing for every file without errors.
	SnapshotDir string
	// Timings appends an OBS6001 diagnostic per file.
	Timings bool
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path string
	// Decl is nil when the file could not be read.
	Decl     *decl.Result
	Bag      *diag.Bag
	Snapshot string
	Elapsed  time.Duration
}

// Failed reports whether the file produced errors.
func (r FileResult) Failed() bool {
	return r.Bag != nil && r.Bag.HasErrors()
}

// CheckFiles loads every declaration file under paths in parallel. Each file
// gets its own catalog and bag, so results never share state. The returned
// error is only set when the file list cannot be built or ctx is cancelled;
// problems inside files are reported in the per-file bags.
func CheckFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	files, err := ListFiles(paths)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(files) == 0 {
		return nil, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range files {
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// each goroutine owns results[i]
	results := make([]FileResult, len(files))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = checkFile(path, opts, log)
			return nil
		})
	}
	err = g.Wait()

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(opts.Sink, Event{Stage: StageLoad, Status: status, Err: err, Elapsed: time.Since(start)})
	log.Debug("check finished",
		zap.Int("files", len(files)),
		zap.Int("jobs", jobs),
		zap.Duration("elapsed", time.Since(start)))
	return results, err
}

func checkFile(path string, opts Options, log *zap.Logger) FileResult {
	timer := observ.NewTimer()
	res := FileResult{Path: path}

	emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	phase := timer.Begin(string(StageLoad))
	loaded, err := decl.Load(path, decl.Options{
		Target:         opts.Target,
		MaxDiagnostics: opts.MaxDiagnostics,
		Logger:         log,
	})
	if err != nil {
		timer.End(phase, "unreadable")
		res.Bag = diag.NewBag(max(opts.MaxDiagnostics, 1))
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, nil, "failed to load file: "+err.Error()))
		res.Elapsed = timer.Total()
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: res.Elapsed})
		log.Warn("load failed", zap.String("file", path), zap.Error(err))
		return res
	}
	timer.End(phase, fmt.Sprintf("%d declarations", len(loaded.Declared)))
	res.Decl = loaded
	res.Bag = loaded.Bag

	if opts.SnapshotDir != "" && loaded.Catalog != nil && !loaded.Bag.HasErrors() {
		emit(opts.Sink, Event{File: path, Stage: StageSnapshot, Status: StatusWorking})
		phase = timer.Begin(string(StageSnapshot))
		out := filepath.Join(opts.SnapshotDir, snapshotName(path))
		if err := snapshot.WriteFile(out, snapshot.Build(path, loaded.Catalog, snapshot.Options{})); err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, nil, "failed to write snapshot: "+err.Error()))
			timer.End(phase, "failed")
		} else {
			res.Snapshot = out
			timer.End(phase, out)
		}
	}

	if opts.Timings {
		appendTimingDiagnostic(res.Bag, path, timer)
		log.Debug("timings", zap.String("file", path), zap.String("summary", timer.Summary()))
	}
	res.Elapsed = timer.Total()
	status := StatusDone
	if res.Failed() {
		status = StatusError
	}
	emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: status, Elapsed: res.Elapsed})
	log.Debug("file checked",
		zap.String("file", path),
		zap.Int("diagnostics", res.Bag.Len()),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

// Merge collects the diagnostics of all results into one sorted bag holding
// at most limit entries; limit <= 0 keeps as many as a bag can.
func Merge(results []FileResult, limit int) *diag.Bag {
	if limit <= 0 {
		limit = math.MaxUint16
	}
	bag := diag.NewBag(limit)
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}
