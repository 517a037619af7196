// Package batch - pairs label documents across two directories and evaluates them.
package batch

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/ui-lab/go-detect-eval/evaluation"
	"github.com/ui-lab/go-detect-eval/labels"
	"github.com/ui-lab/go-detect-eval/logger"
	"github.com/ui-lab/go-detect-eval/matcher"
)

// documentExt is the recognized label-document extension.
const documentExt = ".json"

// Options configures a batch run.
type Options struct {
	Categories   labels.CategorySet
	IoUThreshold float32
	StrictTags   bool

	// Workers bounds concurrent pair matching. Matching within one pair is
	// never parallelized (its tie-break is order-dependent); across pairs
	// the fold is commutative, so any worker count yields the same
	// aggregate. Values below 1 are treated as 1.
	Workers int

	Log *logger.Logger
}

// Run enumerates label documents in gtDir, pairs each with the same-named
// file in predDir, matches every pair, and folds the results into one
// aggregate.
//
// A missing prediction file or a malformed document on either side skips
// that pair with a log entry and never aborts the run. An unreadable
// ground-truth directory is fatal. When zero pairs succeed, Run returns
// (nil, nil): no data, no report, not an error.
func Run(gtDir, predDir string, opts Options) (*evaluation.Aggregate, error) {
	log := opts.Log
	if log == nil {
		log = logger.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if opts.IoUThreshold <= 0 {
		opts.IoUThreshold = matcher.DefaultIoUThreshold
	}

	entries, err := os.ReadDir(gtDir)
	if err != nil {
		return nil, errors.Wrapf(err, "read ground-truth directory %s", gtDir)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != documentExt {
			continue
		}
		names = append(names, e.Name())
	}

	parseOpts := labels.ParseOptions{
		Categories: opts.Categories,
		StrictTags: opts.StrictTags,
	}
	acc := evaluation.NewAccumulator(opts.Categories, opts.IoUThreshold)

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		jobs = make(chan string)
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				res, ok := processPair(gtDir, predDir, name, opts.IoUThreshold, parseOpts, log)
				if !ok {
					continue
				}
				mu.Lock()
				acc.Add(res)
				mu.Unlock()
			}
		}()
	}
	for _, name := range names {
		jobs <- name
	}
	close(jobs)
	wg.Wait()

	if acc.Images() == 0 {
		return nil, nil
	}

	log.Info("batch evaluation complete",
		"pairs", acc.Images(),
		"skipped", len(names)-acc.Images(),
	)
	return acc.Aggregate(), nil
}

// processPair loads and matches one ground-truth/prediction pair. Failures
// are logged and reported as ok=false; they never propagate.
func processPair(gtDir, predDir, name string, iouThreshold float32, opts labels.ParseOptions, log *logger.Logger) (matcher.Result, bool) {
	gtPath := filepath.Join(gtDir, name)
	predPath := filepath.Join(predDir, name)

	if _, err := os.Stat(predPath); err != nil {
		log.Warn("skipping pair: no prediction file", "file", name)
		return matcher.Result{}, false
	}

	gt, err := labels.LoadFile(gtPath, opts)
	if err != nil {
		log.WithError(err).Error("skipping pair: invalid ground-truth document", "file", name)
		return matcher.Result{}, false
	}
	pred, err := labels.LoadFile(predPath, opts)
	if err != nil {
		log.WithError(err).Error("skipping pair: invalid prediction document", "file", name)
		return matcher.Result{}, false
	}

	if gt.Dropped > 0 || pred.Dropped > 0 {
		log.Warn("dropped labels with unrecognized tags",
			"file", name,
			"ground_truth", gt.Dropped,
			"predictions", pred.Dropped,
		)
	}
	if gt.ImageFilename == "" {
		gt.ImageFilename = name
	}

	return matcher.Match(gt, pred, opts.Categories, iouThreshold), true
}
