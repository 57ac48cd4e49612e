package scanner

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"regionfinder/config"
	"regionfinder/imageprocessor"
	"regionfinder/logging"
	"regionfinder/types"
)

// Engine searches directory trees for windows similar to a reference patch
type Engine struct {
	cfg      config.Config
	registry *imageprocessor.ImageLoaderRegistry
	filter   *ExtensionFilter
	observer func(CandidateResult)
}

// Option customizes an Engine
type Option func(*Engine)

// WithRegistry replaces the default image loader registry
func WithRegistry(registry *imageprocessor.ImageLoaderRegistry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithObserver registers a callback invoked once per scanned candidate.
// With more than one worker the callback is called from several goroutines.
func WithObserver(observer func(CandidateResult)) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// NewEngine creates an engine from a validated copy of cfg
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search configuration: %w", err)
	}

	e := &Engine{
		cfg:      *cfg,
		registry: imageprocessor.NewImageLoaderRegistry(),
	}
	e.cfg.FileExtensions = append([]string(nil), cfg.FileExtensions...)
	e.filter = NewExtensionFilter(e.cfg.FileExtensions, e.cfg.CaseSensitiveExtensions)

	for _, opt := range opts {
		opt(e)
	}

	for _, ext := range e.cfg.FileExtensions {
		if !e.registry.CanLoadFile(ext) {
			logging.LogWarning("No loader registered for %s files, the default loader will be tried", ext)
		}
	}

	return e, nil
}

// Config returns the configuration the engine runs with
func (e *Engine) Config() config.Config {
	return e.cfg
}

// FindMatches scans every candidate under req.RootDirectory and returns, in
// enumeration order, those containing a window whose SSIM against the
// reference exceeds the threshold. Undecodable files are skipped. When ctx is
// cancelled the matches found so far are returned together with ctx.Err().
func (e *Engine) FindMatches(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error) {
	startTime := time.Now()

	if req.Reference.Empty() {
		return nil, fmt.Errorf("%w: reference has zero area", types.ErrInvalidReference)
	}
	if req.Reference.Channels != e.cfg.Channels {
		return nil, fmt.Errorf("%w: reference has %d channels, candidates are decoded with %d",
			types.ErrInvalidReference, req.Reference.Channels, e.cfg.Channels)
	}

	threshold := e.cfg.Threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
		if threshold < -1 || threshold > 1 {
			return nil, fmt.Errorf("threshold must be between -1 and 1, got %v", threshold)
		}
	}

	info, err := os.Stat(req.RootDirectory)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInaccessibleDirectory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", types.ErrInaccessibleDirectory, req.RootDirectory)
	}

	logging.DebugLog("Starting region search in %s for %s, threshold %.2f, workers %d",
		req.RootDirectory, req.Reference, threshold, e.cfg.Workers)

	result := &types.SearchResult{}

	candidates, err := CollectCandidates(ctx, req.RootDirectory, e.filter)
	if err != nil {
		if ctx.Err() != nil {
			result.Stats.Candidates = len(candidates)
			result.Stats.Elapsed = time.Since(startTime)
			return result, ctx.Err()
		}
		return nil, err
	}

	outcomes := make([]CandidateResult, len(candidates))
	if e.cfg.Workers > 1 {
		e.scanParallel(ctx, req.Reference, candidates, threshold, outcomes)
	} else {
		e.scanSequential(ctx, req.Reference, candidates, threshold, outcomes)
	}

	collectOutcomes(result, outcomes)
	result.Stats.Candidates = len(candidates)
	result.Stats.Elapsed = time.Since(startTime)

	logging.DebugLog("Search completed in %v. Candidates: %d, Matches: %d, Too small: %d, Decode failures: %d, Windows: %d",
		result.Stats.Elapsed, result.Stats.Candidates, result.Stats.Matched,
		result.Stats.TooSmall, result.Stats.DecodeFailures, result.Stats.WindowsScored)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Engine) scanSequential(ctx context.Context, reference *types.Patch, candidates []string, threshold float64, outcomes []CandidateResult) {
	scorer := imageprocessor.NewSSIMScorer()
	for i, path := range candidates {
		if ctx.Err() != nil {
			return
		}
		outcomes[i] = e.scanCandidate(ctx, scorer, reference, path, threshold)
		outcomes[i].Index, outcomes[i].Total = i, len(candidates)
		e.notify(outcomes[i])
	}
}

// scanParallel writes each outcome at its enumeration index, so the collected
// order is the same as with a single worker.
func (e *Engine) scanParallel(ctx context.Context, reference *types.Patch, candidates []string, threshold float64, outcomes []CandidateResult) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for i, path := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			outcome := e.scanCandidate(gctx, imageprocessor.NewSSIMScorer(), reference, path, threshold)
			outcome.Index, outcome.Total = i, len(candidates)
			outcomes[i] = outcome
			e.notify(outcome)
			return nil
		})
	}

	_ = g.Wait()
}

// scanCandidate decodes one file and looks for its first qualifying window
func (e *Engine) scanCandidate(ctx context.Context, scorer *imageprocessor.SSIMScorer, reference *types.Patch, path string, threshold float64) CandidateResult {
	result := CandidateResult{Path: path}

	candidate, err := e.registry.LoadImage(path, reference.Channels)
	if err != nil {
		result.Outcome = OutcomeDecodeFailed
		result.Err = err
		return result
	}

	if candidate.Height < reference.Height || candidate.Width < reference.Width {
		result.Outcome = OutcomeTooSmall
		return result
	}

	offset, score, windows, found := FirstMatch(WindowScores(ctx, scorer, reference, candidate), threshold)
	result.Windows = windows

	if !found {
		if ctx.Err() != nil {
			result.Outcome = OutcomeNotScanned
			return result
		}
		result.Outcome = OutcomeNoMatch
		return result
	}

	match := &types.RegionMatch{
		Path:      path,
		Offset:    offset,
		SSIMScore: score,
	}

	window := candidate.SubPatch(offset.Y, offset.X, reference.Height, reference.Width)
	diag, err := imageprocessor.Diagnose(reference, window)
	if err != nil {
		logging.LogWarning("Diagnostics failed for %s: %v", path, err)
	} else {
		match.MSE = diag.MSE
		match.HashDistance = diag.HashDistance
	}

	result.Outcome = OutcomeMatched
	result.Match = match
	return result
}

func (e *Engine) notify(result CandidateResult) {
	if e.observer != nil {
		e.observer(result)
	}
}

// collectOutcomes folds per-candidate outcomes, in enumeration order, into result
func collectOutcomes(result *types.SearchResult, outcomes []CandidateResult) {
	for _, outcome := range outcomes {
		result.Stats.WindowsScored += outcome.Windows

		switch outcome.Outcome {
		case OutcomeMatched:
			result.Stats.Scanned++
			result.Stats.Matched++
			result.Matches = append(result.Matches, *outcome.Match)
			logging.LogCandidate(outcome.Path, outcome.Outcome.String(),
				fmt.Sprintf("offset=%v ssim=%.4f mse=%.2f hash_distance=%d",
					outcome.Match.Offset, outcome.Match.SSIMScore, outcome.Match.MSE, outcome.Match.HashDistance))
		case OutcomeNoMatch:
			result.Stats.Scanned++
			logging.LogCandidate(outcome.Path, outcome.Outcome.String(), fmt.Sprintf("windows=%d", outcome.Windows))
		case OutcomeTooSmall:
			result.Stats.TooSmall++
			logging.LogCandidate(outcome.Path, outcome.Outcome.String(), "")
		case OutcomeDecodeFailed:
			result.Stats.DecodeFailures++
			logging.LogCandidate(outcome.Path, outcome.Outcome.String(), outcome.Err.Error())
		}
	}
}
