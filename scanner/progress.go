package scanner

import (
	"fmt"
	"io"
	"time"

	"regionfinder/logging"
	"regionfinder/types"
)

// NewProgressTracker starts tracking the results sent on resultsChan.
// Progress is printed to out every interval until Stop is called.
func NewProgressTracker(resultsChan <-chan CandidateResult, out io.Writer, interval time.Duration) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
		out:     out,
	}

	go tracker.displayProgress()
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.printProgress()
		}
	}
}

func (p *ProgressTracker) printProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.decodeErrors > 0 {
		fmt.Fprintf(p.out, "\rProgress: %d/%d (Matches: %d, Errors: %d)",
			p.processed, p.totalFiles, p.matched, p.decodeErrors)
	} else {
		fmt.Fprintf(p.out, "\rProgress: %d/%d (Matches: %d)",
			p.processed, p.totalFiles, p.matched)
	}
}

// processResults updates the tracker state until resultsChan is closed
func (p *ProgressTracker) processResults(resultsChan <-chan CandidateResult) {
	defer close(p.drained)

	for result := range resultsChan {
		p.mu.Lock()
		p.processed++
		if result.Total > p.totalFiles {
			p.totalFiles = result.Total
		}

		switch result.Outcome {
		case OutcomeMatched:
			p.matched++
		case OutcomeDecodeFailed:
			p.decodeErrors++
		}
		p.mu.Unlock()
	}
}

// Stop waits for the results channel to be drained, which requires the sender
// to close it, then prints the final progress line and stops the display.
func (p *ProgressTracker) Stop() {
	<-p.drained
	p.ticker.Stop()
	close(p.done)
	p.printProgress()
	fmt.Fprintln(p.out)
}

// PrintCompletionStats displays statistics after a search
func PrintCompletionStats(out io.Writer, stats types.SearchStats, debugMode bool) {
	if debugMode {
		logging.DebugLog("Search statistics: %+v", stats)
	}

	fmt.Fprintf(out, "Scanned %d of %d candidate images in %v.\n",
		stats.Scanned, stats.Candidates, stats.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "Windows compared: %d\n", stats.WindowsScored)

	if stats.TooSmall > 0 {
		fmt.Fprintf(out, "Skipped %d images smaller than the selection.\n", stats.TooSmall)
	}

	if stats.DecodeFailures > 0 {
		fmt.Fprintf(out, "Could not decode %d images.\n", stats.DecodeFailures)
		fmt.Fprintln(out, "Check the log file for details.")
	}
}
