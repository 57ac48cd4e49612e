package scanner

import (
	"io"
	"sync"
	"time"

	"regionfinder/types"
)

// Outcome classifies what happened to one candidate file
type Outcome int

const (
	// OutcomeNotScanned is left on candidates the search never reached (cancellation)
	OutcomeNotScanned Outcome = iota
	OutcomeMatched
	OutcomeNoMatch
	OutcomeTooSmall
	OutcomeDecodeFailed
)

// String returns the label used in logs
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "MATCHED"
	case OutcomeNoMatch:
		return "NO_MATCH"
	case OutcomeTooSmall:
		return "TOO_SMALL"
	case OutcomeDecodeFailed:
		return "DECODE_FAILED"
	default:
		return "NOT_SCANNED"
	}
}

// CandidateResult holds the result of scanning one candidate
type CandidateResult struct {
	Path    string
	Index   int // position in enumeration order
	Total   int // number of candidates in this search
	Outcome Outcome
	Match   *types.RegionMatch
	Windows int64
	Err     error
}

// ProgressTracker tracks progress of a search from the stream of candidate results
type ProgressTracker struct {
	processed    int
	matched      int
	decodeErrors int
	totalFiles   int
	ticker       *time.Ticker
	done         chan struct{}
	drained      chan struct{}
	out          io.Writer
	mu           sync.Mutex
}
