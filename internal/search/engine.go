package search

import (
	"github.com/passbi/meetpoint/internal/gtfs"
)

// Config carries the tunable parameters named in §4.4/§4.6.
type Config struct {
	WalkSpeedMPS  float64
	MaxWalkTimeS  int
	MaxTripTimeS  int
	ProgressStepS int
}

// DefaultConfig returns the reference parameter values from §4.4.
func DefaultConfig() Config {
	return Config{
		WalkSpeedMPS:  gtfs.DefaultWalkSpeedMPS,
		MaxWalkTimeS:  gtfs.DefaultMaxWalkTimeS,
		MaxTripTimeS:  7200,
		ProgressStepS: 600,
	}
}

// PersonSpec is one entry of the `people` configuration list (§6): a
// display label paired with a station query resolved at search start.
type PersonSpec struct {
	Label        string
	StationQuery string
}

// Status is the terminal outcome of a search (§4.7).
type Status string

const (
	StatusOK   Status = "OK"
	StatusCap  Status = "CAP"
	StatusNone Status = "NONE"
)

// PersonResult is one traveller's outcome within an OK result.
type PersonResult struct {
	Label      string   `json:"label"`
	ElapsedS   int      `json:"elapsed_sec"`
	ArrivalAbs int      `json:"arrival_sec"`
	Steps      []Action `json:"steps"`
}

// Result is the engine's output record (§6).
type Result struct {
	Status          Status         `json:"status"`
	MeetingPlatform string         `json:"meeting_platform,omitempty"`
	MeetingAbs      int            `json:"meeting_time_sec,omitempty"`
	FairnessS       int            `json:"fairness_sec,omitempty"`
	Persons         []PersonResult `json:"persons,omitempty"`
	CapPerson       string         `json:"cap_person,omitempty"`
}

// ProgressEvent is emitted each time a person's elapsed cost crosses the
// next PROGRESS_STEP_S mark (§4.6).
type ProgressEvent struct {
	Label           string
	Action          Mode
	Elapsed         int
	UniquePlatforms int
}

// Engine runs one multi-person earliest-meeting search over a fixed,
// read-only Feed.
type Engine struct {
	feed    *gtfs.Feed
	cfg     Config
	onEvent func(ProgressEvent)
}

// NewEngine builds an engine bound to feed and cfg. onEvent may be nil.
func NewEngine(feed *gtfs.Feed, cfg Config, onEvent func(ProgressEvent)) *Engine {
	return &Engine{feed: feed, cfg: cfg, onEvent: onEvent}
}

// Run resolves every person's station query, seeds their frontiers, and
// executes the global interleaved search loop (§4.6) until one of the
// three termination cases fires.
func (e *Engine) Run(startAbs int, people []PersonSpec) (Result, error) {
	if len(people) == 0 {
		return Result{}, &gtfs.StationUnresolvedError{Query: ""}
	}

	counter := 0
	frontiers := make([]*Frontier, len(people))
	for i, p := range people {
		stationID, err := e.feed.ResolveStation(p.StationQuery)
		if err != nil {
			return Result{}, err
		}
		frontiers[i] = seed(e.feed, p.Label, stationID, startAbs, &counter)
	}

	nextMark := e.cfg.ProgressStepS

	if e.cfg.MaxTripTimeS == 0 {
		return Result{Status: StatusCap, CapPerson: frontiers[0].Label}, nil
	}

	for {
		owner := e.minFrontier(frontiers)
		if owner == nil {
			return Result{Status: StatusNone}, nil
		}

		top := owner.peek()
		if top.elapsed > e.cfg.MaxTripTimeS {
			return Result{Status: StatusCap, CapPerson: owner.Label}, nil
		}

		popped := owner.pop()
		if owner.visited[popped.to] {
			continue
		}

		owner.visited[popped.to] = true
		owner.uniquePlatforms[popped.to] = true
		if popped.action.Mode != ModeStart {
			owner.parent[popped.to] = popped.action
		}
		if _, ok := owner.reachedFirst[popped.to]; !ok {
			owner.reachedFirst[popped.to] = firstReached{Arrival: popped.arrival, Elapsed: popped.elapsed}
		}

		if e.onEvent != nil && popped.elapsed >= nextMark {
			e.onEvent(ProgressEvent{
				Label:           owner.Label,
				Action:          popped.action.Mode,
				Elapsed:         popped.elapsed,
				UniquePlatforms: len(owner.uniquePlatforms),
			})
			nextMark += e.cfg.ProgressStepS
		}

		if allReached(frontiers, popped.to) {
			return e.buildOKResult(frontiers, popped.to), nil
		}

		expand(owner, e.feed, e.cfg, popped.to, popped.arrival, popped.elapsed, &counter)
	}
}

// minFrontier returns the frontier whose top entry holds the globally
// smallest key, or nil if every frontier is drained.
func (e *Engine) minFrontier(frontiers []*Frontier) *Frontier {
	var best *Frontier
	var bestEntry *entry
	for _, f := range frontiers {
		top := f.peek()
		if top == nil {
			continue
		}
		if bestEntry == nil || top.less(bestEntry) {
			bestEntry = top
			best = f
		}
	}
	return best
}

func allReached(frontiers []*Frontier, platform string) bool {
	for _, f := range frontiers {
		if _, ok := f.reachedFirst[platform]; !ok {
			return false
		}
	}
	return true
}

func (e *Engine) buildOKResult(frontiers []*Frontier, platform string) Result {
	persons := make([]PersonResult, len(frontiers))
	meetingAbs := 0
	minElapsed, maxElapsed := -1, -1

	for i, f := range frontiers {
		fr := f.reachedFirst[platform]
		persons[i] = PersonResult{
			Label:      f.Label,
			ElapsedS:   fr.Elapsed,
			ArrivalAbs: fr.Arrival,
			Steps:      reconstruct(f, platform),
		}
		if fr.Arrival > meetingAbs {
			meetingAbs = fr.Arrival
		}
		if minElapsed == -1 || fr.Elapsed < minElapsed {
			minElapsed = fr.Elapsed
		}
		if fr.Elapsed > maxElapsed {
			maxElapsed = fr.Elapsed
		}
	}

	return Result{
		Status:          StatusOK,
		MeetingPlatform: platform,
		MeetingAbs:      meetingAbs,
		FairnessS:       maxElapsed - minElapsed,
		Persons:         persons,
	}
}

// reconstruct walks a frontier's predecessor map backward from platform
// until no predecessor remains, then reverses the result (§4.7).
func reconstruct(f *Frontier, platform string) []Action {
	var steps []Action
	cur := platform
	for {
		act, ok := f.parent[cur]
		if !ok {
			break
		}
		steps = append(steps, act)
		cur = act.From
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
