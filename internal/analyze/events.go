package analyze

// Stage identifies a phase of a hybrid analysis run, for progress UIs.
type Stage uint8

const (
	StageCompile Stage = iota
	StageList
	StageScan
	StageDetect
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCompile:
		return "compile"
	case StageList:
		return "list"
	case StageScan:
		return "scan"
	case StageDetect:
		return "detect"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Event is a progress notification. Path is empty for stage-level events.
type Event struct {
	Stage Stage
	Path  string
}

// EventSink receives progress events. Sinks must not block: the analyzer
// calls them inline from worker goroutines.
type EventSink func(Event)
