package eligibility

import "fmt"

// stage orders warnings in the result. Warnings are collected per stage
// while items are computed and flattened in stage order at the end.
type stage int

const (
	stageScheme      stage = iota // scheme restrictions
	stageCompliance               // caps and minimums
	stageEstimate                 // estimated amounts
	stageCostSharing              // multi-employer explanations
	stageVariant                  // remote, overseas and development notes
	stageAttendance               // attendance reminders
	stageCount
)

type warnings [stageCount][]string

func (w *warnings) add(s stage, format string, args ...any) {
	w[s] = append(w[s], fmt.Sprintf(format, args...))
}

func (w *warnings) flatten() []string {
	out := []string{}
	for _, msgs := range w {
		out = append(out, msgs...)
	}
	return out
}
