package batch

import (
	"fmt"
	"sort"
	"strings"

	"CoastCam/internal/relocate"
)

type Summary struct {
	Total   int            `json:"total"`
	Copied  int            `json:"copied"`
	Skipped int            `json:"skipped"`
	Failed  int            `json:"failed"`
	Partial int            `json:"partial"`
	Planned int            `json:"planned"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

func (s *Summary) Add(r relocate.Result) {
	s.Total++
	switch r.Status {
	case relocate.StatusCopied:
		s.Copied++
	case relocate.StatusSkipped:
		s.Skipped++
	case relocate.StatusFailed:
		s.Failed++
	case relocate.StatusPartial:
		s.Partial++
	case relocate.StatusPlanned:
		s.Planned++
	}
	if r.Reason != relocate.ReasonNone {
		if s.Reasons == nil {
			s.Reasons = make(map[string]int)
		}
		s.Reasons[string(r.Reason)]++
	}
}

func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.Partial > 0
}

// String renders a one-line summary for logs and notifications.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "total=%d copied=%d skipped=%d failed=%d partial=%d", s.Total, s.Copied, s.Skipped, s.Failed, s.Partial)
	if s.Planned > 0 {
		fmt.Fprintf(&b, " planned=%d", s.Planned)
	}
	reasons := make([]string, 0, len(s.Reasons))
	for r := range s.Reasons {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(&b, " %s=%d", r, s.Reasons[r])
	}
	return b.String()
}

func Summarize(results []relocate.Result) Summary {
	var s Summary
	for _, r := range results {
		s.Add(r)
	}
	return s
}
