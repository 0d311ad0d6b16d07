package types

import "jobharvest/internal/domain"

// SkipReason says why a candidate posting never became a job record.
type SkipReason string

const (
	SkipMalformed         SkipReason = "malformed"
	SkipDuplicate         SkipReason = "duplicate"
	SkipExcluded          SkipReason = "excluded"
	SkipDetailUnavailable SkipReason = "detail_unavailable"
	SkipNoSkills          SkipReason = "no_skills"
)

type Skip struct {
	Offset int
	Title  string
	Reason SkipReason
	Detail string
}

type RunResult struct {
	RunID       string
	Pages       int
	PagesFailed int
	Candidates  int
	Jobs        []domain.NormalizedJob
	Skips       []Skip
}

func (r RunResult) SkipCount(reason SkipReason) int {
	n := 0
	for _, s := range r.Skips {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

// SkipSummary counts skips per reason, for logging.
func (r RunResult) SkipSummary() map[SkipReason]int {
	out := map[SkipReason]int{}
	for _, s := range r.Skips {
		out[s.Reason]++
	}
	return out
}
