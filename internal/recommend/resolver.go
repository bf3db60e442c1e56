package recommend

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ScoredPlan is one (plan, score) candidate in ranking order.
type ScoredPlan struct {
	PlanName string  `json:"plan_name"`
	Score    float64 `json:"score"`
}

// Resolution is the full lookup result for one vector. An empty Resolution
// is a lookup miss: the caller must treat it as "cannot recommend yet",
// never as a failure.
type Resolution struct {
	// Candidates are all matching rows ranked by score descending; ties
	// keep their original table order.
	Candidates []ScoredPlan
	// Needs maps each candidate plan name to its coverage-need tags.
	Needs map[string][]string

	rows []PlanRow
}

// Empty reports a lookup miss.
func (r Resolution) Empty() bool {
	return len(r.Candidates) == 0
}

// TopPlans returns the first n distinct plan names in ranking order,
// deduplicating repeated names while preserving score order.
func (r Resolution) TopPlans(n int) []ScoredPlan {
	seen := make(map[string]bool, n)
	var top []ScoredPlan
	for _, c := range r.Candidates {
		if seen[c.PlanName] {
			continue
		}
		seen[c.PlanName] = true
		top = append(top, c)
		if len(top) == n {
			break
		}
	}
	return top
}

// RelevantNeeds returns the union of need tags across the given plans,
// sorted for stable presentation.
func (r Resolution) RelevantNeeds(plans []ScoredPlan) []string {
	set := make(map[string]bool)
	for _, p := range plans {
		for _, need := range r.Needs[p.PlanName] {
			set[need] = true
		}
	}
	needs := make([]string, 0, len(set))
	for need := range set {
		needs = append(needs, need)
	}
	sort.Strings(needs)
	return needs
}

// Presentation is the slice of a resolution handed to the text-generation
// provider and to the advisor report.
type Presentation struct {
	// Featured is one uniformly sampled row from the matching bucket. The
	// sampling is intentionally non-deterministic so repeated
	// recommendations show some variety; it is redrawn on every request.
	Featured PlanRow
	// Top holds the top distinct plans in ranking order.
	Top []ScoredPlan
	// Scores is the full ranked candidate list.
	Scores []ScoredPlan
	// Needs is the union of need tags across the top plans.
	Needs []string
	// Attributes is the featured row's user-attribute summary.
	Attributes string
}

// Resolver matches feature vectors against the plan table.
type Resolver struct {
	table *PlanTable

	mu  sync.Mutex
	rng *rand.Rand
}

// NewResolver wraps the table with the random source used for featured-row
// sampling. Pass a seeded rng for reproducible tests; nil gets a
// time-seeded one.
func NewResolver(table *PlanTable, rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{table: table, rng: rng}
}

// Resolve looks up all rows whose stored vector equals v exactly. Zero
// matches yield an empty Resolution, never an error.
func (r *Resolver) Resolve(v FeatureVector) Resolution {
	rows := r.table.Lookup(v)
	if len(rows) == 0 {
		return Resolution{}
	}

	ranked := make([]PlanRow, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	res := Resolution{
		Candidates: make([]ScoredPlan, 0, len(ranked)),
		Needs:      make(map[string][]string, len(ranked)),
		rows:       rows,
	}
	for _, row := range ranked {
		res.Candidates = append(res.Candidates, ScoredPlan{PlanName: row.PlanName, Score: row.Score})
		if _, ok := res.Needs[row.PlanName]; !ok {
			res.Needs[row.PlanName] = row.Needs
		}
	}
	return res
}

// Present builds the generation payload for a non-empty resolution: the top
// n distinct plans, their unioned needs, and a freshly sampled featured row.
func (r *Resolver) Present(res Resolution, n int) Presentation {
	top := res.TopPlans(n)
	featured := r.sample(res.rows)
	return Presentation{
		Featured:   featured,
		Top:        top,
		Scores:     res.Candidates,
		Needs:      res.RelevantNeeds(top),
		Attributes: featured.UserAttributes,
	}
}

// sample draws one row uniformly from the bucket. rand.Rand is not safe for
// concurrent use, hence the lock.
func (r *Resolver) sample(rows []PlanRow) PlanRow {
	if len(rows) == 0 {
		return PlanRow{}
	}
	r.mu.Lock()
	idx := r.rng.Intn(len(rows))
	r.mu.Unlock()
	return rows[idx]
}
