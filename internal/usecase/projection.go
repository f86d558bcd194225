package usecase

import (
	"math"
	"sort"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type StageStat struct {
	Stage      entity.Stage `json:"stage"`
	Label      string       `json:"label"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

type Stats struct {
	Total        int         `json:"total"`
	Unrecognized int         `json:"unrecognized"`
	Stages       []StageStat `json:"stages"`
}

type placement struct {
	stage entity.Stage
	index int
}

// Project buckets a snapshot by stage. Prospects that already sat in the same
// column of previous keep their relative order; everything else is appended
// in snapshot order. Unknown stages are dropped.
func Project(reg *entity.StageRegistry, snapshot []entity.Prospect, previous *Board) *Board {
	board := NewBoard(reg)

	prevPos := make(map[string]placement)
	if previous != nil {
		for _, s := range reg.Stages() {
			for i, p := range previous.columns[s] {
				prevPos[p.ID] = placement{stage: s, index: i}
			}
		}
	}

	type ranked struct {
		prospect entity.Prospect
		known    bool
		prevIdx  int
		seq      int
	}
	buckets := make(map[entity.Stage][]ranked)

	for seq, p := range snapshot {
		if !reg.IsValid(p.Stage) {
			continue
		}
		r := ranked{prospect: p, seq: seq}
		if pos, ok := prevPos[p.ID]; ok && pos.stage == p.Stage {
			r.known = true
			r.prevIdx = pos.index
		}
		buckets[p.Stage] = append(buckets[p.Stage], r)
	}

	for stage, items := range buckets {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a.known != b.known {
				return a.known
			}
			if a.known {
				return a.prevIdx < b.prevIdx
			}
			return a.seq < b.seq
		})

		col := make([]entity.Prospect, len(items))
		for i, it := range items {
			col[i] = it.prospect
		}
		board.columns[stage] = col
	}

	return board
}

// Aggregate counts prospects per stage. Percentages are relative to the whole
// snapshot, unknown stages included, and rounded to two decimals; an empty set
// yields 0.
func Aggregate(reg *entity.StageRegistry, snapshot []entity.Prospect) Stats {
	counts := make(map[entity.Stage]int)
	stats := Stats{Total: len(snapshot)}

	for _, p := range snapshot {
		if !reg.IsValid(p.Stage) {
			stats.Unrecognized++
			continue
		}
		counts[p.Stage]++
	}

	for _, s := range reg.Stages() {
		stat := StageStat{Stage: s, Label: reg.Label(s), Count: counts[s]}
		if stats.Total > 0 {
			stat.Percentage = round2(float64(stat.Count) / float64(stats.Total) * 100)
		}
		stats.Stages = append(stats.Stages, stat)
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage is a convenience lookup for a single stage.
func (s Stats) Percentage(stage entity.Stage) float64 {
	for _, st := range s.Stages {
		if st.Stage == stage {
			return st.Percentage
		}
	}
	return 0
}
