package service

import (
	"carevo_backend/internal/model"
	"sort"
)

// DefaultTopSkills is how many competencies the overview shows.
const DefaultTopSkills = 8

type SkillAggregate struct {
	AvgSkillScore       float64
	SkillCount          int
	ValidatedCount      int
	HighestLevelOrdinal int
	// PerSkill is sorted by average descending and truncated to top N.
	PerSkill []model.SkillCompetency
}

// Readiness is the average skill score on 0..1.
func (a SkillAggregate) Readiness() float64 {
	return a.AvgSkillScore / 100
}

// ValidationCoverage is the share of skills with a validated score, 0..100.
func (a SkillAggregate) ValidationCoverage() float64 {
	return Percent(float64(a.ValidatedCount), float64(a.SkillCount))
}

// SkillValue is finalScore, then validatedScore, then selfRating, then 0.
func SkillValue(e model.SkillEntry) int {
	return FirstDefined(e.FinalScore, e.ValidatedScore, e.SelfRating)
}

// AggregateSkills flattens every skill entry across all of the user's records.
// Entries sharing a name are averaged together regardless of career.
func AggregateSkills(records []model.SkillRecord, topN int) SkillAggregate {
	type acc struct {
		sum   float64
		count int
	}

	var (
		agg   SkillAggregate
		total float64
		order []string
	)
	byName := make(map[string]*acc)

	for _, rec := range records {
		for _, entry := range rec.Skills {
			value := float64(SkillValue(entry))
			total += value
			agg.SkillCount++
			if entry.ValidatedScore != nil {
				agg.ValidatedCount++
			}
			if o := entry.HighestQuizLevelCleared.Ordinal(); o > agg.HighestLevelOrdinal {
				agg.HighestLevelOrdinal = o
			}

			a, ok := byName[entry.Name]
			if !ok {
				a = &acc{}
				byName[entry.Name] = a
				order = append(order, entry.Name)
			}
			a.sum += value
			a.count++
		}
	}

	agg.AvgSkillScore = Ratio(total, float64(agg.SkillCount))

	type avg struct {
		name  string
		value float64
	}
	averages := make([]avg, 0, len(order))
	for _, name := range order {
		a := byName[name]
		averages = append(averages, avg{name: name, value: a.sum / float64(a.count)})
	}
	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].value > averages[j].value
	})

	if topN <= 0 {
		topN = DefaultTopSkills
	}
	if len(averages) > topN {
		averages = averages[:topN]
	}

	agg.PerSkill = make([]model.SkillCompetency, 0, len(averages))
	for _, a := range averages {
		agg.PerSkill = append(agg.PerSkill, model.SkillCompetency{Name: a.name, Score: roundInt(a.value)})
	}

	return agg
}
