package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"testing"
)

func TestSkillValuePrecedence(t *testing.T) {
	e := model.SkillEntry{SelfRating: util.IntPtr(40), ValidatedScore: util.IntPtr(60)}
	if got := SkillValue(e); got != 60 {
		t.Errorf("SkillValue = %d, want 60", got)
	}
	e.FinalScore = util.IntPtr(55)
	if got := SkillValue(e); got != 55 {
		t.Errorf("SkillValue with final = %d, want 55", got)
	}
	if got := SkillValue(model.SkillEntry{Name: "empty"}); got != 0 {
		t.Errorf("SkillValue(empty) = %d, want 0", got)
	}
}

func TestAggregateSkillsEmpty(t *testing.T) {
	agg := AggregateSkills(nil, 8)
	if agg.AvgSkillScore != 0 || agg.SkillCount != 0 {
		t.Errorf("empty aggregate = %+v, want zero", agg)
	}
	if agg.ValidationCoverage() != 0 {
		t.Errorf("ValidationCoverage = %v, want 0", agg.ValidationCoverage())
	}
	if agg.PerSkill == nil || len(agg.PerSkill) != 0 {
		t.Errorf("PerSkill = %v, want empty non-nil", agg.PerSkill)
	}
}

func TestAggregateSkillsAcrossCareers(t *testing.T) {
	records := []model.SkillRecord{
		{CareerID: 1, Skills: []model.SkillEntry{
			{Name: "python", FinalScore: util.IntPtr(80), ValidatedScore: util.IntPtr(85), HighestQuizLevelCleared: model.LevelMedium},
			{Name: "go", ValidatedScore: util.IntPtr(50), HighestQuizLevelCleared: model.LevelEasy},
		}},
		{CareerID: 2, Skills: []model.SkillEntry{
			{Name: "python", SelfRating: util.IntPtr(60)},
			{Name: "sql", SelfRating: util.IntPtr(90), HighestQuizLevelCleared: model.LevelAdvanced},
		}},
	}

	agg := AggregateSkills(records, 8)

	if agg.SkillCount != 4 {
		t.Errorf("SkillCount = %d, want 4", agg.SkillCount)
	}
	if agg.ValidatedCount != 2 {
		t.Errorf("ValidatedCount = %d, want 2", agg.ValidatedCount)
	}
	// (80 + 50 + 60 + 90) / 4
	if agg.AvgSkillScore != 70 {
		t.Errorf("AvgSkillScore = %v, want 70", agg.AvgSkillScore)
	}
	if agg.HighestLevelOrdinal != 3 {
		t.Errorf("HighestLevelOrdinal = %d, want 3", agg.HighestLevelOrdinal)
	}
	if agg.ValidationCoverage() != 50 {
		t.Errorf("ValidationCoverage = %v, want 50", agg.ValidationCoverage())
	}

	want := []model.SkillCompetency{{Name: "sql", Score: 90}, {Name: "python", Score: 70}, {Name: "go", Score: 50}}
	if len(agg.PerSkill) != len(want) {
		t.Fatalf("PerSkill = %v, want %v", agg.PerSkill, want)
	}
	for i := range want {
		if agg.PerSkill[i] != want[i] {
			t.Errorf("PerSkill[%d] = %v, want %v", i, agg.PerSkill[i], want[i])
		}
	}
}

func TestAggregateSkillsTruncatesTopN(t *testing.T) {
	var entries []model.SkillEntry
	for i := 0; i < 12; i++ {
		entries = append(entries, model.SkillEntry{Name: string(rune('a' + i)), SelfRating: util.IntPtr(i * 5)})
	}
	records := []model.SkillRecord{{Skills: entries}}

	if got := len(AggregateSkills(records, 3).PerSkill); got != 3 {
		t.Errorf("len(PerSkill) topN=3 = %d, want 3", got)
	}
	top := AggregateSkills(records, 0).PerSkill
	if len(top) != DefaultTopSkills {
		t.Fatalf("len(PerSkill) default = %d, want %d", len(top), DefaultTopSkills)
	}
	if top[0].Name != "l" || top[0].Score != 55 {
		t.Errorf("PerSkill[0] = %v, want {l 55}", top[0])
	}
}
