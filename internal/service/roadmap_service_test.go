package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func roadmapFixture(t *testing.T, reply string) (*fakeStore, *RoadmapService, *movableClock) {
	t.Helper()
	fs := newFakeStore()
	fs.careers = append(fs.careers, model.Career{
		BaseModel: model.BaseModel{ID: 4}, Name: "Backend Developer",
		RequiredSkills: []string{"go", "sql"},
	})
	fs.nextID = 100

	clock := &movableClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	gam := newTestGamification(fs, clock)
	svc := NewRoadmapService(fakeRoadmaps{fs}, fakeTasks{fs}, fakeSkills{fs}, fakeCareers{fs}, &fakeChat{reply: reply}, gam, clock.Now)
	return fs, svc, clock
}

func TestParseRoadmapDaysFillsGaps(t *testing.T) {
	reply := `[{"day":1,"title":"Intro"},{"day":3,"title":"Structs"},{"day":3,"title":"dup"},{"day":9,"title":"out of range"}]`
	days, err := parseRoadmapDays(reply, 7)
	if err != nil {
		t.Fatalf("parseRoadmapDays: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(days))
	}
	if days[0].Title != "Intro" || days[2].Title != "Structs" {
		t.Errorf("days = %+v", days)
	}
	if days[1].Title != "Review and practice" {
		t.Errorf("gap day title = %q", days[1].Title)
	}
	for i, d := range days {
		if d.Day != i+1 {
			t.Errorf("days[%d].Day = %d, want %d", i, d.Day, i+1)
		}
	}

	if _, err := parseRoadmapDays("no json here", 7); !errors.Is(err, util.ErrAIUnavailable) {
		t.Errorf("garbage reply error = %v, want ErrAIUnavailable", err)
	}
}

func TestGenerateRoadmapReplacesPrevious(t *testing.T) {
	fs, svc, _ := roadmapFixture(t, `[{"day":1,"title":"Setup"},{"day":2,"title":"HTTP"}]`)
	ctx := context.Background()

	first, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4, TotalDays: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first.CareerName != "Backend Developer" || first.TotalDays != 7 || len(first.Tasks) != 7 {
		t.Errorf("roadmap = %+v", first)
	}

	second, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4})
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if second.TotalDays != util.DefaultRoadmapDays {
		t.Errorf("TotalDays = %d, want default %d", second.TotalDays, util.DefaultRoadmapDays)
	}
	if len(fs.maps) != 1 || fs.maps[0].ID != second.ID {
		t.Errorf("stored roadmaps = %+v, want only the second", fs.maps)
	}
	if len(fs.tasks) != util.DefaultRoadmapDays {
		t.Errorf("stored tasks = %d, want %d", len(fs.tasks), util.DefaultRoadmapDays)
	}
}

func TestGenerateRoadmapValidation(t *testing.T) {
	_, svc, _ := roadmapFixture(t, `[{"day":1,"title":"Setup"}]`)
	ctx := context.Background()

	if _, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4, TotalDays: 3}); !errors.Is(err, util.ErrInvalidRoadmapDays) {
		t.Errorf("short roadmap error = %v, want ErrInvalidRoadmapDays", err)
	}
	if _, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 5}); !errors.Is(err, util.ErrCareerNotFound) {
		t.Errorf("unknown career error = %v, want ErrCareerNotFound", err)
	}
}

func TestRoadmapPromptListsSkills(t *testing.T) {
	career := &model.Career{Name: "Backend Developer", RequiredSkills: []string{"go", "sql"}}
	record := &model.SkillRecord{Skills: []model.SkillEntry{{Name: "go", SelfRating: util.IntPtr(30)}}}
	p := roadmapPrompt(career, record, 14)
	for _, want := range []string{"14-day", "Backend Developer", "go, sql", "go (30/100)"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q: %s", want, p)
		}
	}
}

func TestCompleteTask(t *testing.T) {
	fs, svc, _ := roadmapFixture(t, `[{"day":1,"title":"Setup"}]`)
	ctx := context.Background()

	roadmap, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4, TotalDays: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	res, err := svc.CompleteTask(ctx, 1, roadmap.Tasks[0].ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// 1/7
	if res.ProgressPercentage != 14.29 {
		t.Errorf("ProgressPercentage = %v, want 14.29", res.ProgressPercentage)
	}
	if res.XPAwarded != util.TaskXPReward {
		t.Errorf("XPAwarded = %d, want %d", res.XPAwarded, util.TaskXPReward)
	}
	if fs.gam[1] == nil || fs.gam[1].XP != util.TaskXPReward {
		t.Errorf("gamification = %+v, want xp %d", fs.gam[1], util.TaskXPReward)
	}
	if res.Task.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	if _, err := svc.CompleteTask(ctx, 1, roadmap.Tasks[0].ID); !errors.Is(err, util.ErrTaskAlreadyCompleted) {
		t.Errorf("second completion error = %v, want ErrTaskAlreadyCompleted", err)
	}
	if _, err := svc.CompleteTask(ctx, 2, roadmap.Tasks[1].ID); !errors.Is(err, util.ErrTaskNotFound) {
		t.Errorf("other user's task error = %v, want ErrTaskNotFound", err)
	}
}

func TestCompleteRoadmapAwardsBadge(t *testing.T) {
	fs, svc, _ := roadmapFixture(t, `[{"day":1,"title":"Setup"}]`)
	ctx := context.Background()

	roadmap, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4, TotalDays: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var res *TaskCompletion
	for _, task := range roadmap.Tasks {
		if res, err = svc.CompleteTask(ctx, 1, task.ID); err != nil {
			t.Fatalf("CompleteTask(%d): %v", task.ID, err)
		}
	}
	if res.ProgressPercentage != 100 {
		t.Errorf("ProgressPercentage = %v, want 100", res.ProgressPercentage)
	}
	if !hasBadge(res.NewBadges, model.BadgeRoadmapComplete) {
		t.Errorf("NewBadges = %v, want roadmap_complete", res.NewBadges)
	}

	got, err := svc.Get(ctx, 1, 4)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ProgressPercentage != 100 || len(got.Tasks) != 7 {
		t.Errorf("roadmap = %+v", got)
	}
	if fs.gam[1].XP != 7*util.TaskXPReward {
		t.Errorf("XP = %d, want %d", fs.gam[1].XP, 7*util.TaskXPReward)
	}
}

func TestGetRoadmapMissing(t *testing.T) {
	_, svc, _ := roadmapFixture(t, "")
	if _, err := svc.Get(context.Background(), 1, 0); !errors.Is(err, util.ErrRoadmapNotFound) {
		t.Errorf("Get error = %v, want ErrRoadmapNotFound", err)
	}
}

func TestCompleteTaskConcurrentRequestsCreditOnce(t *testing.T) {
	fs, svc, _ := roadmapFixture(t, `[{"day":1,"title":"Setup"}]`)
	ctx := context.Background()

	roadmap, err := svc.Generate(ctx, 1, RoadmapInput{CareerID: 4, TotalDays: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	svc.TaskRepo = barrierTasks{fakeTasks: fakeTasks{fs}, barrier: newReadBarrier(2)}

	var awarded atomic.Int64
	errs := runConcurrently(2, func() error {
		res, err := svc.CompleteTask(ctx, 1, roadmap.Tasks[0].ID)
		if err == nil {
			awarded.Add(int64(res.XPAwarded))
		}
		return err
	})

	completed, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			completed++
		case errors.Is(err, util.ErrTaskAlreadyCompleted):
			rejected++
		default:
			t.Errorf("CompleteTask error = %v", err)
		}
	}
	if completed != 1 || rejected != 1 {
		t.Errorf("completed = %d, rejected = %d, want 1 and 1", completed, rejected)
	}
	if awarded.Load() != util.TaskXPReward {
		t.Errorf("xp awarded = %d, want %d", awarded.Load(), util.TaskXPReward)
	}
	if fs.gam[1].XP != util.TaskXPReward {
		t.Errorf("stored xp = %d, want %d", fs.gam[1].XP, util.TaskXPReward)
	}
}
