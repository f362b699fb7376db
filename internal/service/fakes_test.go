package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var errStoreDown = errors.New("store down")

func frozenClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// fakeStore implements every store interface in memory. err, when set, is
// returned from every read.
type fakeStore struct {
	mu sync.Mutex

	err     error
	nextID  uint
	users   map[uint]*model.User
	skills  []model.SkillRecord
	gam     map[uint]*model.Gamification
	badges  []model.Badge
	maps    []model.Roadmap
	tasks   []model.RoadmapTask
	quizzes []model.Quiz
	careers []model.Career
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[uint]*model.User),
		gam:   make(map[uint]*model.Gamification),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

// users

type fakeUsers struct{ *fakeStore }

func (f fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.id()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f fakeUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeUsers) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

// skills

type fakeSkills struct{ *fakeStore }

func (f fakeSkills) FindByUser(_ context.Context, userID uint) ([]model.SkillRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SkillRecord
	for _, r := range f.skills {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeSkills) FindByUserAndCareer(_ context.Context, userID, careerID uint) (*model.SkillRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.skills {
		if r.UserID == userID && r.CareerID == careerID {
			cp := r
			cp.Skills = append([]model.SkillEntry(nil), r.Skills...)
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeSkills) Save(_ context.Context, record *model.SkillRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == 0 {
		record.ID = f.id()
	}
	for i := range f.skills {
		if f.skills[i].ID == record.ID {
			f.skills[i] = *record
			return nil
		}
	}
	f.skills = append(f.skills, *record)
	return nil
}

// gamification

type fakeGamification struct{ *fakeStore }

func (f fakeGamification) FindByUser(_ context.Context, userID uint) (*model.Gamification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.gam[userID]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f fakeGamification) Update(_ context.Context, userID uint, fn func(g *model.Gamification) error) (*model.Gamification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	g := model.Gamification{UserID: userID}
	if cur, ok := f.gam[userID]; ok {
		g = *cur
	} else {
		g.ID = f.id()
	}
	if err := fn(&g); err != nil {
		return nil, err
	}
	cp := g
	f.gam[userID] = &cp
	return &g, nil
}

func (f fakeGamification) TopByXP(_ context.Context, limit int) ([]repository.LeaderboardRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []repository.LeaderboardRow
	for _, g := range f.gam {
		name := ""
		if u, ok := f.users[g.UserID]; ok {
			name = u.Name
		}
		rows = append(rows, repository.LeaderboardRow{UserID: g.UserID, Name: name, XP: g.XP, Streak: g.Streak})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].XP > rows[j].XP })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// badges

type fakeBadges struct{ *fakeStore }

func (f fakeBadges) FindByUser(_ context.Context, userID uint) ([]model.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Badge
	for _, b := range f.badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f fakeBadges) Create(_ context.Context, badge *model.Badge) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.badges {
		if b.UserID == badge.UserID && b.Code == badge.Code {
			return false, nil
		}
	}
	badge.ID = f.id()
	f.badges = append(f.badges, *badge)
	return true, nil
}

// roadmaps

type fakeRoadmaps struct{ *fakeStore }

func (f fakeRoadmaps) FindFirstByUser(_ context.Context, userID, careerID uint) (*model.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.maps {
		if m.UserID == userID && (careerID == 0 || m.CareerID == careerID) {
			cp := m
			cp.Tasks = nil
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeRoadmaps) FindWithTasks(ctx context.Context, userID, careerID uint) (*model.Roadmap, error) {
	m, err := f.FindFirstByUser(ctx, userID, careerID)
	if m == nil || err != nil {
		return m, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.RoadmapID == m.ID {
			m.Tasks = append(m.Tasks, t)
		}
	}
	sort.Slice(m.Tasks, func(i, j int) bool { return m.Tasks[i].Day < m.Tasks[j].Day })
	return m, nil
}

func (f fakeRoadmaps) FindByID(_ context.Context, id uint) (*model.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.maps {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeRoadmaps) Replace(_ context.Context, roadmap *model.Roadmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.maps[:0]
	removed := make(map[uint]bool)
	for _, m := range f.maps {
		if m.UserID == roadmap.UserID && m.CareerID == roadmap.CareerID {
			removed[m.ID] = true
			continue
		}
		kept = append(kept, m)
	}
	f.maps = kept
	tasks := f.tasks[:0]
	for _, t := range f.tasks {
		if !removed[t.RoadmapID] {
			tasks = append(tasks, t)
		}
	}
	f.tasks = tasks

	roadmap.ID = f.id()
	for i := range roadmap.Tasks {
		roadmap.Tasks[i].ID = f.id()
		roadmap.Tasks[i].RoadmapID = roadmap.ID
		roadmap.Tasks[i].UserID = roadmap.UserID
		f.tasks = append(f.tasks, roadmap.Tasks[i])
	}
	cp := *roadmap
	cp.Tasks = nil
	f.maps = append(f.maps, cp)
	return nil
}

func (f fakeRoadmaps) Save(_ context.Context, roadmap *model.Roadmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if roadmap.ID == 0 {
		roadmap.ID = f.id()
	}
	cp := *roadmap
	cp.Tasks = nil
	for i := range f.maps {
		if f.maps[i].ID == roadmap.ID {
			f.maps[i] = cp
			return nil
		}
	}
	f.maps = append(f.maps, cp)
	return nil
}

// tasks

type fakeTasks struct{ *fakeStore }

func (f fakeTasks) match(userID uint, filter repository.TaskFilter, t model.RoadmapTask) bool {
	if t.UserID != userID {
		return false
	}
	if filter.RoadmapID > 0 && t.RoadmapID != filter.RoadmapID {
		return false
	}
	if filter.CompletedOnly && t.CompletedAt == nil {
		return false
	}
	if filter.Since != nil && (t.CompletedAt == nil || t.CompletedAt.Before(*filter.Since)) {
		return false
	}
	return true
}

func (f fakeTasks) CountTasks(_ context.Context, userID uint, filter repository.TaskFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, t := range f.tasks {
		if f.match(userID, filter, t) {
			n++
		}
	}
	return n, nil
}

func (f fakeTasks) ListTasks(_ context.Context, userID uint, filter repository.TaskFilter) ([]model.RoadmapTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.RoadmapTask
	for _, t := range f.tasks {
		if f.match(userID, filter, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f fakeTasks) FindByIDAndUser(_ context.Context, id, userID uint) (*model.RoadmapTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id && t.UserID == userID {
			cp := t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeTasks) MarkCompleted(_ context.Context, id, userID uint, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		t := &f.tasks[i]
		if t.ID == id && t.UserID == userID && t.CompletedAt == nil {
			done := at
			t.CompletedAt = &done
			return true, nil
		}
	}
	return false, nil
}

// quizzes

type fakeQuizzes struct{ *fakeStore }

func (f fakeQuizzes) Create(_ context.Context, quiz *model.Quiz) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	quiz.ID = f.id()
	f.quizzes = append(f.quizzes, *quiz)
	return nil
}

func (f fakeQuizzes) SaveSubmission(_ context.Context, quiz *model.Quiz) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.quizzes {
		q := &f.quizzes[i]
		if q.ID == quiz.ID && q.UserID == quiz.UserID && q.Status == model.QuizGenerated {
			q.Answers = quiz.Answers
			q.Accuracy = quiz.Accuracy
			q.Passed = quiz.Passed
			q.Status = model.QuizSubmitted
			return true, nil
		}
	}
	return false, nil
}

func (f fakeQuizzes) FindByIDAndUser(_ context.Context, id, userID uint) (*model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.quizzes {
		if q.ID == id && q.UserID == userID {
			cp := q
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeQuizzes) ListByUser(_ context.Context, userID uint) ([]model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f fakeQuizzes) ListSubmitted(_ context.Context, userID uint, filter repository.QuizFilter) ([]model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.UserID != userID || q.Status != model.QuizSubmitted {
			continue
		}
		if filter.PassedOnly && !q.Passed {
			continue
		}
		if filter.Since != nil && q.UpdatedAt.Before(*filter.Since) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// careers

type fakeCareers struct{ *fakeStore }

func (f fakeCareers) List(_ context.Context) ([]model.Career, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Career(nil), f.careers...), nil
}

func (f fakeCareers) FindByID(_ context.Context, id uint) (*model.Career, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.careers {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeCareers) FindByName(_ context.Context, name string) (*model.Career, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.careers {
		if strings.EqualFold(c.Name, name) {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeCareers) Create(_ context.Context, career *model.Career) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	career.ID = f.id()
	f.careers = append(f.careers, *career)
	return nil
}

// fakeJobs returns a fixed outcome and records the roles asked for.
type fakeJobs struct {
	mu      sync.Mutex
	outcome JobSearchOutcome
	calls   []string
}

func (f *fakeJobs) Search(_ context.Context, role string) JobSearchOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, role)
	return f.outcome
}

// readBarrier holds each caller until n callers have arrived, so concurrent
// requests all read the same row state before any of them writes.
type readBarrier struct{ wg sync.WaitGroup }

func newReadBarrier(n int) *readBarrier {
	b := &readBarrier{}
	b.wg.Add(n)
	return b
}

func (b *readBarrier) wait() {
	b.wg.Done()
	b.wg.Wait()
}

type barrierTasks struct {
	fakeTasks
	barrier *readBarrier
}

func (b barrierTasks) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.RoadmapTask, error) {
	t, err := b.fakeTasks.FindByIDAndUser(ctx, id, userID)
	b.barrier.wait()
	return t, err
}

type barrierQuizzes struct {
	fakeQuizzes
	barrier *readBarrier
}

func (b barrierQuizzes) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Quiz, error) {
	q, err := b.fakeQuizzes.FindByIDAndUser(ctx, id, userID)
	b.barrier.wait()
	return q, err
}

// runConcurrently calls fn n times in parallel and returns the errors by index.
func runConcurrently(n int, fn func() error) []error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn()
		}(i)
	}
	wg.Wait()
	return errs
}
