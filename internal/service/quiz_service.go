package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"carevo_backend/pkg/logger"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
)

// QuizInput 生成测验请求
// swagger:model QuizInput
type QuizInput struct {
	CareerID  uint            `json:"careerId" binding:"required"`
	SkillName string          `json:"skillName" binding:"required,max=100"`
	Level     model.QuizLevel `json:"level" binding:"required,oneof=easy medium advanced"`
}

// QuizSubmission 提交答案
// swagger:model QuizSubmission
type QuizSubmission struct {
	Answers []int `json:"answers" binding:"required,dive,gte=0"`
}

// PublicQuestion is a question without its answer key.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// PublicQuiz is what clients see of a quiz.
// swagger:model PublicQuiz
type PublicQuiz struct {
	ID        uint             `json:"id"`
	CareerID  uint             `json:"careerId"`
	SkillName string           `json:"skillName"`
	Level     model.QuizLevel  `json:"level"`
	Status    model.QuizStatus `json:"status"`
	Questions []PublicQuestion `json:"questions"`
	Accuracy  float64          `json:"accuracy"`
	Passed    bool             `json:"passed"`
	CreatedAt time.Time        `json:"createdAt"`
}

// QuizResult 测验评分结果
type QuizResult struct {
	Quiz      PublicQuiz        `json:"quiz"`
	Correct   int               `json:"correct"`
	Total     int               `json:"total"`
	Accuracy  float64           `json:"accuracy"`
	Passed    bool              `json:"passed"`
	XPAwarded int               `json:"xpAwarded"`
	Skill     *model.SkillEntry `json:"skill,omitempty"`
	NewBadges []model.Badge     `json:"newBadges"`
}

// PassThreshold is the minimum accuracy needed to clear a level.
func PassThreshold(level model.QuizLevel) float64 {
	switch level {
	case model.LevelEasy:
		return 60
	case model.LevelMedium:
		return 70
	case model.LevelAdvanced:
		return 80
	default:
		return 100
	}
}

// QuizXP is the XP for a submitted quiz.
func QuizXP(level model.QuizLevel, passed bool) int {
	if !passed {
		return 5
	}
	return 20 * level.Ordinal()
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoreAnswers counts correct answers and returns accuracy on 0..100 rounded
// to two decimals.
func ScoreAnswers(questions []model.QuizQuestion, answers []int) (int, float64) {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.AnswerIndex {
			correct++
		}
	}
	return correct, roundTo2(Percent(float64(correct), float64(len(questions))))
}

// ApplyQuizResult updates a skill entry after a quiz on it.
func ApplyQuizResult(entry model.SkillEntry, level model.QuizLevel, accuracy float64, passed bool) model.SkillEntry {
	score := roundInt(accuracy)
	if entry.ValidatedScore == nil || score > *entry.ValidatedScore {
		entry.ValidatedScore = util.IntPtr(score)
	}
	if passed && level.Ordinal() > entry.HighestQuizLevelCleared.Ordinal() {
		entry.HighestQuizLevelCleared = level
	}
	entry.FinalScore = FinalScore(entry.SelfRating, entry.ValidatedScore)
	return entry
}

func publicQuiz(q *model.Quiz) PublicQuiz {
	questions := make([]PublicQuestion, 0, len(q.Questions))
	for _, qq := range q.Questions {
		questions = append(questions, PublicQuestion{Question: qq.Question, Options: qq.Options})
	}
	return PublicQuiz{
		ID:        q.ID,
		CareerID:  q.CareerID,
		SkillName: q.SkillName,
		Level:     q.Level,
		Status:    q.Status,
		Questions: questions,
		Accuracy:  q.Accuracy,
		Passed:    q.Passed,
		CreatedAt: q.CreatedAt,
	}
}

type QuizService struct {
	QuizRepo     QuizStore
	SkillRepo    SkillStore
	CareerRepo   CareerStore
	AI           ChatModel
	Gamification *GamificationService
}

func NewQuizService(quizRepo QuizStore, skillRepo SkillStore, careerRepo CareerStore, ai ChatModel, gamification *GamificationService) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		SkillRepo:    skillRepo,
		CareerRepo:   careerRepo,
		AI:           ai,
		Gamification: gamification,
	}
}

const quizSystemPrompt = "You write multiple-choice skill assessments. Reply with JSON only, no prose."

func (s *QuizService) Generate(ctx context.Context, userID uint, in QuizInput) (*PublicQuiz, error) {
	if !in.Level.Valid() {
		return nil, util.ErrInvalidQuizLevel
	}

	career, err := s.CareerRepo.FindByID(ctx, in.CareerID)
	if err != nil {
		return nil, err
	}
	if career == nil {
		return nil, util.ErrCareerNotFound
	}

	record, err := s.SkillRepo.FindByUserAndCareer(ctx, userID, in.CareerID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.FindSkill(in.SkillName) < 0 {
		return nil, util.ErrSkillNotFound
	}

	prompt := fmt.Sprintf(
		"Write %d %s-level multiple-choice questions testing the skill %q for a %s. "+
			"Return a JSON array of objects with keys \"question\" (string), \"options\" (array of 4 strings) "+
			"and \"answerIndex\" (0-based index of the correct option).",
		util.QuizQuestionCount, in.Level, in.SkillName, career.Name)

	reply, err := s.AI.Chat(ctx, quizSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuizQuestions(reply)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		UserID:    userID,
		CareerID:  in.CareerID,
		SkillName: in.SkillName,
		Level:     in.Level,
		Questions: questions,
		Status:    model.QuizGenerated,
	}
	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	pq := publicQuiz(quiz)
	return &pq, nil
}

// parseQuizQuestions keeps the first QuizQuestionCount well-formed questions.
func parseQuizQuestions(reply string) ([]model.QuizQuestion, error) {
	var raw []model.QuizQuestion
	if err := decodeModelJSON(reply, &raw); err != nil {
		return nil, err
	}

	questions := make([]model.QuizQuestion, 0, util.QuizQuestionCount)
	for _, q := range raw {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 {
			continue
		}
		if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			continue
		}
		questions = append(questions, q)
		if len(questions) == util.QuizQuestionCount {
			break
		}
	}

	if len(questions) < util.QuizQuestionCount {
		return nil, fmt.Errorf("%w: got %d usable questions", util.ErrAIUnavailable, len(questions))
	}
	return questions, nil
}

func (s *QuizService) Submit(ctx context.Context, userID, quizID uint, answers []int) (*QuizResult, error) {
	quiz, err := s.QuizRepo.FindByIDAndUser(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.Status == model.QuizSubmitted {
		return nil, util.ErrQuizAlreadySubmitted
	}
	if len(answers) != len(quiz.Questions) {
		return nil, util.ErrAnswerCountMismatch
	}

	correct, accuracy := ScoreAnswers(quiz.Questions, answers)
	passed := accuracy >= PassThreshold(quiz.Level)

	quiz.Answers = answers
	quiz.Accuracy = accuracy
	quiz.Passed = passed
	quiz.Status = model.QuizSubmitted
	ok, err := s.QuizRepo.SaveSubmission(ctx, quiz)
	if err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	if !ok {
		return nil, util.ErrQuizAlreadySubmitted
	}

	result := &QuizResult{
		Correct:   correct,
		Total:     len(quiz.Questions),
		Accuracy:  accuracy,
		Passed:    passed,
		NewBadges: []model.Badge{},
	}

	skill, err := s.updateSkill(ctx, quiz)
	if err != nil {
		return nil, err
	}
	result.Skill = skill

	xp := QuizXP(quiz.Level, passed)
	_, badges, err := s.Gamification.AwardXP(ctx, userID, xp)
	if err != nil {
		return nil, err
	}
	result.XPAwarded = xp
	result.NewBadges = append(result.NewBadges, badges...)

	if passed {
		b, err := s.Gamification.AwardBadge(ctx, userID, model.BadgeQuizFirstPass)
		if err != nil {
			return nil, err
		}
		if b != nil {
			result.NewBadges = append(result.NewBadges, *b)
		}
	}

	result.Quiz = publicQuiz(quiz)
	return result, nil
}

func (s *QuizService) updateSkill(ctx context.Context, quiz *model.Quiz) (*model.SkillEntry, error) {
	record, err := s.SkillRepo.FindByUserAndCareer(ctx, quiz.UserID, quiz.CareerID)
	if err != nil {
		return nil, err
	}
	idx := -1
	if record != nil {
		idx = record.FindSkill(quiz.SkillName)
	}
	if idx < 0 {
		logger.Log.Warn("quiz skill no longer on record",
			zap.Uint("quizID", quiz.ID), zap.String("skill", quiz.SkillName))
		return nil, nil
	}

	updated := ApplyQuizResult(record.Skills[idx], quiz.Level, quiz.Accuracy, quiz.Passed)
	record.Skills[idx] = updated
	if err := s.SkillRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save skill: %w", err)
	}
	return &updated, nil
}

func (s *QuizService) List(ctx context.Context, userID uint) ([]PublicQuiz, error) {
	quizzes, err := s.QuizRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]PublicQuiz, 0, len(quizzes))
	for i := range quizzes {
		out = append(out, publicQuiz(&quizzes[i]))
	}
	return out, nil
}
