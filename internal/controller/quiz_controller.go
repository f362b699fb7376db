package controller

import (
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func (c *QuizController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCareerNotFound),
		errors.Is(err, util.ErrSkillNotFound),
		errors.Is(err, util.ErrQuizNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidQuizLevel),
		errors.Is(err, util.ErrAnswerCountMismatch):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrQuizAlreadySubmitted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrAIUnavailable):
		util.BadGateway(ctx, "quiz generation is temporarily unavailable")
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 生成技能验证测验
// @Description 由大模型生成5道单选题，不返回答案
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizInput true "测验参数"
// @Success 201 {object} util.Response{data=service.PublicQuiz}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/quizzes [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Generate(ctx.Request.Context(), userID, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary 提交测验答案
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param body body service.QuizSubmission true "答案"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "已提交"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	quizID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(ctx.Request.Context(), userID, quizID, req.Answers)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 我的测验
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.PublicQuiz}
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	quizzes, err := c.QuizService.List(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}
