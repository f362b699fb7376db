package controller

import (
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// @Summary 生成学习路线
// @Description 按天生成学习任务，会替换该职业已有的路线
// @Tags 路线
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RoadmapInput true "路线参数"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/roadmaps [post]
func (c *RoadmapController) Generate(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req service.RoadmapInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	roadmap, err := c.RoadmapService.Generate(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidRoadmapDays):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrCareerNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrAIUnavailable):
			util.BadGateway(ctx, "roadmap generation is temporarily unavailable")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, roadmap)
}

// @Summary 获取学习路线
// @Tags 路线
// @Produce json
// @Security ApiKeyAuth
// @Param careerId query int false "职业ID，不传时返回第一条路线"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response
// @Router /api/roadmaps [get]
func (c *RoadmapController) Get(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var careerID uint64
	if raw := ctx.Query("careerId"); raw != "" {
		var err error
		if careerID, err = strconv.ParseUint(raw, 10, 32); err != nil {
			util.BadRequest(ctx, "invalid careerId")
			return
		}
	}

	roadmap, err := c.RoadmapService.Get(ctx.Request.Context(), userID, uint(careerID))
	if err != nil {
		if errors.Is(err, util.ErrRoadmapNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, roadmap)
}

// @Summary 完成每日任务
// @Tags 路线
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=service.TaskCompletion}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "已完成"
// @Router /api/tasks/{id}/complete [post]
func (c *RoadmapController) CompleteTask(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	res, err := c.RoadmapService.CompleteTask(ctx.Request.Context(), userID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTaskNotFound):
			util.Error(ctx, http.StatusNotFound, err.Error())
		case errors.Is(err, util.ErrTaskAlreadyCompleted):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}
