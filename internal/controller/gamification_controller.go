package controller

import (
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	GamificationService *service.GamificationService
}

func NewGamificationController(gamificationService *service.GamificationService) *GamificationController {
	return &GamificationController{GamificationService: gamificationService}
}

// @Summary 每日签到
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.CheckInResult}
// @Failure 409 {object} util.Response "今日已签到"
// @Router /api/gamification/check-in [post]
func (c *GamificationController) CheckIn(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	res, err := c.GamificationService.CheckIn(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCheckedIn) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, res)
}

// @Summary 经验与徽章
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.GamificationProfile}
// @Router /api/gamification [get]
func (c *GamificationController) Profile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	profile, err := c.GamificationService.Profile(ctx.Request.Context(), userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 排行榜
// @Tags 激励
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "条数" default(10)
// @Success 200 {object} util.Response{data=[]repository.LeaderboardRow}
// @Router /api/gamification/leaderboard [get]
func (c *GamificationController) Leaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	rows, err := c.GamificationService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
