package controller

import (
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

func overviewHints(ctx *gin.Context) service.OverviewHints {
	return service.OverviewHints{Role: ctx.Query("role")}
}

// @Summary 职业分析概览
// @Description 技能、活跃度、市场价值、面试准备度与岗位信息
// @Tags 分析
// @Produce json
// @Security ApiKeyAuth
// @Param role query string false "目标岗位（无路线和兴趣时使用）"
// @Success 200 {object} util.Response{data=model.OverviewResult}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/analytics/overview [get]
func (c *AnalyticsController) GetOverview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	overview, err := c.AnalyticsService.ComputeOverview(ctx.Request.Context(), userID, overviewHints(ctx))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, overview)
}

// @Summary 导出分析概览
// @Description 以 Excel 工作簿导出（Overview、Heatmap、Skills 三个工作表）
// @Tags 分析
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param role query string false "目标岗位"
// @Success 200 {file} file
// @Router /api/analytics/overview/export [get]
func (c *AnalyticsController) ExportOverview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	data, err := c.AnalyticsService.ExportOverview(ctx.Request.Context(), userID, overviewHints(ctx))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="carevo-overview-%d.xlsx"`, userID))
	ctx.Data(http.StatusOK, xlsxContentType, data)
}
