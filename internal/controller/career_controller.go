package controller

import (
	"carevo_backend/internal/service"
	"carevo_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type CareerController struct {
	CareerService *service.CareerService
}

func NewCareerController(careerService *service.CareerService) *CareerController {
	return &CareerController{CareerService: careerService}
}

// @Summary 职业列表
// @Tags 职业
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Career}
// @Router /api/careers [get]
func (c *CareerController) List(ctx *gin.Context) {
	careers, err := c.CareerService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, careers)
}

// @Summary 职业详情
// @Tags 职业
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "职业ID"
// @Success 200 {object} util.Response{data=model.Career}
// @Failure 404 {object} util.Response
// @Router /api/careers/{id} [get]
func (c *CareerController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	career, err := c.CareerService.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, util.ErrCareerNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, career)
}

// @Summary 新增职业（管理员）
// @Tags 职业
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CareerInput true "职业信息"
// @Success 201 {object} util.Response{data=model.Career}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/admin/careers [post]
func (c *CareerController) Create(ctx *gin.Context) {
	var req service.CareerInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	career, err := c.CareerService.Create(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrCareerExists) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, career)
}
