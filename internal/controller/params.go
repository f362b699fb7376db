package controller

import (
	"carevo_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// idParam parses a positive numeric path parameter, answering 400 otherwise.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID answers 401 when the request carries no claims.
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
