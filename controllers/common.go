package controllers

import (
	"strconv"

	apperrors "frontoffice/errors"
	"frontoffice/middleware"
	"frontoffice/models"

	"github.com/gin-gonic/gin"
)

// actorOf lấy Actor do AuthMiddleware gắn vào; false khi thiếu
func actorOf(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		_ = c.Error(apperrors.ErrUnauthorized)
	}
	return actor, ok
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		_ = c.Error(apperrors.Validation("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// bindJSON gắn lỗi binding thành VALIDATION_ERROR
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(apperrors.NewAppError(apperrors.ErrCodeValidation, err.Error(), err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		_ = c.Error(apperrors.NewAppError(apperrors.ErrCodeValidation, err.Error(), err))
		return false
	}
	return true
}
