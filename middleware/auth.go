package middleware

import (
	"net/http"

	apperrors "frontoffice/errors"
	"frontoffice/models"
	"frontoffice/response"
	"frontoffice/services"

	"github.com/gin-gonic/gin"
)

const ActorKey = "actor"

// AuthMiddleware xác thực bearer token và gắn Actor vào context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		actor, err := services.ParseActorToken(authHeader, secret)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// RoleMiddleware kiểm tra role của actor
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Unauthorized(c, "missing identity")
			return
		}
		for _, r := range roles {
			if r == actor.Role {
				c.Next()
				return
			}
		}
		response.Forbidden(c)
	}
}

func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict, apperrors.ErrCodeRoomNotAvailable, apperrors.ErrCodeInvalidTransition:
		return http.StatusConflict
	case apperrors.ErrCodeOverpayment:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnauthorized, apperrors.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler xử lý lỗi controller đẩy vào c.Errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code == apperrors.ErrCodeDBError {
			response.ServerError(c)
			return
		}
		response.Fail(c, StatusFor(appErr.Code), string(appErr.Code), appErr.Message)
	}
}
