package services

import (
	"fmt"
	"strings"
	"time"

	apperrors "frontoffice/errors"
	"frontoffice/models"

	"github.com/dgrijalva/jwt-go"
)

// ParseActorToken xác thực chữ ký HS256 và lấy Actor từ claim "userinfo"
func ParseActorToken(tokenString, secret string) (models.Actor, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if strings.Count(tokenString, ".") != 2 {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "malformed token", nil)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "invalid claims", nil)
	}
	userInfo, ok := claims["userinfo"].(map[string]interface{})
	if !ok {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "userinfo claim missing", nil)
	}

	businessID, okBusiness := userInfo["businessid"].(float64)
	userID, okUser := userInfo["userid"].(float64)
	if !okBusiness || !okUser || businessID <= 0 {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "business or user id missing", nil)
	}
	branchID, _ := userInfo["branchid"].(float64)
	role, _ := userInfo["role"].(string)
	if role == "" {
		return models.Actor{}, apperrors.NewAppError(apperrors.ErrCodeInvalidToken, "role missing", nil)
	}

	return models.Actor{
		BusinessID: uint(businessID),
		BranchID:   uint(branchID),
		ActorID:    uint(userID),
		Role:       role,
	}, nil
}

// IssueActorToken ký token cho actor, dùng cho môi trường dev và test
func IssueActorToken(actor models.Actor, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userinfo": map[string]interface{}{
			"businessid": actor.BusinessID,
			"branchid":   actor.BranchID,
			"userid":     actor.ActorID,
			"role":       actor.Role,
		},
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
