package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	ErrorCode  string      `json:"errorCode,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "OK",
		Data: data,
	})
}

// Created trả về 201 kèm dữ liệu vừa tạo
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "OK",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Fail trả về lỗi nghiệp vụ với mã lỗi để client hiển thị đúng thông báo
func Fail(c *gin.Context, status int, errorCode, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: errorCode,
	})
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Code:      0,
		Mess:      "internal server error",
		ErrorCode: "DB_ERROR",
	})
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Code:      0,
		Mess:      message,
		ErrorCode: "UNAUTHORIZED",
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Code:      0,
		Mess:      "forbidden",
		ErrorCode: "FORBIDDEN",
	})
}
