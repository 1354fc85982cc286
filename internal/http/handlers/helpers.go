package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-platform/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-platform/internal/pkg/apperror"
)

// respondServiceError переводит ошибку сервисного слоя в HTTP ответ.
// AppError несёт собственный статус, всё остальное маскируется как 500.
func respondServiceError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		common.RespondError(c, appErr.HTTPStatus, appErr.Message)
		return
	}
	common.RespondInternalError(c, "")
}
