package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error writes the rejection envelope used by every gate and handler:
// {"success": false, "error": {"code": ..., "message": ...}}
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, echo.Map{
		"success": false,
		"error": echo.Map{
			"code":    code,
			"message": message,
		},
	})
}

// OK writes a success envelope with the given payload
func OK(c echo.Context, data echo.Map) error {
	return c.JSON(http.StatusOK, success(data))
}

// Created writes a success envelope with status 201
func Created(c echo.Context, data echo.Map) error {
	return c.JSON(http.StatusCreated, success(data))
}

func success(data echo.Map) echo.Map {
	body := echo.Map{"success": true}
	for k, v := range data {
		body[k] = v
	}
	return body
}
