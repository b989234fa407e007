package controller

import "github.com/labstack/echo/v4"

type FolderController interface {
	Create(c echo.Context) error
	List(c echo.Context) error
	Documents(c echo.Context) error
}
