package controllerImp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"docqa/entities"
	docCtrl "docqa/pkg/document/controllerImp"
	"docqa/pkg/folder/controller"
	"docqa/pkg/folder/service"
)

type DocumentLister interface {
	ListByFolder(ctx context.Context, folderID uint) ([]entities.DocumentRecord, error)
}

type folderCtrl struct {
	s    service.FolderService
	docs DocumentLister
}

func New(s service.FolderService, docs DocumentLister) controller.FolderController {
	return &folderCtrl{s: s, docs: docs}
}

func (h *folderCtrl) Create(c echo.Context) error {
	var in struct {
		FolderName string `json:"folder_name"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	f, err := h.s.Create(c.Request().Context(), in.FolderName)
	switch {
	case errors.Is(err, service.ErrNameRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Folder name is required"})
	case errors.Is(err, service.ErrFolderExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Folder '%s' created successfully", f.Name),
		"folder":  f,
	})
}

func (h *folderCtrl) List(c echo.Context) error {
	list, err := h.s.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

func (h *folderCtrl) Documents(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.s.Get(ctx, uint(id)); err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	recs, err := h.docs.ListByFolder(ctx, uint(id))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, docCtrl.Views(recs))
}
