package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskcore/taskmanager/internal/domain"
	"github.com/taskcore/taskmanager/internal/service"
	"github.com/taskcore/taskmanager/internal/service/serviceutils"
	"github.com/taskcore/taskmanager/pkg/taskreport"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *TaskHandler) CreateHandler(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "invalid request body", err)
	}
	task, err := h.svc.Add(c.Request().Context(), req.Title, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "task created", task)
}

func (h *TaskHandler) ListHandler(c echo.Context) error {
	tasks, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "tasks retrieved", tasks)
}

func (h *TaskHandler) GetHandler(c echo.Context) error {
	task, err := h.svc.Find(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task retrieved", task)
}

func (h *TaskHandler) CompleteHandler(c echo.Context) error {
	task, err := h.svc.MarkComplete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task completed", task)
}

func (h *TaskHandler) DeleteHandler(c echo.Context) error {
	task, err := h.svc.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task deleted", task)
}

func (h *TaskHandler) SearchHandler(c echo.Context) error {
	tasks, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "search results", tasks)
}

func (h *TaskHandler) StatisticsHandler(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "task statistics", stats)
}

// ExportHandler streams the current task list plus statistics as an xlsx
// workbook.
func (h *TaskHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	tasks, err := h.svc.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	stats, err := h.svc.Statistics(ctx)
	if err != nil {
		return respondError(c, err)
	}

	fileName := fmt.Sprintf("tasks_report_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	c.Response().WriteHeader(http.StatusOK)

	return taskreport.Write(c.Response().Writer, tasks, stats, taskreport.DefaultLayout())
}

func respondError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	var nfe *domain.NotFoundError
	var pe *domain.PersistenceError
	switch {
	case errors.As(err, &ve):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "validation failed", err)
	case errors.As(err, &nfe):
		return serviceutils.ResponseError(c, http.StatusNotFound, "task not found", err)
	case errors.As(err, &pe):
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "storage failure", err)
	default:
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "unexpected error", err)
	}
}
