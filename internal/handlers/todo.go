package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	dom "github.com/birlikkoshan/todo-live/internal/domain"
	"github.com/birlikkoshan/todo-live/internal/dto"
	"github.com/birlikkoshan/todo-live/internal/render"
	"github.com/birlikkoshan/todo-live/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeHTML = "text/html; charset=utf-8"

type TodoHandler struct {
	svc      *service.TodoService
	renderer *render.Renderer
	logger   *slog.Logger
}

func NewTodoHandler(svc *service.TodoService, renderer *render.Renderer, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, renderer: renderer, logger: logger}
}

// Index serves the page.
func (h *TodoHandler) Index(c *gin.Context) {
	page, err := h.renderer.Index()
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.Data(http.StatusOK, mimeHTML, page)
}

// Create godoc
// @Summary      Create a todo
// @Description  Accepts JSON or a form post. Form posts get the rendered row back.
// @Tags         todos
// @Accept       json,x-www-form-urlencoded
// @Produce      json,html
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Description)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDescription) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err)
		return
	}
	h.respondTodo(c, http.StatusCreated, t)
}

// List godoc
// @Summary      List all todos
// @Description  Returns the list fragment when the client prefers text/html.
// @Tags         todos
// @Produce      json,html
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		fragment, err := h.renderer.Todos(list)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.Data(http.StatusOK, mimeHTML, fragment)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Items: todosToResponses(list)})
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Set the completed flag of a todo
// @Description  Accepts JSON or a form post. Form posts get the rendered row back.
// @Tags         todos
// @Accept       json,x-www-form-urlencoded
// @Produce      json,html
// @Param        id    path      int                    true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "New completed value"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.SetCompleted(c.Request.Context(), id, *req.Completed)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.respondTodo(c, http.StatusOK, t)
}

// Delete godoc
// @Summary      Delete a todo
// @Description  Responds 200 with an empty body so htmx removes the row.
// @Tags         todos
// @Param        id   path  int  true  "Todo ID"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// respondTodo answers form posts with the rendered row and everything else
// with JSON.
func (h *TodoHandler) respondTodo(c *gin.Context, status int, t dom.Todo) {
	if !isFormPost(c) {
		c.JSON(status, todoToResponse(t))
		return
	}
	fragment, err := h.renderer.Todo(t)
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.Data(status, mimeHTML, []byte(fragment))
}

func (h *TodoHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.serverError(c, err)
}

func (h *TodoHandler) serverError(c *gin.Context, err error) {
	h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
