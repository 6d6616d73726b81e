package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
)

// UserService is the account side of the API.
type UserService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
}

// TaskService is the task side of the API. Every call is scoped to ownerID.
type TaskService interface {
	List(ctx context.Context, ownerID int64) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Task, error)
	Create(ctx context.Context, ownerID int64, title string, description *string) (*models.Task, error)
	Search(ctx context.Context, ownerID int64, term string) ([]*models.Task, error)
	ListWithDetails(ctx context.Context, ownerID int64) ([]*models.TaskWithUser, error)
	Export(ctx context.Context, ownerID int64) (*services.ExportResult, error)
}

// Pinger reports store liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler binds the services to HTTP routes.
type Handler struct {
	users  UserService
	tasks  TaskService
	tokens TokenVerifier
	db     Pinger
}

// NewHandler constructs a Handler.
func NewHandler(us UserService, ts TaskService, tv TokenVerifier, db Pinger) *Handler {
	return &Handler{users: us, tasks: ts, tokens: tv, db: db}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type createTaskResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"taskId"`
}

// register mounts the routes. Auth is attached per route so that unknown
// paths under /api still answer 404 rather than 401.
func (h *Handler) register(e *echo.Echo) {
	e.GET("/healthz", h.health)

	authMW := requireAuth(h.tokens)

	api := e.Group("/api")
	api.POST("/register", h.registerUser)
	api.POST("/login", h.login)
	api.GET("/tasks", h.listTasks, authMW)
	api.POST("/tasks", h.createTask, authMW)
	api.POST("/tasks/export", h.exportTasks, authMW)
	api.GET("/tasks/:id", h.getTask, authMW)
	api.GET("/search", h.searchTasks, authMW)
	api.GET("/tasks-with-details", h.listTasksWithDetails, authMW)
}

// bind decodes a JSON body. Query and path parameters are never bound.
func bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	return nil
}

func (h *Handler) health(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, msgDatabaseUnavailable).SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) registerUser(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.users.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return httpError(err, msgServerError)
	}

	return c.JSON(http.StatusCreated, registerResponse{Message: "User created successfully", UserID: u.ID})
}

func (h *Handler) login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.users.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err, msgServerError)
	}

	return c.JSON(http.StatusOK, loginResponse{Token: res.Token, User: res.User})
}

func (h *Handler) listTasks(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	list, err := h.tasks.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err, msgDatabaseError)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) getTask(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidTaskID)
	}

	task, err := h.tasks.Get(c.Request().Context(), claims.UserID, id)
	if err != nil {
		return httpError(err, msgDatabaseError)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) createTask(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), claims.UserID, req.Title, req.Description)
	if err != nil {
		return httpError(err, msgDatabaseError)
	}

	return c.JSON(http.StatusCreated, createTaskResponse{Message: "Task created successfully", TaskID: task.ID})
}

func (h *Handler) searchTasks(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	list, err := h.tasks.Search(c.Request().Context(), claims.UserID, c.QueryParam("q"))
	if err != nil {
		return httpError(err, msgDatabaseError)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) listTasksWithDetails(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	list, err := h.tasks.ListWithDetails(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err, msgDatabaseError)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) exportTasks(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	res, err := h.tasks.Export(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err, msgServerError)
	}
	return c.JSON(http.StatusCreated, res)
}
