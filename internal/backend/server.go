package backend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
)

// Server is the dev task-service HTTP server
type Server struct {
	storage *Storage
	router  *gin.Engine
}

// NewServer creates the server and its routes
func NewServer(storage *Storage) *Server {
	router := gin.Default()
	router.Use(requestID())

	s := &Server{storage: storage, router: router}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.GET("/instances", s.handleListInstances)
		api.POST("/instances", s.handleCreateInstance)
		api.PATCH("/instances/:id", s.handleUpdateInstance)
	}

	return s
}

// Run starts the server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router; used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestID echoes the client correlation id, generating one when the
// client did not send any.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.storage.ListTasks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tasks == nil {
		tasks = []dto.TaskDTO{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var task dto.TaskDTO
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if task.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if task.Status == "" {
		task.Status = string(entity.StatusPending)
	}
	if task.Clarity == "" {
		task.Clarity = string(entity.ClarityClear)
	}
	if task.Impact == 0 {
		task.Impact = 2
	}
	created, err := s.storage.CreateTask(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch dto.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.storage.UpdateTask(id, patch)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrTaskNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.storage.DeleteTask(id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrTaskNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListInstances(c *gin.Context) {
	instances, err := s.storage.ListInstances()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if instances == nil {
		instances = []dto.InstanceDTO{}
	}
	c.JSON(http.StatusOK, instances)
}

func (s *Server) handleCreateInstance(c *gin.Context) {
	var inst dto.InstanceDTO
	if err := c.ShouldBindJSON(&inst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if inst.TaskID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id is required"})
		return
	}
	created, err := s.storage.CreateInstance(inst)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInstanceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateInstance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch dto.InstancePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inst, err := s.storage.UpdateInstance(id, patch)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrInstanceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inst)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
