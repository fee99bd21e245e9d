package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nissyi-gh/prio/internal/logger"
	"github.com/nissyi-gh/prio/internal/model"
	"github.com/nissyi-gh/prio/internal/rank"
	"github.com/nissyi-gh/prio/internal/store"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

// listTasks returns the ranked task list. Query parameters:
// ordering (score, -score, deadline), completed (true/false), overdue (true).
func (s *Server) listTasks(c *gin.Context) {
	key, err := rank.ParseSortKey(c.Query("ordering"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	tasks, err := s.repo.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := s.now()
	if v, ok := c.GetQuery("completed"); ok {
		want := strings.EqualFold(v, "true")
		tasks = filter(tasks, func(t model.Task) bool { return t.Completed == want })
	}
	if strings.EqualFold(c.Query("overdue"), "true") {
		tasks = filter(tasks, func(t model.Task) bool { return t.IsOverdue(now) })
	}

	ranked := rank.Rank(tasks, now, key)
	rankRequests.WithLabelValues(key.String()).Inc()

	out := make([]TaskJSON, len(ranked))
	for i, r := range ranked {
		out[i] = NewTaskJSON(r, now)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	t, err := s.repo.Add(c.Request.Context(), req.model())
	if err != nil {
		s.respondError(c, err)
		return
	}
	logger.Info("task created", "id", t.ID, "name", t.Name)
	s.hub.Publish(Event{Type: EventCreated, ID: t.ID})
	c.JSON(http.StatusCreated, s.single(t))
}

func (s *Server) getTask(c *gin.Context) {
	t, err := s.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.single(t))
}

func (s *Server) toggleComplete(c *gin.Context) {
	t, err := s.repo.ToggleComplete(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.hub.Publish(Event{Type: EventUpdated, ID: t.ID})
	c.JSON(http.StatusOK, s.single(t))
}

func (s *Server) deleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	logger.Info("task deleted", "id", id)
	s.hub.Publish(Event{Type: EventDeleted, ID: id})
	c.Status(http.StatusNoContent)
}

func (s *Server) single(t model.Task) TaskJSON {
	now := s.now()
	return NewTaskJSON(rank.Ranked{Task: t, Score: rank.Score(t, now)}, now)
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidTask):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
	default:
		logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func filter(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
