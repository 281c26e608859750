// SPDX-License-Identifier: MIT

package remote

import (
	"bytes"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/katalvlaran/smartop/distribution"
	"github.com/katalvlaran/smartop/internal/logging"
	"github.com/katalvlaran/smartop/internal/metrics"
	"github.com/katalvlaran/smartop/matrix"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// ErrorResponse is the JSON body of non-envelope errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ServerConfig configures a worker.
type ServerConfig struct {
	ThreadMultiplier int
	Options          []matrix.Option
	Logger           logging.Logger
}

// Server is a worker holding the shared data of the jobs it serves.
type Server struct {
	cfg   ServerConfig
	codec distribution.Codec
	log   logging.Logger

	mu   sync.RWMutex
	jobs map[string]*distribution.SharedData
}

// NewServer returns a worker with no jobs.
func NewServer(cfg ServerConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Server{cfg: cfg, log: log, jobs: make(map[string]*distribution.SharedData)}
}

// Handler returns the gin engine serving the worker routes.
func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	v1 := router.Group("/v1/jobs/:id")
	v1.PUT("/shared", s.handleShared)
	v1.POST("/tasks", s.handleTask)
	v1.DELETE("", s.handleDelete)

	return router
}

// Jobs returns the number of jobs currently held.
func (s *Server) Jobs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.jobs)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "jobs": s.Jobs()})
}

func (s *Server) handleShared(c *gin.Context) {
	id := c.Param("id")
	var env distribution.SharedEnvelope
	if err := s.codec.Decode(c.Request.Body, &env); err != nil {
		s.log.Error("invalid shared data", err, logging.String("job", id))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	shared, err := distribution.DecodeShared(env, s.cfg.ThreadMultiplier, s.cfg.Options...)
	if err != nil {
		s.log.Error("invalid shared data", err, logging.String("job", id))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_SHARED"})
		return
	}

	s.mu.Lock()
	s.jobs[id] = shared
	s.mu.Unlock()
	s.log.Debug("shared data stored", logging.String("job", id), logging.Int("matrices", len(env.Matrices)))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleTask(c *gin.Context) {
	id := c.Param("id")
	s.mu.RLock()
	shared, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown job " + id, Code: "JOB_NOT_FOUND"})
		return
	}

	var env distribution.TaskEnvelope
	if err := s.codec.Decode(c.Request.Body, &env); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	f, err := shared.Factory()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_SHARED"})
		return
	}
	task, err := distribution.DecodeTask(f, env)
	if err != nil {
		status, code := http.StatusBadRequest, "INVALID_TASK"
		if errors.Is(err, distribution.ErrUnknownTask) {
			code = "UNKNOWN_TASK"
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}

	res := distribution.ResultEnvelope{JobID: id, Index: env.Index}
	status := http.StatusOK
	frag, err := task.Run(c.Request.Context(), shared)
	if err != nil {
		s.log.Error("task failed", err, logging.String("job", id), logging.Int("task", env.Index))
		res.Error = err.Error()
		status = http.StatusUnprocessableEntity
	} else {
		me := distribution.EncodeMatrix(frag)
		res.Fragment = &me
		s.log.Debug("task done", logging.String("job", id), logging.Int("task", env.Index),
			logging.String("kind", string(env.Kind)))
	}
	s.writeEnvelope(c, status, res)
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Server) writeEnvelope(c *gin.Context, status int, v any) {
	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, v); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "ENCODE_FAILED"})
		return
	}
	c.Header("Content-Encoding", contentEncoding)
	c.Data(status, contentType, buf.Bytes())
}
