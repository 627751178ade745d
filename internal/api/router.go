// Package api serves saved snapshots over HTTP.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"go-seasonal-jobs/internal/dedup"
	"go-seasonal-jobs/internal/filter"
	"go-seasonal-jobs/internal/scraper"
	"go-seasonal-jobs/internal/snapshot"

	"github.com/gin-gonic/gin"
)

type Server struct {
	dir         string
	defaultFile string
	now         func() time.Time
	log         *slog.Logger
}

// New serves snapshots from dir. defaultFile is used when a request names
// neither a date nor a file.
func New(dir, defaultFile string, log *slog.Logger) *Server {
	return &Server{dir: dir, defaultFile: defaultFile, now: time.Now, log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Seasonal jobs API is running!",
			"status":  "healthy",
		})
	})

	jobs := r.Group("/jobs")
	jobs.GET("", s.listJobs)
	jobs.GET("/new", s.newJobs)
	jobs.GET("/no-experience", s.noExperience)
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// GET /jobs?date=YYYY-MM-DD | ?file=name.json
func (s *Server) listJobs(c *gin.Context) {
	path, err := s.resolve(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, ok := s.load(c, path)
	if !ok {
		return
	}
	respond(c, records)
}

// GET /jobs/new?date=YYYY-MM-DD compares the day's snapshot with the one
// before it. A missing previous snapshot makes every posting new.
func (s *Server) newJobs(c *gin.Context) {
	day, err := s.day(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	today, ok := s.load(c, filepath.Join(s.dir, snapshot.DatedName(day)))
	if !ok {
		return
	}
	yesterday, err := snapshot.Load(filepath.Join(s.dir, snapshot.DatedName(day.AddDate(0, 0, -1))))
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		s.fail(c, err)
		return
	}
	respond(c, dedup.NewRecords(yesterday, today))
}

// GET /jobs/no-experience?date=YYYY-MM-DD&begins_within=N
func (s *Server) noExperience(c *gin.Context) {
	path, err := s.resolve(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	preds := []filter.Predicate{filter.NoExperience}
	if v := c.Query("begins_within"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "begins_within must be a non-negative integer"})
			return
		}
		preds = append(preds, filter.BeginsWithin(days, s.now()))
	}
	records, ok := s.load(c, path)
	if !ok {
		return
	}
	respond(c, filter.Apply(records, preds...))
}

func (s *Server) resolve(c *gin.Context) (string, error) {
	if name := c.Query("file"); name != "" {
		if name != filepath.Base(name) || filepath.Ext(name) != ".json" {
			return "", errors.New("file must be a .json name inside the data directory")
		}
		return filepath.Join(s.dir, name), nil
	}
	if c.Query("date") != "" {
		day, err := s.day(c)
		if err != nil {
			return "", err
		}
		return filepath.Join(s.dir, snapshot.DatedName(day)), nil
	}
	return filepath.Join(s.dir, s.defaultFile), nil
}

func (s *Server) day(c *gin.Context) (time.Time, error) {
	if v := c.Query("date"); v != "" {
		return snapshot.ParseDay(v)
	}
	return s.now(), nil
}

func (s *Server) load(c *gin.Context, path string) ([]scraper.JobRecord, bool) {
	records, err := snapshot.Load(path)
	if errors.Is(err, snapshot.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found", "file": filepath.Base(path)})
		return nil, false
	}
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return records, true
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("load snapshot failed", "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read snapshot"})
}

func respond(c *gin.Context, records []scraper.JobRecord) {
	c.JSON(http.StatusOK, gin.H{"count": len(records), "jobs": records})
}
