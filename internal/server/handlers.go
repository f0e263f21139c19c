package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/metrics"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/trends"
	"github.com/julianstephens/lifelog/internal/utils"
	"github.com/julianstephens/lifelog/internal/validation"
)

// GET /healthz
func (s *Server) health(c *gin.Context) {
	if _, _, err := s.store.SchemaVersion(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": constants.Version})
}

// settings returns the stored settings with defaults filled in, plus the
// current time in the configured timezone.
func (s *Server) settings(c *gin.Context) (models.Settings, time.Time, error) {
	settings, err := s.store.GetSettings(c.Request.Context())
	if err != nil {
		return models.Settings{}, time.Time{}, err
	}
	models.ApplyDefaultSettings(&settings)
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return models.Settings{}, time.Time{}, errors.Invalid("timezone", "unknown timezone %q", settings.Timezone)
	}
	return settings, s.now().In(loc), nil
}

func (s *Server) category(c *gin.Context) (models.Category, bool) {
	category, err := models.ParseCategory(c.Param("category"))
	if err != nil {
		abortWithError(c, err)
		return "", false
	}
	return category, true
}

// POST /api/v1/logs/:category
func (s *Server) createLog(c *gin.Context) {
	category, ok := s.category(c)
	if !ok {
		return
	}

	rec, err := bindRecord(c, category)
	if err != nil {
		abortWithError(c, errors.Invalid("body", "%v", err))
		return
	}
	if category.DateScoped() && rec.LogDate() == "" {
		_, now, err := s.settings(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		rec = withDate(rec, now.Format(constants.DateFormat))
	}

	saved, err := s.repo.Save(c.Request.Context(), rec)
	if err != nil {
		abortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if category.Mode() == models.ModeUpsert {
		status = http.StatusOK
	}
	c.JSON(status, saved)
}

// bindRecord decodes the request body into the record type for category.
func bindRecord(c *gin.Context, category models.Category) (models.Record, error) {
	switch category {
	case models.CategoryStudy:
		return bind[models.StudyLog](c)
	case models.CategoryFinance:
		return bind[models.FinanceLog](c)
	case models.CategoryDebt:
		return bind[models.Debt](c)
	case models.CategorySleep:
		return bind[models.SleepLog](c)
	case models.CategoryDiary:
		return bind[models.DiaryLog](c)
	case models.CategoryJob:
		return bind[models.JobApplication](c)
	default:
		return bind[models.LearnItem](c)
	}
}

func bind[T models.Record](c *gin.Context) (models.Record, error) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func withDate(rec models.Record, date string) models.Record {
	switch v := rec.(type) {
	case models.StudyLog:
		v.Date = date
		return v
	case models.FinanceLog:
		v.Date = date
		return v
	case models.SleepLog:
		v.Date = date
		return v
	case models.DiaryLog:
		v.Date = date
		return v
	case models.JobApplication:
		v.Date = date
		return v
	case models.LearnItem:
		v.Date = date
		return v
	default:
		return rec
	}
}

// GET /api/v1/logs/:category?date=YYYY-MM-DD | ?limit=N
func (s *Server) listLogs(c *gin.Context) {
	category, ok := s.category(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var (
		records []models.Record
		err     error
	)
	if date := c.Query("date"); date != "" {
		records, err = s.repo.ListByDate(ctx, category, date)
	} else {
		limit := constants.DefaultListLimit
		if raw := c.Query("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				abortWithError(c, errors.Invalid("limit", "must be a non-negative integer, got %q", raw))
				return
			}
		}
		records, err = s.repo.ListRecent(ctx, category, limit)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "records": records})
}

// GET /api/v1/status?date=YYYY-MM-DD
func (s *Server) status(c *gin.Context) {
	settings, now, err := s.settings(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	date := c.DefaultQuery("date", now.Format(constants.DateFormat))
	if err := validation.Date("date", date); err != nil {
		abortWithError(c, err)
		return
	}

	completion, err := metrics.CompletionStatus(c.Request.Context(), s.repo, date, now, metrics.CompletionConfig{
		SleepCheckHour: settings.SleepCheckHour,
		Location:       now.Location(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	pending := completion.Pending()
	if pending == nil {
		pending = []models.Category{}
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    completion.Date,
		"logged":  completion.Logged,
		"pending": pending,
		"done":    completion.Done(),
	})
}

// GET /api/v1/progress
func (s *Server) progress(c *gin.Context) {
	settings, now, err := s.settings(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	window, err := metrics.WindowFromSettings(settings)
	if err != nil {
		abortWithError(c, err)
		return
	}
	p, err := metrics.DayProgress(now, window)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress": p,
		"message":  p.Phase.Message(),
		"window":   gin.H{"start": window.Start, "end": window.End, "timezone": settings.Timezone},
	})
}

// GET /api/v1/summary
func (s *Server) summary(c *gin.Context) {
	ctx := c.Request.Context()

	overview, err := s.trends.Overview(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	highlights, err := s.trends.Highlights(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	balance, err := s.trends.Balance(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"overview":   overview,
		"highlights": highlights,
		"balance":    balance,
	})
}

// GET /api/v1/trends/:category?fields=a,b
func (s *Server) series(c *gin.Context) {
	category, ok := s.category(c)
	if !ok {
		return
	}
	fields, err := trends.ParseFields(category, c.Query("fields"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	points, err := s.trends.TimeSeries(c.Request.Context(), category, fields...)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "points": points})
}

// GET /api/v1/breakdown/:kind
func (s *Server) breakdown(c *gin.Context) {
	kind := c.Param("kind")
	groups, err := s.trends.Breakdown(c.Request.Context(), kind)
	if err != nil {
		abortWithError(c, err)
		return
	}
	type slice struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	slices := make([]slice, 0, len(groups))
	for _, k := range trends.SortedKeys(groups) {
		slices = append(slices, slice{Key: k, Value: groups[k].String()})
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "groups": slices})
}

// GET /api/v1/settings
func (s *Server) getSettings(c *gin.Context) {
	settings, _, err := s.settings(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
