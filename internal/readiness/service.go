// ABOUTME: Readiness service orchestrating baselines, classification, and caching.
// ABOUTME: Cache check, load/baseline computation, alert persistence, verdict assembly.
package readiness

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/cache"
	"github.com/harperreed/readiness/internal/load"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

// historyDays is how far back the service reads samples and activities.
// It covers the widest baseline window (30 days) plus the illness
// classifier's 7-day backward walk.
const historyDays = 45

// Service runs readiness evaluations for target dates. It performs no
// internal parallelism; concurrency safety comes from the cache's mutex
// and the database's constraints.
type Service struct {
	repo       storage.Repository
	cache      *cache.ResponseCache
	thresholds *Thresholds
	messages   Messages
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Service. A nil cache disables verdict caching; a nil
// logger is replaced with a no-op.
func New(repo storage.Repository, c *cache.ResponseCache, t *Thresholds, m Messages, logger *zap.Logger) *Service {
	if t == nil {
		t = DefaultThresholds()
	}
	if m == nil {
		m = DefaultMessages()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		cache:      c,
		thresholds: t,
		messages:   m,
		logger:     logger,
		now:        time.Now,
	}
}

// Readiness returns the verdict for (date, locale), serving from cache
// when possible. On a miss the full computation runs and the result is
// cached; cache write failures are swallowed since the cache is an
// optimization, not a correctness requirement.
func (s *Service) Readiness(targetDate time.Time, locale string) (*models.Verdict, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	key := cache.Key(targetDate, locale)

	if s.cache != nil {
		if payload, ok := s.cache.Get(key); ok {
			if v, ok := payload.(*models.Verdict); ok {
				return v, nil
			}
		}
	}

	v, err := s.compute(targetDate, locale)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(key, v)
	}
	return v, nil
}

// DetectAlerts evaluates all risk classifiers for targetDate and persists
// any that fire. Returns the firing alerts.
func (s *Service) DetectAlerts(targetDate time.Time) ([]*models.Alert, error) {
	v, err := s.compute(targetDate, DefaultLocale)
	if err != nil {
		return nil, err
	}
	return v.Alerts, nil
}

// CalculateBaselines computes the baseline bundle for targetDate. This is
// read-only: nothing is persisted or cached.
func (s *Service) CalculateBaselines(targetDate time.Time) (*models.BaselineBundle, error) {
	history, err := s.sampleHistory(targetDate)
	if err != nil {
		return nil, err
	}
	bundle := s.baselines(history, targetDate)
	return &bundle, nil
}

// ClearCache drops all cached verdicts. Invoked after every data import
// so stale verdicts cannot survive a known data change.
func (s *Service) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

// compute runs the full readiness evaluation: gather inputs, compute
// baselines and load, classify, persist firing alerts, assemble verdict.
func (s *Service) compute(targetDate time.Time, locale string) (*models.Verdict, error) {
	target := models.DateOf(targetDate)

	history, err := s.sampleHistory(target)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.ListActivities(target.AddDate(0, 0, -historyDays), target)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	bundle := s.baselines(history, target)
	loadWindow := load.Window(activities, target)
	hardDays := load.ConsecutiveHardDays(activities, target, s.thresholds.Overtraining.HardEffortThreshold)
	weeklyIncrease := load.WeeklyLoadIncreasePct(activities, target)

	var alerts []*models.Alert

	if r := EvaluateOvertraining(OvertrainingInput{
		HRVDeviationPct:     bundle.HRV.Deviation,
		ConsecutiveHardDays: hardDays,
		SleepDebtHours:      bundle.Sleep.DebtHours,
	}, s.thresholds.Overtraining); r != nil {
		alerts = append(alerts, s.buildAlert(models.AlertOvertraining, target, locale, r))
	}

	if r := EvaluateIllness(history, target, s.thresholds.Illness); r != nil {
		alerts = append(alerts, s.buildAlert(models.AlertIllness, target, locale, r))
	}

	if r := EvaluateInjury(InjuryInput{
		ACWR:                  loadWindow.ACWR,
		WeeklyLoadIncreasePct: weeklyIncrease,
	}, s.thresholds.Injury); r != nil {
		alerts = append(alerts, s.buildAlert(models.AlertInjury, target, locale, r))
	}

	for _, a := range alerts {
		if err := s.repo.UpsertActiveAlert(a); err != nil {
			return nil, fmt.Errorf("persist %s alert: %w", a.Type, err)
		}
		s.logger.Info("alert persisted",
			zap.String("type", string(a.Type)),
			zap.String("severity", string(a.Severity)),
			zap.String("trigger_date", models.DateKey(a.TriggerDate)),
		)
	}

	return &models.Verdict{
		Date:                  target,
		Locale:                locale,
		State:                 models.StateFromAlerts(alerts),
		Baselines:             bundle,
		Load:                  loadWindow,
		ConsecutiveHardDays:   hardDays,
		WeeklyLoadIncreasePct: weeklyIncrease,
		Alerts:                alerts,
		GeneratedAt:           s.now().UTC(),
	}, nil
}

func (s *Service) sampleHistory(target time.Time) ([]*models.DailySample, error) {
	history, err := s.repo.ListSamples(models.DateOf(target).AddDate(0, 0, -historyDays), target)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return history, nil
}

func (s *Service) baselines(history []*models.DailySample, target time.Time) models.BaselineBundle {
	return models.BaselineBundle{
		HRV:       baseline.HRV(history, target, baseline.HRVWindowDays),
		RestingHR: baseline.RestingHR(history, target, baseline.RestingHRWindowDays),
		Sleep:     baseline.Sleep(history, target, baseline.SleepWindowDays),
	}
}

func (s *Service) buildAlert(alertType models.AlertType, target time.Time, locale string, r *Result) *models.Alert {
	vars := templateVars(r)
	message := s.messages.Render(locale, string(alertType), r.MessageKey, vars)

	return models.NewAlert(alertType, r.Severity, target).
		WithMessage(r.MessageKey, message).
		WithMetrics(r.Metrics)
}

// templateVars flattens classifier metrics into string placeholders.
func templateVars(r *Result) map[string]string {
	vars := map[string]string{
		"indicators": FormatIndicators(r.Indicators),
	}
	for k, v := range r.Metrics {
		switch val := v.(type) {
		case float64:
			vars[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			vars[k] = strconv.Itoa(val)
		case string:
			vars[k] = val
		}
	}
	// Round noisy percentages for display.
	for _, k := range []string{"hrv_drop_pct", "rhr_rise_bpm", "weekly_load_increase_pct"} {
		if v, ok := r.Metrics[k].(float64); ok {
			vars[k] = strconv.FormatFloat(v, 'f', 0, 64)
		}
	}
	if v, ok := r.Metrics["consecutive_days"].(int); ok {
		vars["days"] = strconv.Itoa(v)
	}
	return vars
}
