// ABOUTME: Cloud mirror operations pushing and pulling readiness records.
// ABOUTME: Samples key by date, activities by external ID, alerts by UUID.
package charm

import (
	"fmt"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

// MirrorSummary holds counts from a push or pull.
type MirrorSummary struct {
	Samples    int
	Activities int
	Alerts     int
}

// PutSample mirrors one daily sample, keyed by its date so re-pushes of a
// re-synced day overwrite in place.
func (c *Client) PutSample(s *models.DailySample) error {
	data, err := marshalJSON(s)
	if err != nil {
		return fmt.Errorf("marshal sample: %w", err)
	}
	return c.set(SamplePrefix+models.DateKey(s.Date), data)
}

// PutActivity mirrors one activity, keyed by its external ID.
func (c *Client) PutActivity(a *models.Activity) error {
	data, err := marshalJSON(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return c.set(ActivityPrefix+a.ExternalID, data)
}

// PutAlert mirrors one alert, keyed by its UUID.
func (c *Client) PutAlert(a *models.Alert) error {
	data, err := marshalJSON(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return c.set(AlertPrefix+a.ID.String(), data)
}

// Push mirrors the full local store to Charm Cloud. Auto-sync is
// suspended for the duration so the batch syncs once at the end.
func (c *Client) Push(repo storage.Repository) (*MirrorSummary, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read local data: %w", err)
	}

	c.SetAutoSync(false)
	defer func() {
		c.SetAutoSync(true)
		_ = c.Sync()
	}()

	summary := &MirrorSummary{}
	for _, s := range data.Samples {
		if err := c.PutSample(s); err != nil {
			return nil, err
		}
		summary.Samples++
	}
	for _, a := range data.Activities {
		if err := c.PutActivity(a); err != nil {
			return nil, err
		}
		summary.Activities++
	}
	for _, a := range data.Alerts {
		if err := c.PutAlert(a); err != nil {
			return nil, err
		}
		summary.Alerts++
	}
	return summary, nil
}

// Pull reads all mirrored records from Charm Cloud into the local store.
// Records upsert by their natural keys, so pulling is idempotent.
func (c *Client) Pull(repo storage.Repository) (*MirrorSummary, error) {
	if err := c.Sync(); err != nil {
		return nil, fmt.Errorf("sync from cloud: %w", err)
	}

	summary := &MirrorSummary{}

	sampleData, err := c.listByPrefix(SamplePrefix)
	if err != nil {
		return nil, fmt.Errorf("list mirrored samples: %w", err)
	}
	for _, raw := range sampleData {
		s, err := unmarshalJSON[models.DailySample](raw)
		if err != nil {
			continue // Skip invalid entries
		}
		if err := repo.UpsertSample(s); err != nil {
			return nil, err
		}
		summary.Samples++
	}

	activityData, err := c.listByPrefix(ActivityPrefix)
	if err != nil {
		return nil, fmt.Errorf("list mirrored activities: %w", err)
	}
	for _, raw := range activityData {
		a, err := unmarshalJSON[models.Activity](raw)
		if err != nil {
			continue
		}
		if err := repo.UpsertActivity(a); err != nil {
			return nil, err
		}
		summary.Activities++
	}

	alertData, err := c.listByPrefix(AlertPrefix)
	if err != nil {
		return nil, fmt.Errorf("list mirrored alerts: %w", err)
	}
	for _, raw := range alertData {
		a, err := unmarshalJSON[models.Alert](raw)
		if err != nil {
			continue
		}
		if a.Status != models.StatusActive {
			continue // History stays local; only active alerts mirror back.
		}
		if err := repo.UpsertActiveAlert(a); err != nil {
			return nil, err
		}
		summary.Alerts++
	}

	return summary, nil
}
