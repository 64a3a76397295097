// ABOUTME: Activity model for provider-synced training sessions.
// ABOUTME: Identity is the provider's external ID; upserts are idempotent.
package models

import "time"

// Activity represents one training session synced from the provider.
// Multiple activities may share a date. The provider-assigned ExternalID
// is the identity used for idempotent upserts.
type Activity struct {
	ExternalID            string
	Date                  time.Time
	Name                  string
	TrainingLoad          *float64
	AerobicTrainingEffect *float64
	DurationSeconds       float64
	DistanceMeters        float64
	CreatedAt             time.Time
}

// NewActivity creates an activity with the given external ID and date.
func NewActivity(externalID string, date time.Time) *Activity {
	return &Activity{
		ExternalID: externalID,
		Date:       DateOf(date),
		CreatedAt:  time.Now().UTC(),
	}
}

// WithName sets the activity name.
func (a *Activity) WithName(name string) *Activity {
	a.Name = name
	return a
}

// WithTrainingLoad sets the provider-reported training load.
func (a *Activity) WithTrainingLoad(load float64) *Activity {
	a.TrainingLoad = &load
	return a
}

// WithAerobicTrainingEffect sets the aerobic training effect (0-5 scale).
func (a *Activity) WithAerobicTrainingEffect(te float64) *Activity {
	a.AerobicTrainingEffect = &te
	return a
}

// Load returns the training load contribution of this activity.
// Prefers the explicit load field; falls back to aerobic training
// effect x 10; contributes zero when neither is available.
func (a *Activity) Load() float64 {
	if a.TrainingLoad != nil {
		return *a.TrainingLoad
	}
	if a.AerobicTrainingEffect != nil {
		return *a.AerobicTrainingEffect * 10
	}
	return 0
}
