// internal/pet/decay.go
package pet

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultDecayFactor is the per-tick multiplicative decay applied to every
// emotion value.
const DefaultDecayFactor = 0.98

// ApplyDecay scales every emotion by factor and persists the result.
// A no-op when no pet exists yet.
func (s *Service) ApplyDecay(factor float64) {
	if factor <= 0 || factor >= 1 {
		factor = DefaultDecayFactor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pet := s.petLocked(false)
	if pet == nil {
		return
	}
	pet.EmotionVector.Scale(factor)
	pet.EmotionVector.LastUpdated = s.now().UnixMilli()
	s.engine.SavePet(pet)
}

// DecayScheduler applies emotion decay on a cron schedule.
type DecayScheduler struct {
	service *Service
	factor  float64
	cron    *cron.Cron
}

// NewDecayScheduler creates a scheduler that runs ApplyDecay per the given
// cron expression (standard 5-field syntax).
func NewDecayScheduler(service *Service, schedule string, factor float64) (*DecayScheduler, error) {
	d := &DecayScheduler{
		service: service,
		factor:  factor,
		cron:    cron.New(),
	}
	if _, err := d.cron.AddFunc(schedule, func() {
		slog.Debug("applying emotion decay", "factor", d.factor)
		d.service.ApplyDecay(d.factor)
	}); err != nil {
		return nil, err
	}
	return d, nil
}

// Start begins the cron ticker.
func (d *DecayScheduler) Start() {
	d.cron.Start()
}

// Stop stops the cron ticker.
func (d *DecayScheduler) Stop() {
	d.cron.Stop()
}
