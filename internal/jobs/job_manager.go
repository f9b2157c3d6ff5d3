package jobs

import (
	"fmt"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs  []job
	names []string
}

// NewJobManager takes the planning job and, when a geocoder is configured,
// the geocoding job. A nil geocoding job is skipped.
func NewJobManager(planning *DispatchPlanningJob, geocoding *GeocodingJob) *JobManager {
	jm := &JobManager{}
	jm.add("dispatch planning", planning)
	if geocoding != nil {
		jm.add("geocoding", geocoding)
	}
	return jm
}

func (jm *JobManager) add(name string, j job) {
	jm.jobs = append(jm.jobs, j)
	jm.names = append(jm.names, name)
}

// StartAll starts all scheduled jobs.
// If one fails to start, the ones already started are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for k := i - 1; k >= 0; k-- {
				jm.jobs[k].Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", jm.names[i], err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
