package monitor

import (
	"github.com/go-co-op/gocron/v2"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/config"
)

// CreateScheduler registers the alert poll and the connection probe. Neither job overlaps
// with a previous run of itself.
func CreateScheduler(conf config.JobConfig, alerts *AlertMonitor, probe *ConnectionProbe) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			conf.AlertPollInterval,
		),
		gocron.NewTask(
			alerts.PollAlerts,
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.Shutdown()
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			conf.ConnectionProbeInterval,
		),
		gocron.NewTask(
			probe.ProbeConnection,
		),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.Shutdown()
		return nil, err
	}

	return s, nil
}
