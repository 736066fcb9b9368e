package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ConnectionProbe struct {
	tester  ConnectionTester
	timeout time.Duration
}

func CreateConnectionProbe(tester ConnectionTester, timeout time.Duration) *ConnectionProbe {
	return &ConnectionProbe{
		tester:  tester,
		timeout: timeout,
	}
}

func (p *ConnectionProbe) ProbeConnection() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if !p.tester.TestConnection(ctx) {
		log.Warn().Str("component", "ProbeConnection").Msg("inventory API is unreachable")
		return
	}

	log.Debug().Str("component", "ProbeConnection").Msg("inventory API is reachable")
}
