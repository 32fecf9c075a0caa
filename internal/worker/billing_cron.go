package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper marks overdue billing records; satisfied by service.EmpresaService.
type Sweeper interface {
	BarrerVencidas(ctx context.Context) (int, error)
}

// StartBillingSweep runs sweeper once at start and then every interval until
// ctx is cancelled.
func StartBillingSweep(ctx context.Context, sweeper Sweeper, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Msg("billing_sweep: started")

		sweep(ctx, sweeper)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("billing_sweep: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, sweeper)
			}
		}
	}()
}

func sweep(ctx context.Context, sweeper Sweeper) {
	n, err := sweeper.BarrerVencidas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("billing_sweep: failed")
		return
	}
	if n > 0 {
		log.Info().Int("empresas", n).Msg("billing_sweep: tenants suspended for overdue billing")
	}
}
