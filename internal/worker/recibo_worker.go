package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/CzarAl/domus-backend/internal/infra"
	"github.com/CzarAl/domus-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Enviar(msg infra.Mensaje) error
}

// ReciboWorker renders the PDF receipt of a sale and mails it.
type ReciboWorker struct {
	ventas  repository.VentaRepository
	mailer  Sender
	cb      *infra.CircuitBreaker
	dir     string
	negocio string
	backoff time.Duration
}

func NewReciboWorker(ventas repository.VentaRepository, mailer Sender, cb *infra.CircuitBreaker, dir string) *ReciboWorker {
	return &ReciboWorker{ventas: ventas, mailer: mailer, cb: cb, dir: dir, negocio: "Domus", backoff: time.Second}
}

// Process implements Handler.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job ReciboJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// A malformed payload never succeeds; drop it.
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return nil
	}
	if job.Email == "" {
		return nil
	}

	venta, err := w.ventas.FindByID(ctx, job.IDVenta, repository.SesionScope{IDRaiz: job.IDRaiz})
	if err != nil {
		return fmt.Errorf("recibo_worker: load venta %s: %w", job.IDVenta, err)
	}

	path, err := infra.GenerarReciboPDF(venta, w.negocio, w.dir)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	msg := infra.Mensaje{
		Para:    job.Email,
		Asunto:  "Recibo de compra " + venta.Folio,
		Cuerpo:  fmt.Sprintf("Gracias por su compra. Total: $%s", venta.Total.StringFixed(2)),
		Adjunto: path,
	}
	err = withRetry(ctx, 3, w.backoff, func(attempt int) error {
		err := w.cb.Execute(func() error { return w.mailer.Enviar(msg) })
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("folio", venta.Folio).Msg("recibo_worker: send failed")
		}
		return err
	})
	if err != nil {
		return err
	}
	log.Info().Str("folio", venta.Folio).Str("to", job.Email).Msg("recibo_worker: receipt sent")
	return nil
}

// withRetry calls fn up to maxAttempts times, sleeping base, 2·base, … between tries.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base * time.Duration(1<<uint(i-1))):
			}
		}
		if lastErr = fn(i); lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, infra.ErrCircuitOpen) {
			return lastErr
		}
	}
	return lastErr
}
