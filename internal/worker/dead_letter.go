package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that run out of attempts land in "muertos:{cola}", newest first. A
// dead receipt keeps the sale it belonged to so support can resend it.
const prefijoMuertos = "muertos:"

func ColaMuertos(queue string) string { return prefijoMuertos + queue }

type JobMuerto struct {
	Cola     string          `json:"cola"`
	Tipo     string          `json:"tipo"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
	Motivo   string          `json:"motivo"`
	IDVenta  *uuid.UUID      `json:"id_venta,omitempty"`
	Email    string          `json:"email,omitempty"`
	Fecha    time.Time       `json:"fecha"`
}

func nuevoJobMuerto(queue string, job Job, motivo string, now time.Time) JobMuerto {
	m := JobMuerto{
		Cola:     queue,
		Tipo:     job.Type,
		Payload:  job.Payload,
		Intentos: job.Attempts,
		Motivo:   motivo,
		Fecha:    now.UTC(),
	}
	if !json.Valid(job.Payload) {
		// Keep the bytes readable; a raw invalid payload would fail to marshal.
		m.Payload, _ = json.Marshal(string(job.Payload))
	}
	if job.Type == JobRecibo {
		var r ReciboJob
		if json.Unmarshal(job.Payload, &r) == nil && r.IDVenta != uuid.Nil {
			m.IDVenta = &r.IDVenta
			m.Email = r.Email
		}
	}
	return m
}

// enterrar moves job to the dead list of queue. Push failures are only logged:
// the job is already out of the live queue.
func (p *Pool) enterrar(ctx context.Context, queue string, job Job, motivo string) {
	m := nuevoJobMuerto(queue, job, motivo, p.now())
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("worker: marshal job muerto")
		return
	}
	if err := p.rdb.LPush(ctx, ColaMuertos(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("worker: push job muerto")
		return
	}
	ev := log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("motivo", motivo).
		Int("intentos", job.Attempts)
	if m.IDVenta != nil {
		ev = ev.Str("id_venta", m.IDVenta.String())
	}
	ev.Msg("worker: job descartado")
}

// Muertos returns up to n dead jobs of queue, newest first.
func Muertos(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]JobMuerto, error) {
	raws, err := rdb.LRange(ctx, ColaMuertos(queue), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]JobMuerto, 0, len(raws))
	for _, raw := range raws {
		var m JobMuerto
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func ContarMuertos(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, ColaMuertos(queue)).Result()
}
