package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// StaleLeadWorker marca como "inativo" leads sem contacto há mais de
// 30 dias. O UPDATE é condicional, então duas instâncias a correr ao
// mesmo tempo não pisam uma na outra.
type StaleLeadWorker struct {
	db             *sql.DB
	inactiveWindow time.Duration
	tickInterval   time.Duration
}

func NewStaleLeadWorker(db *sql.DB) *StaleLeadWorker {
	return &StaleLeadWorker{
		db:             db,
		inactiveWindow: 30 * 24 * time.Hour,
		tickInterval:   1 * time.Hour,
	}
}

func (w *StaleLeadWorker) Start(ctx context.Context) {
	log.Println("🕒 Stale Lead Worker iniciado (janela de 30 dias)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweepStaleLeads(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Stale Lead Worker encerrado")
			return
		case <-ticker.C:
			w.sweepStaleLeads(ctx)
		}
	}
}

func (w *StaleLeadWorker) sweepStaleLeads(ctx context.Context) {
	query := `
		UPDATE leads
		SET
			status = 'inativo',
			updated_at = NOW()
		WHERE
			status IN ('novo', 'contactado', 'qualificado')
			AND COALESCE(last_contact_at, created_at) < NOW() - INTERVAL '30 days'
			AND is_active
		RETURNING id, name, COALESCE(last_contact_at, created_at)
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar leads frios: %v", err)
		return
	}
	defer rows.Close()

	staleCount := 0
	for rows.Next() {
		var id, name string
		var lastTouch time.Time

		if err := rows.Scan(&id, &name, &lastTouch); err != nil {
			log.Printf("⚠️ Erro ao escanear lead frio: %v", err)
			continue
		}

		elapsed := time.Since(lastTouch)
		log.Printf("⏱️ Lead frio: id=%s name=%s sem contacto há %s",
			id, name, elapsed.Round(24*time.Hour))
		staleCount++
	}

	if staleCount > 0 {
		log.Printf("✅ %d lead(s) marcados como inativo", staleCount)
	}
}
