package workers

import (
	"context"
	"time"

	"influmatch_backend/internal/logger"
)

const sessionWorkerName = "session_cleanup"

// SessionCleaner удаляет истекшие и давно отозванные сессии
type SessionCleaner interface {
	CleanExpired(ctx context.Context, before time.Time) (int64, error)
}

type SessionWorker struct {
	sessions SessionCleaner
	interval time.Duration
	// отозванные сессии хранятся еще retention для аудита
	retention time.Duration
	now       func() time.Time
}

func NewSessionWorker(sessions SessionCleaner, interval time.Duration) *SessionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SessionWorker{
		sessions:  sessions,
		interval:  interval,
		retention: 24 * time.Hour,
		now:       time.Now,
	}
}

// Start запускает очистку в отдельной горутине
func (w *SessionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SessionWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session worker stopped")
			return
		case <-ticker.C:
			w.cleanOnce(ctx)
		}
	}
}

func (w *SessionWorker) cleanOnce(ctx context.Context) int64 {
	deleted, err := w.sessions.CleanExpired(ctx, w.now().Add(-w.retention))
	if err != nil {
		logger.WorkerLog(sessionWorkerName, "clean_expired", err)
		return 0
	}
	if deleted > 0 {
		logger.WorkerLog(sessionWorkerName, "clean_expired", nil, "deleted", deleted)
	}
	return deleted
}
