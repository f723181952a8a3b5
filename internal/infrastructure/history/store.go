package history

import (
	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/ports"
)

// New returns the repository selected by the history settings.
func New(settings domain.HistorySettings) ports.SessionRepository {
	if settings.Backend == domain.HistoryBackendJSONL {
		return NewFileStore(settings.Path)
	}
	return NewSQLiteStore(settings.Path)
}
