package service

import (
	"sync"

	"pha-locator/internal/models"
)

// viewRecorder queues map and list commands until the client next polls the session.
type viewRecorder struct {
	mu        sync.Mutex
	commands  []models.MapCommand
	highlight *string
}

func (r *viewRecorder) Focus(coords models.Coordinates) {
	r.push(models.MapCommand{Kind: models.MapFocus, Focus: &coords})
}

func (r *viewRecorder) ShowMarkers(agencies []models.Agency) {
	ids := make([]string, 0, len(agencies))
	for _, a := range agencies {
		ids = append(ids, a.ID)
	}
	r.push(models.MapCommand{Kind: models.MapShowMarkers, AgencyIDs: ids})
}

func (r *viewRecorder) ResetView(bounds models.Bounds) {
	r.push(models.MapCommand{Kind: models.MapResetView, Bounds: &bounds})
}

func (r *viewRecorder) Highlight(agencyID *string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlight = agencyID
}

func (r *viewRecorder) push(cmd models.MapCommand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

// drain returns and clears the queued map commands along with the current highlight.
func (r *viewRecorder) drain() ([]models.MapCommand, *string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commands := r.commands
	r.commands = nil
	if commands == nil {
		commands = []models.MapCommand{}
	}
	return commands, r.highlight
}
