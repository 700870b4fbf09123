package extension

import (
	"sync"

	"github.com/ZebulonRouseFrantzich/lsprov/internal/binary"
)

// StatusBoard is a StatusSink that keeps the latest status of each server.
// Servers it has not heard from are idle.
type StatusBoard struct {
	mu       sync.Mutex
	statuses map[string]binary.InstallationStatus
}

// NewStatusBoard creates an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{statuses: make(map[string]binary.InstallationStatus)}
}

// SetInstallationStatus implements StatusSink.
func (b *StatusBoard) SetInstallationStatus(serverID string, status binary.InstallationStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[serverID] = status
}

// Status returns the latest status of serverID.
func (b *StatusBoard) Status(serverID string) binary.InstallationStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.statuses[serverID]; ok {
		return s
	}
	return binary.StatusIdle
}
