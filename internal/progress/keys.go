package progress

import (
	"strconv"

	"svw.info/ordl/internal/domain"
)

// Storage keys. Every key the store writes is derived here so the daily,
// archive and stats slots cannot collide.
const (
	StatsKey      = "ordl-stats"
	TodayKey      = "ordl-today"
	ArchivePrefix = "ordl-archive-"

	playerPrefix = "player/"
)

// ArchiveKey is the slot of archive puzzle n.
func ArchiveKey(n int) string { return ArchivePrefix + strconv.Itoa(n) }

// GameKey is the slot a game of puzzle n lives in for the given mode.
func GameKey(mode domain.Mode, n int) string {
	if mode == domain.Archive {
		return ArchiveKey(n)
	}
	return TodayKey
}
