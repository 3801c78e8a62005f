package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough  BookmarkType = "hunt_breakthrough"
	BookmarkBabyBoom          BookmarkType = "baby_boom"
	BookmarkCarnivoreRecovery BookmarkType = "carnivore_recovery"
	BookmarkHerbivoreCrash    BookmarkType = "herbivore_crash"
	BookmarkStableEcosystem   BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int          `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the population history.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentCarnMin      int // minimum carnivore count in recent history
	recentHerbPeak     int // peak herbivore count in recent history
	stableWindowsCount int // consecutive windows with stable populations
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		checks := []func(WindowStats) *Bookmark{
			bd.checkHuntBreakthrough,
			bd.checkBabyBoom,
			bd.checkCarnivoreRecovery,
			bd.checkHerbivoreCrash,
			bd.checkStableEcosystem,
		}
		for _, check := range checks {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}

	bd.addToHistory(stats)

	if stats.Carnivores < bd.recentCarnMin || bd.recentCarnMin == 0 {
		bd.recentCarnMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentHerbPeak {
		bd.recentHerbPeak = stats.Herbivores
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalKills, totalBites int
	for _, h := range history {
		totalKills += h.Kills
		totalBites += h.Bites
	}
	if totalBites == 0 || stats.Bites == 0 {
		return nil
	}

	avgKillRate := float64(totalKills) / float64(totalBites)
	if avgKillRate == 0 {
		return nil
	}

	if stats.KillRate > avgKillRate*2.0 && stats.Kills >= 3 {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kill rate %.2f is %.1fx average (%.2f)", stats.KillRate, stats.KillRate/avgKillRate, avgKillRate),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.HerbivoreBirths + h.CarnivoreBirths
	}
	avg := float64(total) / float64(len(history))
	births := stats.HerbivoreBirths + stats.CarnivoreBirths

	if avg > 0 && float64(births) > avg*2.0 && births >= 10 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", births, float64(births)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCarnivoreRecovery(stats WindowStats) *Bookmark {
	if bd.recentCarnMin == 0 || bd.recentCarnMin > 3 {
		return nil
	}

	threshold := bd.recentCarnMin * 3
	if stats.Carnivores >= threshold && stats.Carnivores >= 6 {
		oldMin := bd.recentCarnMin
		bd.recentCarnMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkCarnivoreRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHerbivoreCrash(stats WindowStats) *Bookmark {
	if bd.recentHerbPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Herbivores)/float64(bd.recentHerbPeak)
	if dropPercent > 0.30 && stats.Herbivores < bd.recentHerbPeak-10 {
		oldPeak := bd.recentHerbPeak
		bd.recentHerbPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkHerbivoreCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Herbivores < 10 || stats.Carnivores < 3 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	herbCV2 := cv2(recent, func(s WindowStats) float64 { return float64(s.Herbivores) })
	carnCV2 := cv2(recent, func(s WindowStats) float64 { return float64(s.Carnivores) })

	if herbCV2 < 0.04 && carnCV2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over 5+ windows", stats.Herbivores, stats.Carnivores),
		}
	}
	return nil
}

// cv2 returns the squared coefficient of variation of a field over windows.
func cv2(windows []WindowStats, field func(WindowStats) float64) float64 {
	var sum float64
	for _, w := range windows {
		sum += field(w)
	}
	mean := sum / float64(len(windows))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, w := range windows {
		d := field(w) - mean
		variance += d * d
	}
	variance /= float64(len(windows))
	return variance / (mean * mean)
}
