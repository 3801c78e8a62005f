package telemetry

import (
	"testing"
)

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10)

	// Add some history with low kill rate
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{
			WindowEndTick: i * 100,
			Bites:         10,
			Kills:         2,
			KillRate:      0.2,
		})
	}

	bookmarks := bd.Check(WindowStats{
		WindowEndTick: 500,
		Bites:         10,
		Kills:         8,
		KillRate:      0.8, // 4x the 0.2 average
	})
	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 100, HerbivoreBirths: 4, CarnivoreBirths: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 400, HerbivoreBirths: 15, CarnivoreBirths: 2})
	if !hasBookmark(bookmarks, BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}

func TestBookmarkDetector_HerbivoreCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 100, Herbivores: 100, Carnivores: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 500, Herbivores: 50, Carnivores: 10})
	if !hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("expected herbivore_crash bookmark")
	}

	// The peak resets, so holding steady does not trigger again.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 600, Herbivores: 50, Carnivores: 10})
	if hasBookmark(bookmarks, BookmarkHerbivoreCrash) {
		t.Error("crash reported twice")
	}
}

func TestBookmarkDetector_CarnivoreRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: i * 100, Herbivores: 100, Carnivores: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 300, Herbivores: 100, Carnivores: 10})
	if !hasBookmark(bookmarks, BookmarkCarnivoreRecovery) {
		t.Error("expected carnivore_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var triggeredAt []int
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: i * 100, Herbivores: 100, Carnivores: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			triggeredAt = append(triggeredAt, i)
		}
	}

	if len(triggeredAt) != 1 || triggeredAt[0] != 8 {
		t.Errorf("stable_ecosystem triggered at %v, want [8]", triggeredAt)
	}
}

func TestBookmarkDetector_EmptyHistory(t *testing.T) {
	bd := NewBookmarkDetector(1)
	if got := bd.Check(WindowStats{Herbivores: 0, Carnivores: 0}); len(got) != 0 {
		t.Errorf("first window produced %v", got)
	}
}
