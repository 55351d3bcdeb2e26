package migration

import (
	"sync"
	"testing"
	"time"
)

func TestMigrationStats_ParallelTableAccess(t *testing.T) {
	stats := &MigrationStats{
		Tables:    make(map[string]*TableStats),
		StartTime: time.Now(),
	}

	// Users and categories are migrated in parallel goroutines that each
	// request their table entry on first use.
	tables := []string{"users", "categories", "posts", "comments"}

	var wg sync.WaitGroup
	for _, name := range tables {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				stats.table(name).Read++
			}
		}(name)
	}
	wg.Wait()

	for _, name := range tables {
		if got := stats.table(name).Read; got != 1000 {
			t.Errorf("table(%q).Read = %d, want 1000", name, got)
		}
	}
}
