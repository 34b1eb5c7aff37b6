package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pthm-cable/murmur/cells"
	"github.com/pthm-cable/murmur/config"
	"github.com/pthm-cable/murmur/systems"
)

// loadSequences loads every configured target buffer concurrently and
// waits for all of them; steady state must not begin with sequences
// missing. Each individual failure - unreadable file, bad magic,
// truncation - substitutes a synthetic fallback of matching shape and is
// logged, never fatal, so one broken asset cannot stall the rest of
// initialization. Loads are not cancellable once started.
func loadSequences(cfgs []config.SequenceConfig) []*systems.Sequence {
	start := time.Now()
	seqs := make([]*systems.Sequence, len(cfgs))

	var wg sync.WaitGroup
	for i, sc := range cfgs {
		wg.Add(1)
		go func(i int, sc config.SequenceConfig) {
			defer wg.Done()
			set, err := cells.Load(sc.Path)
			if err != nil {
				slog.Warn("target buffer unavailable, substituting synthetic fallback",
					"sequence", sc.Name, "path", sc.Path, "error", err)
				set = cells.Synthesize(0, 0, 0)
			} else if set.Count == 0 {
				// A fully transparent source image encodes as a valid
				// zero-entry buffer; it cannot supply formed targets
				slog.Warn("target buffer empty, substituting synthetic fallback",
					"sequence", sc.Name, "path", sc.Path)
				set = cells.Synthesize(0, 0, 0)
			}
			seqs[i] = systems.BuildSequence(sc.Name, set, sc.PlaneW, sc.PlaneH, sc.OffsetX, sc.OffsetY)
		}(i, sc)
	}
	wg.Wait()

	count := systems.Equalize(seqs)
	slog.Info("sequences loaded",
		"count", len(seqs),
		"particles", count,
		"elapsed", time.Since(start))
	return seqs
}
