package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/xalps/internal/domain/model"
	"github.com/okian/xalps/internal/domain/summary"
)

// gather fetches the status and, with augmentation on, every track.
// All fetches must succeed. The first failure cancels the rest.
func (s *Service) gather(ctx context.Context, ov model.Overview) (summary.Input, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		status   []model.StatusEntry
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		st, err := s.source.Status(ctx)
		if err != nil {
			fail(fmt.Errorf("status: %w", err))
			return
		}
		status = st
	}()

	var tracks map[string]model.Track
	if s.tracks && len(ov.Athletes) > 0 {
		tracks = make(map[string]model.Track, len(ov.Athletes))
		var mu sync.Mutex
		jobs := make(chan string)

		for i := 0; i < min(s.workers, len(ov.Athletes)); i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := range jobs {
					tr, err := s.source.Track(ctx, id)
					if err != nil {
						fail(fmt.Errorf("track %s: %w", id, err))
						continue
					}
					mu.Lock()
					tracks[id] = tr
					mu.Unlock()
				}
			}()
		}

	send:
		for _, a := range ov.Athletes {
			select {
			case jobs <- a.AthleteID:
			case <-ctx.Done():
				break send
			}
		}
		close(jobs)
	}

	wg.Wait()
	if firstErr != nil {
		return summary.Input{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return summary.Input{}, err
	}
	return summary.Input{Roster: ov.Athletes, Status: status, Tracks: tracks}, nil
}
