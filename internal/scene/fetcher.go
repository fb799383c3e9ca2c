package scene

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/scene-popup-control/internal/host"
	"github.com/atomicstack/scene-popup-control/internal/logging/events"
	"golang.org/x/sync/errgroup"
)

// Options tunes a Fetcher. The zero value fetches every scene at once with no
// per-scene deadline.
type Options struct {
	SceneTimeout time.Duration
	Concurrency  int
}

// Fetcher runs summary cycles against a host provider.
type Fetcher struct {
	provider host.Provider
	opts     Options
}

// NewFetcher returns a fetcher bound to provider.
func NewFetcher(provider host.Provider, opts Options) *Fetcher {
	return &Fetcher{provider: provider, opts: opts}
}

// FetchAll returns one summary per host scene, ordered by index starting at 1.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Summary, error) {
	events.Scene.FetchStart()
	count, err := f.provider.SceneCount(ctx)
	if err != nil {
		events.Scene.FetchError(0, err)
		if errors.Is(err, host.ErrMalformedCount) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSceneCount, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDirectoryUnavailable, err)
	}
	if count < 0 {
		err := fmt.Errorf("%w: %d", ErrInvalidSceneCount, count)
		events.Scene.FetchError(0, err)
		return nil, err
	}
	events.Scene.Count(count)
	if count == 0 {
		events.Scene.FetchDone(0)
		return []Summary{}, nil
	}

	out := make([]Summary, count)
	group, groupCtx := errgroup.WithContext(ctx)
	if f.opts.Concurrency > 0 {
		group.SetLimit(f.opts.Concurrency)
	}
	for index := 1; index <= count; index++ {
		group.Go(func() error {
			summary, err := f.fetchOne(groupCtx, index)
			if err != nil {
				events.Scene.FetchError(index, err)
				return &SceneFetchError{Index: index, Err: err}
			}
			out[index-1] = summary
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	events.Scene.FetchDone(count)
	return out, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, index int) (Summary, error) {
	if f.opts.SceneTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.SceneTimeout)
		defer cancel()
	}
	handle, err := f.provider.SceneByIndex(ctx, index)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve: %w", err)
	}
	if handle == nil {
		return Summary{}, fmt.Errorf("resolve: %w: nil handle", host.ErrSceneNotFound)
	}
	name, err := handle.Name(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("name: %w", err)
	}
	sources, err := handle.Sources(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("sources: %w", err)
	}
	events.Scene.Fetched(index, name, len(sources))
	return Summary{
		Index:       index,
		Handle:      handle,
		Name:        name,
		SourceCount: len(sources),
	}, nil
}
