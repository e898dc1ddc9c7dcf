package server

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

type runner interface {
	Run() error
	Shutdown() error
}

// Serve runs the HTTP server until ctx is cancelled or the listener stops,
// with the knowledge watcher alongside when it is enabled.
func (s *Server) Serve(ctx context.Context) error {
	var watch func(context.Context) error
	if s.cfg.Knowledge.Watch {
		watch = s.container.KnowledgeStore.Watch
	}
	return serve(ctx, s, watch)
}

// serve shuts srv down once ctx is done and cancels watch once Run returns.
// A failing watcher is logged and leaves the server up.
func serve(ctx context.Context, srv runner, watch func(context.Context) error) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	if watch != nil {
		g.Go(func() error {
			// Without the watcher the document is simply never reloaded.
			if err := watch(gctx); err != nil {
				log.Printf("Background Knowledge Watcher Error: %v", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")
		return srv.Shutdown()
	})
	g.Go(func() error {
		defer stop()
		return srv.Run()
	})
	return g.Wait()
}
