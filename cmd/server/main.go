// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/net/ws"
	"go-tower-director/internal/progression"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configDir := flag.String("configs", "configs", "catalog directory")
	progressPath := flag.String("progress", "data/progression.json", "progression record, empty keeps it in memory")
	watch := flag.Bool("watch", true, "reload the catalog when config files change")
	flag.Parse()

	cat, err := defs.Load(*configDir)
	if err != nil {
		log.Fatalf("server: load catalog: %v", err)
	}
	var current atomic.Pointer[defs.Catalog]
	current.Store(cat)

	var store progression.Store = &progression.MemoryStore{}
	if *progressPath != "" {
		store = &progression.FileStore{Path: *progressPath}
	}
	pm, err := progression.NewManager(cat, store)
	if err != nil {
		log.Fatalf("server: progression: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		w, err := defs.NewWatcher(*configDir)
		if err != nil {
			log.Printf("server: catalog watcher disabled: %v", err)
		} else {
			defer w.Close()
			go reload(ctx, w, *configDir, &current)
		}
	}

	handler := ws.NewHandler(ws.HandlerConfig{
		Logger:      log.Default(),
		Catalog:     current.Load,
		Progression: pm,
	})
	srv := &http.Server{Addr: *addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server: shutdown: %v", err)
		}
	}()

	log.Printf("server: listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
	log.Printf("server: stopped")
}

// reload подменяет каталог для новых сессий; текущие доигрывают на старом.
func reload(ctx context.Context, w *defs.Watcher, dir string, current *atomic.Pointer[defs.Catalog]) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			cat, err := defs.Load(dir)
			if err != nil {
				log.Printf("server: %s changed, keeping previous catalog: %v", name, err)
				continue
			}
			current.Store(cat)
			log.Printf("server: catalog reloaded after change to %s", name)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("server: catalog watcher: %v", err)
		}
	}
}
