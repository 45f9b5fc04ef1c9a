// Package main is the entry point for vault-lsp: it loads
// configuration, constructs the vault, wires the optional collaborators
// (git-backed remote sync, redis cache, postgres snapshot store, local
// filesystem watcher), and serves the editor protocol over stdio
// alongside a small debug HTTP surface.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/ali01/vault-lsp/internal/cache"
	"github.com/ali01/vault-lsp/internal/completion"
	"github.com/ali01/vault-lsp/internal/config"
	"github.com/ali01/vault-lsp/internal/models"
	"github.com/ali01/vault-lsp/internal/query"
	"github.com/ali01/vault-lsp/internal/rpc"
	"github.com/ali01/vault-lsp/internal/store"
	"github.com/ali01/vault-lsp/internal/vault"
	"github.com/ali01/vault-lsp/internal/vaultsync"
	"github.com/ali01/vault-lsp/internal/watcher"
)

// server holds every collaborator a request handler might need. It is
// constructed once at startup and its core fields (v, completion,
// query) never change identity afterward — only the vault's internal
// state mutates, under its own lock, per §5.
type server struct {
	rootDir    string
	cfg        *config.Config
	v          *vault.Vault
	completion *completion.Engine
	query      *query.Engine
	cache      *cache.Cache
	store      *store.Store
	syncMgr    *vaultsync.Manager
	watch      *watcher.Watcher
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("server panic recovered: %v", r)
			log.Printf("stack trace:\n%s", debug.Stack())
			os.Exit(1)
		}
	}()

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.LoadFromYAML(configPath)
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
	} else {
		log.Printf("no config file at %s, using defaults", configPath)
		cfg = config.DefaultConfig()
		if err := cfg.Validate(); err != nil {
			log.Fatalf("default configuration is invalid: %v", err)
		}
	}

	s, err := newServer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.startCollaborators(ctx); err != nil {
		log.Fatalf("failed to start collaborators: %v", err)
	}

	debugAddr := fmt.Sprintf("%s:%d", cfg.Server.DebugHost, cfg.Server.DebugPort)
	debugSrv := newDebugServer(debugAddr, s.v)
	go func() {
		log.Printf("debug HTTP surface listening on %s", debugAddr)
		if err := debugSrv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Printf("debug HTTP surface stopped: %v", err)
		}
	}()

	rpcServer := rpc.NewServer(os.Stdin, os.Stdout)
	s.registerHandlers(rpcServer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("rpc server panic recovered: %v", r)
				log.Printf("stack trace:\n%s", debug.Stack())
				quit <- syscall.SIGTERM
			}
		}()
		serveErr <- rpcServer.Serve()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Printf("rpc server exited: %v", err)
		} else {
			log.Println("rpc transport closed (stdin EOF)")
		}
	case <-quit:
		log.Println("shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := debugSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("debug HTTP surface forced to shutdown: %v", err)
	}

	s.stopCollaborators()
	log.Println("server exiting")
}

// newServer constructs the vault and the core engines. Collaborators
// that require I/O (sync, cache, store, watcher) are deferred to
// startCollaborators so a construction failure there can be logged and
// skipped rather than aborting startup — they're all optional per
// SPEC_FULL §7.
func newServer(cfg *config.Config) (*server, error) {
	scanCfg := vault.ScanConfig{
		TagsInCodeblocks:       cfg.Options.TagsInCodeblocks,
		ReferencesInCodeblocks: cfg.Options.ReferencesInCodeblocks,
	}

	v, errs := vault.Construct(cfg.Vault.RootDir, scanCfg, cfg.Vault.Concurrency)
	for _, e := range errs {
		log.Printf("vault construction: %v", e)
	}

	return &server{
		rootDir:    cfg.Vault.RootDir,
		cfg:        cfg,
		v:          v,
		completion: completion.New(v, completionConfig(cfg.Options)),
		query:      query.New(v, queryConfig(cfg.Options)),
	}, nil
}

// startCollaborators wires in the optional persistence/sync/watch
// layers. Each is independently best-effort: a misconfigured redis or
// postgres doesn't prevent the server from answering editor-protocol
// requests against the in-memory vault.
func (s *server) startCollaborators(ctx context.Context) error {
	if s.cfg.Cache.Enabled {
		ttl, err := parseDurationOr(s.cfg.Cache.TTL, 30*time.Minute)
		if err != nil {
			log.Printf("cache: invalid ttl %q, using default: %v", s.cfg.Cache.TTL, err)
			ttl = 30 * time.Minute
		}
		c, err := cache.New(s.cfg.Cache.Addr, "", s.cfg.Cache.DB, ttl)
		if err != nil {
			log.Printf("cache: failed to connect, continuing without it: %v", err)
		} else {
			s.cache = c
		}
	}

	if s.cfg.Store.Enabled {
		if err := s.startStore(); err != nil {
			log.Printf("store: %v", err)
		}
	}

	if s.cfg.Sync.Enabled {
		if err := s.startSync(ctx); err != nil {
			log.Printf("vaultsync: %v", err)
		}
	}

	w, err := watcher.New(s.rootDir, watcher.DefaultConfig())
	if err != nil {
		log.Printf("watcher: %v", err)
		return nil
	}
	w.OnChange(func(paths []string) {
		log.Printf("watcher: refreshing vault after %d changed file(s)", len(paths))
		if errs := s.v.Refresh(); len(errs) > 0 {
			log.Printf("watcher: refresh reported %d errors", len(errs))
		}
		s.saveSnapshot()
	})
	if err := w.Start(ctx); err != nil {
		log.Printf("watcher: %v", err)
		return nil
	}
	s.watch = w

	return nil
}

func (s *server) startStore() error {
	st, err := store.OpenDSN(s.cfg.Store.DSN)
	if err != nil {
		return err
	}
	if err := st.EnsureSchema(); err != nil {
		_ = st.Close()
		return err
	}
	s.store = st
	s.saveSnapshot()
	return nil
}

func (s *server) startSync(ctx context.Context) error {
	interval, err := parseDurationOr(s.cfg.Sync.SyncInterval, 5*time.Minute)
	if err != nil {
		log.Printf("vaultsync: invalid sync_interval %q, using default: %v", s.cfg.Sync.SyncInterval, err)
		interval = 5 * time.Minute
	}

	mgr, err := vaultsync.NewManager(&vaultsync.Config{
		RemoteURL:    s.cfg.Sync.RemoteURL,
		Branch:       s.cfg.Sync.Branch,
		LocalPath:    s.cfg.Sync.LocalPath,
		SSHKeyPath:   s.cfg.Sync.SSHKeyPath,
		AutoSync:     true,
		SyncInterval: interval,
	})
	if err != nil {
		return err
	}
	mgr.SetUpdateCallback(func(changed []string) {
		log.Printf("vaultsync: refreshing vault after %d changed file(s)", len(changed))
		if errs := s.v.Refresh(); len(errs) > 0 {
			log.Printf("vaultsync: refresh reported %d errors", len(errs))
		}
		s.saveSnapshot()
	})
	if err := mgr.Initialize(ctx); err != nil {
		return err
	}
	mgr.StartAutoSync(ctx)
	s.syncMgr = mgr
	return nil
}

func (s *server) saveSnapshot() {
	if s.store == nil {
		return
	}
	var files []store.FileSnapshot
	for _, ref := range s.v.Referenceables(vault.AllScope()) {
		if ref.Kind != models.RefableFile {
			continue
		}
		files = append(files, store.FileSnapshot{Path: ref.Path, ModTime: time.Now()})
	}
	if err := s.store.SaveSnapshot(files); err != nil {
		log.Printf("store: failed to save snapshot: %v", err)
	}
}

func (s *server) stopCollaborators() {
	if s.watch != nil {
		if err := s.watch.Stop(); err != nil {
			log.Printf("watcher: error stopping: %v", err)
		}
	}
	if s.syncMgr != nil {
		s.syncMgr.Stop()
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Printf("cache: error closing: %v", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("store: error closing: %v", err)
		}
	}
}
