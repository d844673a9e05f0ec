package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hlcli/internal/hlapi"
	"hlcli/internal/paths"
)

// Config selects the daemon's network.
type Config struct {
	Testnet bool
}

// Run starts the daemon and blocks until shutdown: SIGINT, SIGTERM, or an IPC
// shutdown request. Socket, pid, and status files are removed exactly once on
// the way out. A bind failure aborts before any poller runs.
func Run(cfg Config, log *zap.Logger) error {
	if _, err := paths.EnsureDir(); err != nil {
		return err
	}

	socketPath, err := paths.ServerSocketPath()
	if err != nil {
		return err
	}
	// A leftover socket from a dead daemon blocks the bind. The stopper and
	// client treat a path with no listener as not-running, so removal is safe.
	if err := removeIfExists(socketPath); err != nil {
		return fmt.Errorf("remove stale socket %s: %w", socketPath, err)
	}

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("bind %s: %w", socketPath, err)
	}
	log.Info("ipc listening", zap.String("socket", socketPath))

	startedAt := systemClock()
	if err := writeRunFiles(cfg.Testnet, startedAt); err != nil {
		ln.Close()
		return err
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// One shared shutdown broadcast: signals cancel signalCtx, the IPC
	// shutdown handler calls cancel directly.
	ctx, cancel := context.WithCancel(signalCtx)
	defer cancel()

	cache := NewCache(nil)
	api := hlapi.NewClient(cfg.Testnet)
	p := &pollers{api: api, cache: cache, log: log}
	srv := &server{
		cache:           cache,
		clock:           systemClock,
		log:             log,
		testnet:         cfg.Testnet,
		startedAt:       startedAt,
		requestShutdown: cancel,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.runMids(ctx) })
	g.Go(func() error { return p.runPerpCtxs(ctx) })
	g.Go(func() error { return p.runPerpMetas(ctx) })
	g.Go(func() error { return p.runSpot(ctx) })
	g.Go(func() error { return srv.acceptLoop(ctx, ln) })

	err = g.Wait()
	log.Info("server stopping")
	cleanupRunFiles(log)
	return err
}

// writeRunFiles records the pid and the network/start-time marker. Written
// only after the socket is bound, so a failed start leaves nothing behind.
func writeRunFiles(testnet bool, startedAt int64) error {
	pidPath, err := paths.ServerPidPath()
	if err != nil {
		return err
	}
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", pidPath, err)
	}

	statusPath, err := paths.ServerStatusPath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(StatusFile{Testnet: testnet, StartedAt: startedAt}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(statusPath, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", statusPath, err)
	}
	return nil
}

func cleanupRunFiles(log *zap.Logger) {
	for _, fn := range []func() (string, error){
		paths.ServerSocketPath,
		paths.ServerPidPath,
		paths.ServerStatusPath,
	} {
		path, err := fn()
		if err != nil {
			continue
		}
		if err := removeIfExists(path); err != nil {
			log.Warn("cleanup failed", zap.String("path", path), zap.Error(err))
		}
	}
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
