package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"xdao.co/rsakey/compliance"
	"xdao.co/rsakey/convsvc"
	"xdao.co/rsakey/storage"
	"xdao.co/rsakey/storage/localfs"
)

type config struct {
	listen    string
	storeDirs []string
	mode      compliance.Mode
}

// dirList is a repeatable flag.
type dirList []string

func (d *dirList) String() string { return strings.Join(*d, string(os.PathListSeparator)) }

func (d *dirList) Set(v string) error {
	if v == "" {
		return errors.New("empty directory")
	}
	*d = append(*d, v)
	return nil
}

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, cfg); err != nil {
		slog.Error("rsakeyd stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("rsakeyd stopped")
}

// parseConfig reads flags, falling back to RSAKEYD_LISTEN and
// RSAKEYD_STORE_DIR for their defaults. RSAKEYD_STORE_DIR is a
// path-list-separated list of directories.
func parseConfig(args []string, getenv func(string) string, errOut io.Writer) (config, error) {
	listenDefault := "127.0.0.1:7778"
	if v := getenv("RSAKEYD_LISTEN"); v != "" {
		listenDefault = v
	}

	fs := flag.NewFlagSet("rsakeyd", flag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", listenDefault, "listen address")
	var storeDirs dirList
	fs.Var(&storeDirs, "store-dir", "directory for derived public keys; repeat to replicate (Fetch is disabled without one)")
	mode := fs.String("mode", "lenient", "default compliance mode: lenient or strict")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 0 {
		return config{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	m, err := compliance.ParseMode(*mode)
	if err != nil {
		return config{}, fmt.Errorf("invalid --mode: %w", err)
	}
	if len(storeDirs) == 0 {
		for _, d := range filepath.SplitList(getenv("RSAKEYD_STORE_DIR")) {
			if d != "" {
				storeDirs = append(storeDirs, d)
			}
		}
	}
	return config{listen: *listen, storeDirs: storeDirs, mode: m}, nil
}

func newServer(cfg config) (*grpc.Server, error) {
	svc := &convsvc.Server{Mode: cfg.mode}
	var backends []storage.KeyStore
	for _, dir := range cfg.storeDirs {
		store, err := localfs.New(dir)
		if err != nil {
			return nil, fmt.Errorf("open key store %s: %w", dir, err)
		}
		backends = append(backends, store)
	}
	switch len(backends) {
	case 0:
	case 1:
		svc.Store = backends[0]
	default:
		svc.Store = storage.ReplicatingStore{Backends: backends}
	}
	s := grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	convsvc.RegisterKeyConvServer(s, svc)
	return s, nil
}

func serve(ctx context.Context, cfg config) error {
	s, err := newServer(cfg)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", cfg.listen)
	if err != nil {
		return err
	}

	slog.Info("rsakeyd listening",
		"addr", lis.Addr().String(),
		"mode", cfg.mode.String(),
		"store_dirs", cfg.storeDirs,
	)

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		s.GracefulStop()
		return <-errc
	}
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	attrs := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	}
	if err != nil {
		slog.Warn("rpc failed", append(attrs, "error", err)...)
		return resp, err
	}
	slog.Debug("rpc", attrs...)
	return resp, nil
}
