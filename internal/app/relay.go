package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/livepush/internal/adapters/config"
	"go.trai.ch/livepush/internal/adapters/transport"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/zerr"
)

// relayPath is where the relay accepts websocket connections.
const relayPath = "/ws"

// Relay runs a pub/sub relay on addr until ctx is done.
// Sessions and runtimes on the same machine can use it instead of a hosted relay.
func (a *App) Relay(ctx context.Context, addr string) error {
	if addr == "" {
		addr = domain.DefaultRelayAddr
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen for relay"), "addr", addr)
	}
	return a.serveRelay(ctx, lis)
}

func (a *App) serveRelay(ctx context.Context, lis net.Listener) error {
	hub := transport.NewHub(transport.DefaultSettings(), a.logger)
	mux := http.NewServeMux()
	mux.Handle(relayPath, hub)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		// Shutdown does not close hijacked websocket connections.
		hub.CloseAll()
	}()

	a.logger.Info("Relay listening on ws://" + lis.Addr().String() + relayPath)
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "relay server failed")
	}
	return nil
}

// Schema prints the JSON Schema of the configuration file.
func (a *App) Schema(_ context.Context) error {
	data, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(append(data, '\n'))
	return err
}
