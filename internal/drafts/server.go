// Package drafts persists in-progress wizard records and submission audit
// events in an embedded NATS JetStream instance, so an interrupted
// registration can be resumed on the next run.
package drafts

import (
	"errors"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/stockline/herdctl/internal/logger"
)

// startEmbedded starts an in-process NATS server with JetStream enabled,
// storing data under dataDir. No network ports are opened.
func startEmbedded(dataDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server, data dir: %s", dataDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		return nil, errors.New("embedded nats server failed to start within timeout")
	}

	logger.Debug("Embedded NATS server ready")
	return ns, nil
}

// connectInProcess connects to the embedded server without touching the
// network.
func connectInProcess(ns *server.Server) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect("", nats.InProcessServer(ns))
	if err != nil {
		return nil, nil, err
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return nc, js, nil
}

// shutdown drains the connection and stops the server, bounded so a
// wedged drain can never hang process exit.
func shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		drainDone := make(chan error, 1)
		go func() { drainDone <- nc.Drain() }()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
			logger.Debug("Embedded NATS server shut down")
		case <-time.After(5 * time.Second):
			return errors.New("embedded nats server shutdown timed out")
		}
	}

	return nil
}
