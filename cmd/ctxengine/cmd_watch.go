package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/SynapticNetworks/context-engine/engine"
	"github.com/SynapticNetworks/context-engine/internal/telemetry"
)

func newWatchCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "watch <scenario.yaml>",
		Short: "Run a scenario while serving a websocket stream of ranked states",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			e, err := buildEngine(scenario)
			if err != nil {
				return fmt.Errorf("building engine: %w", err)
			}

			snapshots := make(chan engine.Snapshot)
			done := make(chan struct{})
			defer close(done)

			hub := telemetry.NewHub(done, snapshots, logger)
			mux := http.NewServeMux()
			mux.HandleFunc("/ws", hub.ServeHTTP)

			server := &http.Server{Addr: addr, Handler: mux}
			go func() {
				logger.Infow("telemetry server listening", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Errorw("telemetry server exited", "error", err)
				}
			}()
			defer server.Close()

			for i, injections := range scenario.Ticks {
				e.Inject(injections)
				e.Step()
				snap := e.Snap()
				select {
				case snapshots <- snap:
				default:
				}
				printRankedStates(cmd, i+1, snap.States)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to serve the telemetry websocket on")
	return cmd
}
