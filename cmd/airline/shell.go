package main

import (
	"context"

	"github.com/spf13/cobra"
)

func runShell(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	stop := a.watchSignals(ctx, cancel)
	defer stop()

	console := a.slice.Console(cmd.InOrStdin(), cmd.OutOrStdout())

	// a leitura do terminal não é interrompível; num sinal o processo sai sem esperar o console
	done := make(chan error, 1)
	go func() {
		done <- console.Run(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		a.logger.Info(context.Background(), "shell interrupted", nil)
		return nil
	}
}
