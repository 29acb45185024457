package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mateusmacedo/go-airline/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// serve flags
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "airline",
	Short: "Airline reservation manager",
	Long: `airline keeps registered users and flights in users.json and flights.json
and lets a logged-in user book seats.

Run without arguments to start the interactive menu.`,
	SilenceUsage: true,
	RunE:         runShell,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reservation operations over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides http.addr)")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
