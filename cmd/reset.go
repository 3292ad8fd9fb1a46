package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation requirement")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(cleanupLocksCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the database schema, destroying all imported data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return fmt.Errorf("reset destroys all imported data; pass --force to confirm")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		st, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.Reset(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("database reset")
		return nil
	},
}

var cleanupLocksCmd = &cobra.Command{
	Use:   "cleanup-locks",
	Short: "Remove stale import locks left behind by crashed importers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		st, err := openStore(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		n, err := st.CleanupStaleLocks(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("removed %d stale lock(s)\n", n)
		return nil
	},
}
