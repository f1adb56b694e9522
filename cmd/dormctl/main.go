// Command dormctl is the operator CLI: seeding, staff accounts, booking
// confirmation and room ledger checks.
package main

import (
	"fmt" // Error output
	"os"  // Exit codes

	"dorm_booking/internal/config" // Configuration
	"dorm_booking/internal/db"     // Database connection

	"github.com/spf13/cobra" // CLI framework
	"gorm.io/gorm"           // GORM ORM library
)

// env is opened once per invocation by the root command
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "dormctl",
		Short:         "Operate the dormitory booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cfg.SetupLogging()
			gdb, err := db.Open(cfg)
			if err != nil {
				return fmt.Errorf("connect to DB: %w", err)
			}
			e.cfg, e.db = cfg, gdb
			return nil
		},
	}
	cmd.AddCommand(seedCmd(e), createAdminCmd(e), confirmBookingCmd(e), ledgerCmd(e))
	return cmd
}
