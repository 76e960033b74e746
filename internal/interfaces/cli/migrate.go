package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wyg1997/CommandAPI/config"
	"github.com/wyg1997/CommandAPI/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != config.StorageDriverSQLite {
				return fmt.Errorf("migrate requires STORAGE_DRIVER=sqlite, got %q", cfg.Storage.Driver)
			}

			_, closer, err := openRepository(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			logger.GetLogger().Info("Migrations applied: path=%s", cfg.Storage.SQLitePath)
			return closer.Close()
		},
	}
}
