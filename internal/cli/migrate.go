package cli

import (
	"hostpatrol/base"
	"hostpatrol/pkg/core/system"
	"hostpatrol/pkg/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "迁移数据库表结构",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		defer system.RunCloses()
		return db.AutoMigrate(base.DB)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
