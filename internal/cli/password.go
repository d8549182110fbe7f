package cli

import (
	"fmt"

	"hostpatrol/system/auth"

	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "生成管理员密码哈希",
	Long: `输出 bcrypt 哈希，填入配置文件的 admin.password-hash。

Examples:
  hostpatrol hash-password 'my-secret'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
