package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// configFile 由 --config 指定，空字串代表自動尋找 config.yaml
var configFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image_media",
		Short: "Image transformation and QR code service backed by Cloudinary",
		Long: `image_media serves HTTP routes that rotate hosted images through Cloudinary,
generate QR codes for their URLs and keep the resulting URLs on the image record.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 載入 .env（不存在時忽略）
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (default: ./config.yaml if present)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}
