package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/andy/tourbook/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all tours to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			name := fmt.Sprintf("tours-%s.xlsx", time.Now().Format("20060102-150405"))
			out = filepath.Join(appInstance.Config.Export.OutputDir, name)
		}

		md, err := appInstance.MasterDataRepo.Load(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load master data: %w", err)
		}

		tours := appInstance.TourService.List()
		if err := export.WriteTours(out, tours, md); err != nil {
			return err
		}

		fmt.Printf("✓ Exported %d tour(s) to %s\n", len(tours), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: export dir from config)")
}
