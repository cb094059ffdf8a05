package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quIiIettt/kmr/pkg/kmr"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <in.kmr>",
		Short: "Analyze KMR container structure",
		Long:  "Parses a .kmr container and displays its parameters and section sizes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			res, err := kmr.Decode(data)
			if err != nil {
				return fmt.Errorf("parse error: %w", err)
			}

			fmt.Println("=== Container ===")
			fmt.Printf("Size: %dx%d\n", res.Width, res.Height)
			fmt.Printf("BlockSize: %d\n", res.BlockSize)
			fmt.Printf("DiscardBits: %d (0 = lossless)\n", res.DiscardBits)
			fmt.Printf("Smooth: %v\n", res.Smooth)
			fmt.Println()

			fmt.Println("=== Sections ===")
			raw := 4 * res.Width * res.Height
			fmt.Printf("Total: %d bytes (%.2fx over raw %d)\n", res.TotalLen, float64(raw)/float64(res.TotalLen), raw)
			fmt.Printf("QOI residual: %d bytes\n", res.QOILen)
			fmt.Printf("Nodal (Y+Cb+Cr): %d bytes\n", res.NodalLen)
			return nil
		},
	}
	return cmd
}
