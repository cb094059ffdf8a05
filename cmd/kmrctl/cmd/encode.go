package cmd

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quIiIettt/kmr/pkg/activity"
	"github.com/quIiIettt/kmr/pkg/kmr"
)

// NewEncodeCmd compresses a PNG or JPEG into a .kmr container.
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <in.png> [out.kmr]",
		Short: "KMR encode",
		Long:  "Compress a raster image into a .kmr container.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, _ := cmd.Flags().GetInt("block")
			discard, _ := cmd.Flags().GetInt("discard")
			smooth, _ := cmd.Flags().GetBool("smooth")
			csvPath, _ := cmd.Flags().GetString("log-csv")

			inPath := args[0]
			outPath := strings.TrimSuffix(inPath, ".png") + kmr.Ext
			if len(args) > 1 {
				outPath = args[1]
			}

			f, err := os.Open(inPath)
			if err != nil {
				return err
			}
			defer f.Close()
			src, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", inPath, err)
			}

			m := kmr.FromImage(src)
			p := kmr.Params{BlockSize: block, DiscardBits: discard, Smooth: smooth}

			start := time.Now()
			enc, err := kmr.Encode(m.Pix, m.Width, m.Height, p)
			if err != nil {
				return err
			}
			encodeMs := float64(time.Since(start).Microseconds()) / 1000

			if err := os.WriteFile(outPath, enc, 0o644); err != nil {
				return err
			}
			slog.InfoContext(ctx, "encoded",
				"in", inPath, "out", outPath,
				"raw", len(m.Pix), "compressed", len(enc),
				"ms", encodeMs)

			if csvPath != "" {
				res, err := kmr.Decode(enc)
				if err != nil {
					return err
				}
				l := activity.NewFileLogger(csvPath)
				defer l.Close()
				return l.Log(activity.Record{
					Source:         inPath,
					Width:          m.Width,
					Height:         m.Height,
					BlockSize:      res.BlockSize,
					DiscardBits:    res.DiscardBits,
					Smooth:         res.Smooth,
					PSNR:           kmr.PSNR(m.Pix, res.RGBA),
					RawSize:        len(m.Pix),
					CompressedSize: len(enc),
					NodalSize:      res.NodalLen,
					QOISize:        res.QOILen,
					EncodeMs:       encodeMs,
				})
			}
			return nil
		},
	}

	pf := cmd.Flags()
	pf.Int("block", 8, "Tile edge in pixels [2,255]")
	pf.Int("discard", 0, "Low bits discarded per node [0,6]; 0 is lossless")
	pf.Bool("smooth", false, "Bilinear preview reconstruction")
	return cmd
}

// NewDecodeCmd expands a .kmr container back to PNG.
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <in.kmr> [out.png]",
		Short: "KMR decode",
		Long:  "Reconstruct a raster image from a .kmr container and write it as PNG.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, _ := cmd.Flags().GetString("log-csv")

			inPath := args[0]
			outPath := strings.TrimSuffix(inPath, kmr.Ext) + ".png"
			if len(args) > 1 {
				outPath = args[1]
			}

			data, err := os.ReadFile(inPath)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := kmr.Decode(data)
			if err != nil {
				return err
			}
			decodeMs := float64(time.Since(start).Microseconds()) / 1000

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := png.Encode(out, res.Image().ToNRGBA()); err != nil {
				return err
			}
			slog.InfoContext(ctx, "decoded",
				"in", inPath, "out", outPath,
				"size", fmt.Sprintf("%dx%d", res.Width, res.Height),
				"ms", decodeMs)

			if csvPath != "" {
				l := activity.NewFileLogger(csvPath)
				defer l.Close()
				return l.Log(activity.Record{
					Source:         inPath,
					Width:          res.Width,
					Height:         res.Height,
					BlockSize:      res.BlockSize,
					DiscardBits:    res.DiscardBits,
					Smooth:         res.Smooth,
					RawSize:        len(res.RGBA),
					CompressedSize: res.TotalLen,
					NodalSize:      res.NodalLen,
					QOISize:        res.QOILen,
					DecodeMs:       decodeMs,
				})
			}
			return nil
		},
	}
	return cmd
}
