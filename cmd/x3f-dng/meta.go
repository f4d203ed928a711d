package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/weaming/x3f-dng/x3f"
)

func metaCmd() *cli.Command {
	return &cli.Command{
		Name:      "meta",
		Usage:     "输出元数据到 <bundle>.meta",
		ArgsUsage: "<bundle.yaml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := openBundle(cmd)
			if err != nil {
				return err
			}
			input := cmd.Args().First()
			outputPath := input + ".meta"

			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("无法创建元数据文件: %w", err)
			}
			defer f.Close()
			dumpMetadata(f, src.Doc())

			fmt.Printf("   : READ THE BUNDLE %s\n", input)
			fmt.Printf("   : Dump META DATA to %s\n", outputPath)
			return nil
		},
	}
}

func dumpMetadata(w io.Writer, doc x3f.BundleDoc) {
	fmt.Fprintf(w, "BEGIN: image meta data\n\n")
	fmt.Fprintf(w, "  image             = %s\n", doc.Image)
	fmt.Fprintf(w, "  white_balance     = %s\n", doc.WhiteBalance)
	fmt.Fprintf(w, "  black_level       = %v\n", doc.Levels.Black)
	fmt.Fprintf(w, "  white_level       = %v\n", doc.Levels.White)
	if t := doc.Thumbnail; t != nil {
		fmt.Fprintf(w, "  thumbnail         = %dx%d\n", t.Columns, t.Rows)
	}
	fmt.Fprintf(w, "END: image meta data\n\n")

	fmt.Fprintf(w, "BEGIN: CAMF meta data\n\n")
	for _, name := range sortedKeys(doc.Texts) {
		fmt.Fprintf(w, "BEGIN: CAMF text meta data (%s)\n", name)
		fmt.Fprintf(w, "\"%s\"\n", doc.Texts[name])
		fmt.Fprintf(w, "END: CAMF text meta data\n\n")
	}
	for _, name := range sortedKeys(doc.Floats) {
		fmt.Fprintf(w, "  %-24s = %12.6g\n", name, doc.Floats[name])
	}
	for _, name := range sortedKeys(doc.Unsigned) {
		fmt.Fprintf(w, "  %-24s = %12d\n", name, doc.Unsigned[name])
	}
	for _, name := range sortedKeys(doc.Rects) {
		fmt.Fprintf(w, "BEGIN: CAMF matrix meta data (%s)\n", name)
		fmt.Fprintf(w, "unsigned integer [4]\n")
		printRow(w, doc.Rects[name], "%12d ")
		fmt.Fprintf(w, "END: CAMF matrix meta data\n\n")
	}
	for _, name := range sortedKeys(doc.Vectors) {
		fmt.Fprintf(w, "BEGIN: CAMF matrix meta data (%s)\n", name)
		fmt.Fprintf(w, "float [3]\n")
		printRow(w, doc.Vectors[name], "%12.6g ")
		fmt.Fprintf(w, "END: CAMF matrix meta data\n\n")
	}
	fmt.Fprintf(w, "END: CAMF meta data\n\n")

	if len(doc.WhiteBalances) > 0 {
		fmt.Fprintf(w, "BEGIN: white balance meta data\n\n")
		for _, name := range sortedKeys(doc.WhiteBalances) {
			wb := doc.WhiteBalances[name]
			fmt.Fprintf(w, "%s\n", name)
			if wb.BMTToXYZ != nil {
				fmt.Fprintf(w, "bmt_to_xyz [3][3]\n")
				printMatrix(w, wb.BMTToXYZ, 3)
			}
			if wb.ColorCorrection != nil {
				fmt.Fprintf(w, "color_correction [3][3]\n")
				printMatrix(w, wb.ColorCorrection, 3)
			}
			if wb.Gain != nil {
				fmt.Fprintf(w, "gain [3]\n")
				printRow(w, wb.Gain, "%12.6g ")
			}
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "END: white balance meta data\n\n")
	}

	grids := doc.SpatialGain
	for _, name := range sortedKeys(doc.SpatialGainTables) {
		grids = append(grids, doc.SpatialGainTables[name]...)
	}
	if len(grids) > 0 {
		fmt.Fprintf(w, "BEGIN: spatial gain meta data\n\n")
		for i, g := range grids {
			fmt.Fprintf(w, "  [%d] channel %d/%d, %dx%d, pitch %d/%d, offset %d/%d\n",
				i, g.Channel, g.Channels, g.Rows, g.Cols, g.RowPitch, g.ColPitch, g.RowOffset, g.ColOffset)
		}
		fmt.Fprintf(w, "END: spatial gain meta data\n\n")
	}

	if len(doc.Properties) > 0 {
		fmt.Fprintf(w, "BEGIN: PROP meta data\n\n")
		for i, name := range sortedKeys(doc.Properties) {
			fmt.Fprintf(w, "          [%d] \"%s\" = \"%s\"\n", i, name, doc.Properties[name])
		}
		fmt.Fprintf(w, "END: PROP meta data\n\n")
	} else {
		fmt.Fprintf(w, "INFO: No PROP meta data found\n\n")
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func printRow[T any](w io.Writer, row []T, format string) {
	var sb strings.Builder
	for _, v := range row {
		fmt.Fprintf(&sb, format, v)
	}
	fmt.Fprintln(w, sb.String())
}

func printMatrix(w io.Writer, data []float64, linesize int) {
	for i := 0; i+linesize <= len(data); i += linesize {
		printRow(w, data[i:i+linesize], "%12.6g ")
	}
}
