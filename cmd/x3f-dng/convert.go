package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/weaming/x3f-dng/output"
	"github.com/weaming/x3f-dng/x3f"
)

func convertCmd() *cli.Command {
	var f convertFlags

	return &cli.Command{
		Name:      "convert",
		Usage:     "写入 DNG 文件",
		ArgsUsage: "<bundle.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "输出文件路径 (必需)",
				Destination: &f.output,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "wb",
				Usage:       "白平衡: Auto, Sunlight, Shadow, Overcast, Incandescent, Florescent, Flash, Custom, ColorTemp, AutoLSP (默认使用相机记录的值)",
				Destination: &f.whiteBalance,
			},
			&cli.StringFlag{
				Name:        "profile",
				Usage:       "色彩配置: embed, calibrated, none",
				Value:       output.IntentEmbed.String(),
				Destination: &f.profile,
			},
			&cli.BoolFlag{Name: "compress", Usage: "RAW 数据使用 Adobe Deflate 压缩", Destination: &f.compress},
			&cli.BoolFlag{Name: "sgain", Usage: "写入空间增益 (OpcodeList2)", Destination: &f.spatialGain},
			&cli.BoolFlag{Name: "denoise", Usage: "降噪", Destination: &f.denoise},
			&cli.BoolFlag{Name: "fix-bad", Usage: "修复坏点", Destination: &f.fixBad},
			&cli.IntFlag{
				Name:        "preview-width",
				Usage:       "预览图最大宽度",
				Value:       output.DefaultPreviewWidth,
				Destination: &f.previewWidth,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("%w: %v", output.ErrArgument, err)
			}
			applyConvertConfig(cmd, cfg, &f)

			opts, err := f.options(cfg)
			if err != nil {
				return err
			}

			logger := x3f.NewLogger()
			logger.Step("打开文件", filepath.Base(cmd.Args().First()))
			src, err := openBundle(cmd)
			if err != nil {
				return err
			}
			logger.Done(src.WhiteBalance())

			if err := output.ExportDNG(src, f.output, opts, logger); err != nil {
				logger.Error("%s: %v", output.StatusOf(err), err)
				return err
			}
			logger.Total()
			return nil
		},
	}
}
