package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/weaming/x3f-dng/output"
	"github.com/weaming/x3f-dng/x3f"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "x3f-dng",
		Usage:   "将已解码的 Sigma X3F 数据写为 DNG",
		Version: x3f.Version,
		// 错误统一由 main 输出并决定退出码
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "配置文件路径",
				Value: configPath(),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			convertCmd(),
			profilesCmd(),
			cameraCmd(),
			metaCmd(),
		},
	}
}

// exitCode 参数错误为 1，输出文件错误为 2
func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return int(output.StatusOf(err))
}

// openBundle 打开命令行指定的 bundle
func openBundle(cmd *cli.Command) (*x3f.Bundle, error) {
	if cmd.Args().Len() != 1 {
		return nil, cli.Exit("必须指定一个输入 bundle 文件", 1)
	}
	b, err := x3f.OpenBundle(cmd.Args().First())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", output.ErrArgument, err)
	}
	return b, nil
}
