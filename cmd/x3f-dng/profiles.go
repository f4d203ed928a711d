package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/weaming/x3f-dng/matrix"
	"github.com/weaming/x3f-dng/output"
	"github.com/weaming/x3f-dng/x3f"
)

type profileJSON struct {
	Name           string           `json:"name"`
	Kind           string           `json:"kind"`
	ColorMatrix1   matrix.Matrix3x3 `json:"color_matrix1"`
	ForwardMatrix1 matrix.Matrix3x3 `json:"forward_matrix1"`
}

type profilesJSON struct {
	Camera       string        `json:"camera"`
	WhiteBalance string        `json:"white_balance"`
	Profiles     []profileJSON `json:"profiles"`
	Calibrated   *profileJSON  `json:"calibrated,omitempty"`
}

func profilesCmd() *cli.Command {
	var wb string

	return &cli.Command{
		Name:      "profiles",
		Usage:     "以 JSON 输出各个 camera profile 的矩阵",
		ArgsUsage: "<bundle.yaml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "wb", Usage: "白平衡 (默认使用相机记录的值)", Destination: &wb},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := LoadConfig(cmd.String("config"))
			if err != nil {
				return fmt.Errorf("%w: %v", output.ErrArgument, err)
			}
			if wb == "" {
				wb = cfg.WhiteBalance
			}
			src, err := openBundle(cmd)
			if err != nil {
				return err
			}
			calibrated, err := cfg.calibratedOverrides()
			if err != nil {
				return fmt.Errorf("%w: %v", output.ErrArgument, err)
			}
			return writeProfiles(os.Stdout, src, wb, calibrated)
		},
	}
}

// writeProfiles 解析全部 profile 并写出 JSON；无法识别相机时省略 calibrated
func writeProfiles(w io.Writer, src x3f.Source, wb string, calibrated map[x3f.CameraModel]output.ResolvedProfile) error {
	if wb == "" {
		wb = src.WhiteBalance()
	}
	doc := profilesJSON{WhiteBalance: wb}

	for _, p := range output.DefaultCameraProfiles {
		r, err := output.Resolve(p, src, wb)
		if err != nil {
			return fmt.Errorf("profile '%s': %w", p.Name, err)
		}
		doc.Profiles = append(doc.Profiles, profileJSON{
			Name:           p.Name,
			Kind:           p.Kind.String(),
			ColorMatrix1:   r.ColorMatrix1,
			ForwardMatrix1: r.ForwardMatrix1,
		})
	}

	if model, err := x3f.DetectCamera(src); err == nil {
		doc.Camera = model.String()
		if p, err := output.CalibratedProfile(model, calibrated); err == nil {
			doc.Calibrated = &profileJSON{
				Name:           p.Name,
				Kind:           p.Kind.String(),
				ColorMatrix1:   p.Calibrated.ColorMatrix1,
				ForwardMatrix1: p.Calibrated.ForwardMatrix1,
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func cameraCmd() *cli.Command {
	return &cli.Command{
		Name:      "camera",
		Usage:     "输出识别到的相机型号",
		ArgsUsage: "<bundle.yaml>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := openBundle(cmd)
			if err != nil {
				return err
			}
			return writeCamera(os.Stdout, src)
		},
	}
}

func writeCamera(w io.Writer, src x3f.CAMF) error {
	model, err := x3f.DetectCamera(src)
	if err != nil {
		return fmt.Errorf("%w: %v", output.ErrArgument, err)
	}
	_, calibErr := output.CalibratedProfile(model, nil)
	fmt.Fprintf(w, "%s (calibrated profile: %t)\n", model, calibErr == nil)
	return nil
}
