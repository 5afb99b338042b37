package main

import (
	"fmt"
	"os"

	"github.com/san-kum/msdsim/internal/config"
	"github.com/san-kum/msdsim/internal/dynamo"
	"github.com/san-kum/msdsim/internal/render"
	"github.com/san-kum/msdsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

var (
	outputPath    string
	renderFPS     int
	renderWidth   int
	renderHeight  int
	renderWorkers int
	pngPath       string
	svgPath       string
	phaseSVGPath  string
)

func renderRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args)
	if err != nil {
		return err
	}

	fps := renderFPS
	if fps <= 0 {
		fps = config.FrameRateFor(meta.Dt)
	}

	scene := render.DefaultScene()
	scene.Width, scene.Height = renderWidth, renderHeight
	if err := writeAnimation(cmd, outputPath, traj, scene, fps, renderWorkers); err != nil {
		return err
	}

	if pngPath != "" {
		title := fmt.Sprintf("%s: m=%g k=%g c=%g", meta.Name, meta.Params.Mass, meta.Params.Stiffness, meta.Params.Damping)
		w, h := vg.Length(renderWidth)*vg.Inch/96, vg.Length(renderHeight)*vg.Inch/96
		if err := render.SaveResponse(pngPath, traj, title, w, h); err != nil {
			return err
		}
		fmt.Printf("response plot: %s\n", pngPath)
	}

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(render.DisplacementSVG(traj, renderWidth, renderHeight, "#0000ff")), 0644); err != nil {
			return err
		}
		fmt.Printf("displacement svg: %s\n", svgPath)
	}

	if phaseSVGPath != "" {
		if err := os.WriteFile(phaseSVGPath, []byte(render.PhaseSVG(traj, renderWidth, renderHeight, "#0000ff")), 0644); err != nil {
			return err
		}
		fmt.Printf("phase svg: %s\n", phaseSVGPath)
	}

	return nil
}

// writeAnimation renders traj to path, one frame per state, with a progress
// bar on stderr.
func writeAnimation(cmd *cobra.Command, path string, traj *dynamo.Trajectory, scene render.Scene, fps, workers int) error {
	total := traj.Len()
	logger.Debug("rendering animation",
		zap.String("path", path),
		zap.Int("frames", total),
		zap.Int("fps", fps),
		zap.Int("width", scene.Width),
		zap.Int("height", scene.Height))

	opts := render.GIFOptions{
		FPS:     fps,
		Workers: workers,
		Progress: func(done int) {
			if done%10 == 0 || done == total {
				fmt.Fprintf(os.Stderr, "\rrendering %s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
			}
		},
	}

	err := render.WriteGIF(cmd.Context(), path, traj, scene, opts)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("render %s: %w", path, err)
	}

	fmt.Printf("animation: %s (%d frames at %d fps)\n", path, total, fps)
	return nil
}
