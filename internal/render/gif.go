package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	stddraw "image/draw"
	"image/gif"
	"io"
	"math"
	"os"
	"sync/atomic"

	"github.com/san-kum/msdsim/internal/dynamo"
)

// DefaultGIF is the file name the animation is written to by default.
const DefaultGIF = "mass_spring_damper.gif"

type GIFOptions struct {
	// FPS is the playback rate. One trajectory state is one frame.
	FPS int
	// Workers bounds the number of frames rasterized concurrently.
	// Zero means GOMAXPROCS.
	Workers int
	// Progress, if set, is called once per finished frame. It may be called
	// from several goroutines at once.
	Progress func(done int)
}

// FrameDelay converts a frame rate to the GIF delay in hundredths of a
// second, never less than 1.
func FrameDelay(fps int) int {
	if fps <= 0 {
		return 1
	}
	return max(1, int(math.Round(100/float64(fps))))
}

// GIF renders one frame per state of traj and writes the looping animation
// to w. Frames are rasterized in parallel and written in trajectory order.
func GIF(ctx context.Context, w io.Writer, traj *dynamo.Trajectory, scene Scene, opts GIFOptions) error {
	if traj == nil || traj.Len() == 0 {
		return errors.New("render: empty trajectory")
	}
	if err := scene.Validate(); err != nil {
		return err
	}
	if opts.FPS <= 0 {
		opts.FPS = dynamo.DefaultFPS
	}

	n := traj.Len()
	frames := make([]*image.Paletted, n)
	delays := make([]int, n)
	delay := FrameDelay(opts.FPS)

	var finished atomic.Int64

	err := ParallelFor(ctx, n, opts.Workers, 4, func(i int) error {
		d := traj.Displacement(i)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("render: non-finite displacement at step %d", i)
		}
		img, err := scene.Image(d, fmt.Sprintf("t = %.2f s", traj.Time(i)))
		if err != nil {
			return fmt.Errorf("render: frame %d: %w", i, err)
		}
		frames[i] = toPaletted(img)
		delays[i] = delay
		if opts.Progress != nil {
			opts.Progress(int(finished.Add(1)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	return gif.EncodeAll(w, &gif.GIF{
		Image:     frames,
		Delay:     delays,
		LoopCount: 0,
	})
}

// WriteGIF is GIF to a file at path.
func WriteGIF(ctx context.Context, path string, traj *dynamo.Trajectory, scene Scene, opts GIFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := GIF(ctx, f, traj, scene, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, palette.Plan9)
	stddraw.Draw(out, b, img, b.Min, stddraw.Src)
	return out
}
