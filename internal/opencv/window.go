package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const keyEsc = 27

// Window is a highgui window showing the preview.
type Window struct {
	win   *gocv.Window
	shown bool
}

func NewWindow(name string) *Window {
	win := gocv.NewWindow(name)
	win.SetWindowProperty(gocv.WindowPropertyAutosize, gocv.WindowAutosize)
	return &Window{win: win}
}

func (w *Window) Show(img *image.RGBA) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert preview: %w", err)
	}
	defer mat.Close()

	w.win.IMShow(mat)
	w.shown = true
	return nil
}

// StopRequested pumps the GUI event loop for one millisecond.
func (w *Window) StopRequested() bool {
	switch w.win.WaitKey(1) & 0xff {
	case 'q', keyEsc:
		return true
	}
	// Until the first frame is shown the window may not be mapped yet.
	return w.shown && w.win.GetWindowProperty(gocv.WindowPropertyVisible) < 1
}

func (w *Window) Close() error {
	return w.win.Close()
}
