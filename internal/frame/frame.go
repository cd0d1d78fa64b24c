// Package frame holds the raw image type passed between the capture loop,
// the recording sink and the preview.
package frame

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// ErrInvalidFrame is returned when a frame does not match the shape a
// consumer was configured for.
var ErrInvalidFrame = errors.New("invalid frame")

// Shape describes the fixed geometry of every frame in a session.
type Shape struct {
	Width    int
	Height   int
	Channels int
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Width, s.Height, s.Channels)
}

// Size is the number of bytes in a tightly packed frame of this shape.
func (s Shape) Size() int {
	return s.Width * s.Height * s.Channels
}

// Validate checks that the shape is something an encoder can consume:
// positive dimensions and 3 (BGR) or 4 (BGRA) channels.
func (s Shape) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: shape %s has no pixels", ErrInvalidFrame, s)
	}
	if s.Channels != 3 && s.Channels != 4 {
		return fmt.Errorf("%w: shape %s, but we require 3 (BGR) or 4 (BGRA) channels", ErrInvalidFrame, s)
	}
	return nil
}

// Frame is a packed, row-major image in BGR or BGRA byte order, the layout
// camera devices hand out. A frame is only valid for the loop iteration that
// read it.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
	Captured time.Time
}

func (f Frame) Shape() Shape {
	return Shape{Width: f.Width, Height: f.Height, Channels: f.Channels}
}

// Conform reports an ErrInvalidFrame if f does not have exactly the given
// shape or its buffer length disagrees with its dimensions.
func (f Frame) Conform(want Shape) error {
	if f.Shape() != want {
		return fmt.Errorf("%w: frame has shape %s, but the recorder is configured for shape %s",
			ErrInvalidFrame, f.Shape(), want)
	}
	if len(f.Pix) != want.Size() {
		return fmt.Errorf("%w: frame buffer holds %d bytes, expected %d for shape %s",
			ErrInvalidFrame, len(f.Pix), want.Size(), want)
	}
	return nil
}

// ReverseChannels writes f into dst with the colour channels reversed
// (BGR -> RGB, BGRA -> RGBA; alpha stays last) and returns dst. dst is grown
// when it is too small, so callers can reuse one buffer across frames.
func (f Frame) ReverseChannels(dst []byte) []byte {
	n := len(f.Pix)
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	c := f.Channels
	for i := 0; i+c <= n; i += c {
		dst[i] = f.Pix[i+2]
		dst[i+1] = f.Pix[i+1]
		dst[i+2] = f.Pix[i]
		if c == 4 {
			dst[i+3] = f.Pix[i+3]
		}
	}
	return dst
}

// ToRGBA converts the frame into an opaque *image.RGBA (alpha is discarded
// for BGRA input).
func (f Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	c := f.Channels
	for p, i := 0, 0; i+c <= len(f.Pix) && p+4 <= len(img.Pix); p, i = p+4, i+c {
		img.Pix[p] = f.Pix[i+2]
		img.Pix[p+1] = f.Pix[i+1]
		img.Pix[p+2] = f.Pix[i]
		img.Pix[p+3] = 0xff
	}
	return img
}

// FromImage packs any image into a 3-channel BGR frame stamped with t.
func FromImage(img image.Image, t time.Time) Frame {
	b := img.Bounds()
	f := Frame{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 3,
		Pix:      make([]byte, b.Dx()*b.Dy()*3),
		Captured: t,
	}

	// Fast path for the RGBA images the screen grabber and Vidio produce.
	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := rgba.Pix[rgba.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				f.Pix[i] = row[x*4+2]
				f.Pix[i+1] = row[x*4+1]
				f.Pix[i+2] = row[x*4]
				i += 3
			}
		}
		return f
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			f.Pix[i] = uint8(bl >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(r >> 8)
			i += 3
		}
	}
	return f
}

// FromRGBABytes packs a tightly packed RGBA buffer (as produced by Vidio)
// into a BGR frame.
func FromRGBABytes(pix []byte, width, height int, t time.Time) Frame {
	img := &image.RGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	return FromImage(img, t)
}
