package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var (
	fontsOnce sync.Once
	fonts     fontSet
	errFonts  error
)

// loadFonts parses the embedded Go fonts once. Parsed fonts are read-only
// and shared; faces are not, so each rasterization creates its own.
func loadFonts() (fontSet, error) {
	fontsOnce.Do(func() {
		var fs fontSet
		if fs.regular, errFonts = opentype.Parse(goregular.TTF); errFonts != nil {
			errFonts = fmt.Errorf("parse regular font: %w", errFonts)
			return
		}
		if fs.bold, errFonts = opentype.Parse(gobold.TTF); errFonts != nil {
			errFonts = fmt.Errorf("parse bold font: %w", errFonts)
			return
		}
		fonts = fs
	})
	return fonts, errFonts
}

type faceKey struct {
	size float64
	bold bool
}

// Rasterize draws the layout onto an RGBA image.
func Rasterize(l Layout) (*image.RGBA, error) {
	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(l.Background), image.Point{}, draw.Src)
	for _, r := range l.Rects {
		draw.Draw(img, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), image.NewUniform(r.Color), image.Point{}, draw.Src)
	}

	faces := make(map[faceKey]font.Face)
	defer func() {
		for _, f := range faces {
			_ = f.Close()
		}
	}()

	for _, t := range l.Texts {
		key := faceKey{size: t.Size, bold: t.Bold}
		face, ok := faces[key]
		if !ok {
			src := fs.regular
			if t.Bold {
				src = fs.bold
			}
			face, err = opentype.NewFace(src, &opentype.FaceOptions{Size: t.Size, DPI: 72, Hinting: font.HintingFull})
			if err != nil {
				return nil, fmt.Errorf("font face %.0fpx: %w", t.Size, err)
			}
			faces[key] = face
		}
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(t.Color),
			Face: face,
			Dot:  fixed.P(t.X, t.Y),
		}
		d.DrawString(t.Value)
	}
	return img, nil
}

// WritePNG rasterizes the layout and encodes it as PNG.
func WritePNG(w io.Writer, l Layout) error {
	img, err := Rasterize(l)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// WriteWebP rasterizes the layout and encodes it as lossless WebP.
func WriteWebP(w io.Writer, l Layout) error {
	img, err := Rasterize(l)
	if err != nil {
		return err
	}
	return nativewebp.Encode(w, img, nil)
}

// PNG is WritePNG into a byte slice.
func PNG(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
