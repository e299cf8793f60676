package convert

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"nejetool/pkg/bitmap"
)

var ErrInvalidInput = errors.New("invalid input image")

// Filters are the resampling filters selectable by name. nearest matches
// the fast default of the vendor tool.
var Filters = map[string]imaging.ResampleFilter{
	"nearest": imaging.NearestNeighbor,
	"box":     imaging.Box,
	"linear":  imaging.Linear,
	"lanczos": imaging.Lanczos,
}

func New(fs afero.Fs, opts ...Option) *Converter {
	c := &Converter{
		fs:       fs,
		format:   bitmap.NEJE,
		filter:   imaging.NearestNeighbor,
		cli:      resty.New().SetDoNotParseResponse(true),
		log:      zap.NewNop(),
		progress: os.Stderr,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Converter turns pictures into engraver bitmaps.
type Converter struct {
	fs       afero.Fs
	format   bitmap.Format
	filter   imaging.ResampleFilter
	cli      *resty.Client
	log      *zap.Logger
	progress io.Writer
}

// Convert writes the bitmap for src into dst and returns its size.
func (c *Converter) Convert(src, dst string) (int, error) {
	img, err := c.Load(src)
	if err != nil {
		return 0, err
	}

	bs := c.Encode(img)
	if err := afero.WriteFile(c.fs, dst, bs, 0644); err != nil {
		return 0, errors.Wrapf(err, "write %s", dst)
	}

	c.log.With(zap.String("src", src), zap.String("dst", dst), zap.Int("size", len(bs))).Info("converted")
	return len(bs), nil
}

// Encode resizes img onto the canvas and packs it.
func (c *Converter) Encode(img image.Image) []byte {
	b := img.Bounds()
	if b.Dx() != c.format.Width || b.Dy() != c.format.Height {
		img = imaging.Resize(img, c.format.Width, c.format.Height, c.filter)
	}
	return bitmap.EncodeFormat(img, c.format)
}

// Load reads a raster or SVG picture from the filesystem or an http(s) URL.
func (c *Converter) Load(src string) (image.Image, error) {
	var data []byte
	var err error

	if isURL(src) {
		data, err = c.download(src)
	} else {
		data, err = afero.ReadFile(c.fs, src)
	}
	if err != nil {
		return nil, err
	}

	return c.Decode(data, isSVG(src))
}

// Decode parses picture bytes. Anything that is neither SVG nor a known
// raster format is ErrInvalidInput.
func (c *Converter) Decode(data []byte, svg bool) (image.Image, error) {
	if svg {
		return c.rasterize(data)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	return img, nil
}

// Preview renders a bitmap file back to PNG for inspection.
func (c *Converter) Preview(src, dst string) error {
	data, err := afero.ReadFile(c.fs, src)
	if err != nil {
		return err
	}

	m, err := bitmap.Decode(data, c.format)
	if err != nil {
		return err
	}

	f, err := c.fs.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return imaging.Encode(f, m, imaging.PNG)
}

// rasterize draws the SVG straight onto the canvas size on white.
func (c *Converter) rasterize(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	w, h := c.format.Width, c.format.Height
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

func (c *Converter) download(u string) ([]byte, error) {
	resp, err := c.cli.R().Get(u)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.RawBody().Close()
	}()

	if resp.IsError() {
		return nil, errors.Errorf("download %s: %s", u, resp.Status())
	}

	bar := progressbar.NewOptions64(
		resp.RawResponse.ContentLength,
		progressbar.OptionSetWriter(c.progress),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetDescription("Downloading "+path.Base(u)),
	)

	var buf bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(&buf, bar), resp.RawBody()); err != nil {
		return nil, err
	}

	c.log.With(zap.String("url", u), zap.Int("size", buf.Len())).Debug("downloaded")
	return buf.Bytes(), nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func isSVG(src string) bool {
	if i := strings.IndexAny(src, "?#"); i >= 0 && isURL(src) {
		src = src[:i]
	}
	return strings.EqualFold(path.Ext(src), ".svg")
}
