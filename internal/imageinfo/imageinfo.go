// Package imageinfo reads the pixel dimensions of logo files without
// decoding full images.
package imageinfo

import (
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strconv"
	"strings"

	_ "golang.org/x/image/webp"
)

// decodeLimit bounds how much of a file is read to find its header.
const decodeLimit = 256 * 1024

// ErrUnsupported is returned for formats whose dimensions cannot be read.
var ErrUnsupported = errors.New("unsupported image format")

// Info describes one image.
type Info struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Inspect reads the dimensions of the image in r. name is used only for its
// extension, which selects the SVG and ICO readers; raster formats are
// detected from their magic bytes.
func Inspect(r io.Reader, name string) (Info, error) {
	r = io.LimitReader(r, decodeLimit)
	switch strings.ToLower(path.Ext(name)) {
	case ".svg":
		return inspectSVG(r)
	case ".ico":
		return inspectICO(r)
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, fmt.Errorf("%s: %w", name, ErrUnsupported)
		}
		return Info{}, fmt.Errorf("decoding %s: %w", name, err)
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// inspectSVG reads width and height from the root element, falling back to
// the viewBox. Unit suffixes such as "px" are dropped.
func inspectSVG(r io.Reader) (Info, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Info{}, fmt.Errorf("reading svg: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			return Info{}, fmt.Errorf("root element %q: %w", start.Name.Local, ErrUnsupported)
		}

		info := Info{Format: "svg"}
		var viewBox string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				info.Width = svgLength(attr.Value)
			case "height":
				info.Height = svgLength(attr.Value)
			case "viewBox":
				viewBox = attr.Value
			}
		}
		if (info.Width == 0 || info.Height == 0) && viewBox != "" {
			fields := strings.FieldsFunc(viewBox, func(r rune) bool { return r == ' ' || r == ',' })
			if len(fields) == 4 {
				if info.Width == 0 {
					info.Width = svgLength(fields[2])
				}
				if info.Height == 0 {
					info.Height = svgLength(fields[3])
				}
			}
		}
		return info, nil
	}
}

func svgLength(v string) int {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f + 0.5)
}

// inspectICO reports the largest image in an ICO directory. A stored
// dimension of 0 means 256.
func inspectICO(r io.Reader) (Info, error) {
	var header struct {
		Reserved uint16
		Type     uint16
		Count    uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return Info{}, fmt.Errorf("reading ico header: %w", err)
	}
	if header.Reserved != 0 || header.Type != 1 || header.Count == 0 {
		return Info{}, fmt.Errorf("ico header: %w", ErrUnsupported)
	}

	info := Info{Format: "ico"}
	for i := 0; i < int(header.Count); i++ {
		var entry struct {
			Width, Height  uint8
			Colors, Unused uint8
			Planes, BPP    uint16
			Size, Offset   uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return Info{}, fmt.Errorf("reading ico entry %d: %w", i, err)
		}
		w, h := int(entry.Width), int(entry.Height)
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		if w*h > info.Width*info.Height {
			info.Width, info.Height = w, h
		}
	}
	return info, nil
}
