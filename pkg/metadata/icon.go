// LBGDB Metadata
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LBGDB Metadata.
//
// LBGDB Metadata is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LBGDB Metadata is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LBGDB Metadata.  If not, see <http://www.gnu.org/licenses/>.

package metadata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"

	"github.com/ZaparooProject/lbgdb-metadata/pkg/shared/httpclient"
	_ "golang.org/x/image/bmp" // register decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

const (
	// MaxAssetBytes caps a single downloaded image.
	MaxAssetBytes = 16 << 20
	// MaxSourceSide and MaxSourcePixels bound the decoded size of an icon
	// source, checked from its header before any pixels are decoded.
	MaxSourceSide   = 8192
	MaxSourcePixels = 8192 * 4096
)

var (
	ErrInvalidIconSize = errors.New("icon size must be positive")
	ErrSourceTooLarge  = errors.New("icon source image too large")
)

// AssetFetcher retrieves the bytes of a remote image.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches assets through the shared HTTP client, which applies
// any configured rate limit.
type HTTPFetcher struct {
	client   *httpclient.Client
	maxBytes int64
}

func NewHTTPFetcher(client *httpclient.Client) *HTTPFetcher {
	if client == nil {
		client = httpclient.NewClient()
	}
	return &HTTPFetcher{client: client, maxBytes: MaxAssetBytes}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := f.client.GetBytes(ctx, url, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	return data, nil
}

// PadResizePNG scales the image to fit a size x size square keeping its
// aspect ratio, centres it on a transparent canvas and encodes it as PNG.
func PadResizePNG(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidIconSize
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide ||
		int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrSourceTooLarge, cfg.Width, cfg.Height)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("failed to decode image: empty %s image", format)
	}

	fitW, fitH := size, size
	if w >= h {
		fitH = max(1, h*size/w)
	} else {
		fitW = max(1, w*size/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	offset := image.Pt((size-fitW)/2, (size-fitH)/2)
	target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(fitW, fitH))}
	xdraw.CatmullRom.Scale(dst, target, src, bounds, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
