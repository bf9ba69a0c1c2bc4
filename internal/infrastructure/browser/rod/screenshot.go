package rod

import (
	"bytes"
	"context"
	"fmt"

	"browser-keywords/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const maxScreenshotWidth = 1024

func (d *Driver) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if err := d.blocked(); err != nil {
		return nil, err
	}
	raw, err := d.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shrink(raw)
}

// shrink downscales wide captures and re-encodes them as JPEG.
func shrink(raw []byte) (*entity.Screenshot, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(75)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
