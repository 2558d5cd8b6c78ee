// Package filedownloader saves captured images and recordings under an
// output directory.
package filedownloader

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/user/devshot/pkg/blobstore"
	"github.com/user/devshot/pkg/datauri"
	"github.com/user/devshot/pkg/ports"
)

// Downloader implements ports.Downloader on a ports.FileSystem. Image data
// URIs are re-encoded only when their format differs from the configured one.
type Downloader struct {
	outDir   string
	fs       ports.FileSystem
	blobs    *blobstore.Store
	renderer ports.Renderer
	format   ports.ImageFormat
	quality  int
	logger   ports.Logger
}

// New creates a Downloader writing into outDir.
func New(
	outDir string,
	fs ports.FileSystem,
	blobs *blobstore.Store,
	renderer ports.Renderer,
	format ports.ImageFormat,
	quality int,
	logger ports.Logger,
) *Downloader {
	if format == ports.FormatAuto {
		format = ports.FormatPNG
	}
	return &Downloader{
		outDir:   outDir,
		fs:       fs,
		blobs:    blobs,
		renderer: renderer,
		format:   format,
		quality:  quality,
		logger:   logger.WithComponent("download"),
	}
}

// ImageNames returns the file names for n images of deviceID:
// "<id><ext>" for one image, "<id>-001<ext>"... for a sequence.
func ImageNames(deviceID string, n int, format ports.ImageFormat) []string {
	ext := format.Extension()
	if n == 1 {
		return []string{deviceID + ext}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s-%03d%s", deviceID, i+1, ext)
	}
	return names
}

// DownloadImages decodes each data URI and writes it under the output directory.
func (d *Downloader) DownloadImages(ctx context.Context, images []string, device ports.DeviceProfile) ([]string, error) {
	if !isBaseName(device.ID) {
		return nil, fmt.Errorf("invalid device id %q", device.ID)
	}
	names := ImageNames(device.ID, len(images), d.format)
	paths := make([]string, 0, len(images))

	for i, uri := range images {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		data, err := d.imageBytes(uri)
		if err != nil {
			return paths, fmt.Errorf("image %d: %w", i+1, err)
		}
		path := filepath.Join(d.outDir, names[i])
		if err := d.fs.WriteFile(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		d.logger.Debug("Saved %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (d *Downloader) imageBytes(uri string) ([]byte, error) {
	mime, data, err := datauri.Decode(uri)
	if err != nil {
		return nil, err
	}
	if mime == d.format.MIMEType() {
		return data, nil
	}
	img, err := d.renderer.DecodeImage(data, ports.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return d.renderer.EncodeImage(img, d.format, d.quality)
}

// Download writes the object behind req.URL, which may be a blob URL or a
// data URI, as req.Filename.
func (d *Downloader) Download(ctx context.Context, req ports.DownloadRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !isBaseName(req.Filename) {
		return "", fmt.Errorf("invalid filename %q", req.Filename)
	}

	var data []byte
	switch {
	case blobstore.IsObjectURL(req.URL):
		obj, err := d.blobs.Open(req.URL)
		if err != nil {
			return "", err
		}
		data = obj.Data
	case datauri.IsDataURI(req.URL):
		_, decoded, err := datauri.Decode(req.URL)
		if err != nil {
			return "", err
		}
		data = decoded
	default:
		return "", fmt.Errorf("unsupported download URL %q", req.URL)
	}

	path := filepath.Join(d.outDir, req.Filename)
	if err := d.fs.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	d.logger.Debug("Saved %s (%d bytes)", path, len(data))
	return path, nil
}

// isBaseName reports whether name stays inside the output directory when
// joined to it.
func isBaseName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name
}

var _ ports.Downloader = (*Downloader)(nil)
