package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/devshot/pkg/ports"
)

// Cropper is a mock implementation of ports.Cropper. By default it returns
// Frames copies of the input image.
type Cropper struct {
	CropFunc func(ctx context.Context, image string, device ports.DeviceProfile, offset ports.Offset) ([]string, error)
	Frames   int
	Log      *CallLog
}

func (m *Cropper) Crop(ctx context.Context, image string, device ports.DeviceProfile, offset ports.Offset) ([]string, error) {
	m.Log.add(Call{Method: "Crop", DeviceID: device.ID})
	if m.CropFunc != nil {
		return m.CropFunc(ctx, image, device, offset)
	}
	n := m.Frames
	if n <= 0 {
		n = 1
	}
	frames := make([]string, n)
	for i := range frames {
		frames[i] = image
	}
	return frames, nil
}

var _ ports.Cropper = (*Cropper)(nil)

// Downloader is a mock implementation of ports.Downloader that records requests.
type Downloader struct {
	DownloadImagesFunc func(ctx context.Context, images []string, device ports.DeviceProfile) ([]string, error)
	DownloadFunc       func(ctx context.Context, req ports.DownloadRequest) (string, error)
	Log                *CallLog

	mu       sync.Mutex
	Images   map[string][]string
	Requests []ports.DownloadRequest
}

// NewDownloader creates a recording mock downloader.
func NewDownloader(log *CallLog) *Downloader {
	return &Downloader{Log: log, Images: make(map[string][]string)}
}

func (m *Downloader) DownloadImages(ctx context.Context, images []string, device ports.DeviceProfile) ([]string, error) {
	m.Log.add(Call{Method: "DownloadImages", DeviceID: device.ID})
	if m.DownloadImagesFunc != nil {
		return m.DownloadImagesFunc(ctx, images, device)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images[device.ID] = images
	paths := make([]string, len(images))
	for i := range images {
		paths[i] = fmt.Sprintf("%s-%03d.png", device.ID, i+1)
	}
	return paths, nil
}

func (m *Downloader) Download(ctx context.Context, req ports.DownloadRequest) (string, error) {
	m.Log.add(Call{Method: "Download"})
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	return req.Filename, nil
}

var _ ports.Downloader = (*Downloader)(nil)
