// Package snapshot captures a preview image of the rendered public page
// with headless Chrome. The image backs the og:image preview when the owner
// has not uploaded one.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"micropage/api/internal/media"
)

// ErrChromeMissing is returned when no chromium binary is installed.
var ErrChromeMissing = fmt.Errorf("snapshot: chromium not installed")

// Service renders and stores page snapshots. baseURL is where the public
// pages are served, e.g. http://localhost:8788.
type Service struct {
	media   *media.Service
	baseURL string
}

func New(mediaService *media.Service, baseURL string) *Service {
	return &Service{media: mediaService, baseURL: baseURL}
}

// Capture screenshots the public page for one microsite.
func Capture(pageURL string) ([]byte, error) {
	if _, err := exec.LookPath("chromium-browser"); err != nil {
		if _, fallbackErr := exec.LookPath("chromium"); fallbackErr != nil {
			return nil, ErrChromeMissing
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var png []byte
	err := chromedp.Run(taskCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			// og:image dimensions
			return emulation.SetDeviceMetricsOverride(1200, 630, 1, false).Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.CaptureScreenshot(&png),
	)
	if err != nil {
		return nil, fmt.Errorf("capture page snapshot: %w", err)
	}
	return png, nil
}

// CaptureAndStore screenshots a microsite's page and uploads the result,
// returning the stored image URL.
func (s *Service) CaptureAndStore(ctx context.Context, micrositeID string) (string, error) {
	png, err := Capture(s.baseURL + "/sites/" + micrositeID)
	if err != nil {
		return "", err
	}
	url, err := s.media.Upload(ctx, media.KindSnapshot, micrositeID+".png", "image/png", bytes.NewReader(png), int64(len(png)))
	if err != nil {
		return "", fmt.Errorf("store page snapshot: %w", err)
	}
	return url, nil
}
