package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// visionPrompt asks the model to analyse and explain the picture.
const visionPrompt = "این تصویر را تحلیل کن و توضیح بده"

// illustrate generates an image for the user's prompt, gated by the daily
// quota. A denied check never reaches the provider, and the quota is charged
// only after the provider succeeded.
func (r *Relay) illustrate(ctx context.Context, userID int64, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	today := r.today()

	decision, err := r.checkAndReserve(ctx, userID, resourceImage, r.config.DailyImageLimit, today)
	if err != nil {
		return "", err
	}
	if !decision.allowed {
		return "", ErrQuotaExceeded
	}

	callCtx, cancel := r.providerContext(ctx)
	defer cancel()

	imageURL, err := r.provider.GenerateImage(callCtx, prompt)
	if err != nil {
		return "", generationErr("generate image", err)
	}

	if err := r.commitUsage(ctx, userID, resourceImage, today); err != nil {
		return "", err
	}

	r.logger.Info("image generated",
		zap.Int64("UserID", userID),
		zap.Int("RemainingToday", decision.remainingAfter),
	)

	return imageURL, nil
}

// describePhoto downloads the Telegram file, hands it to the vision model and
// removes the local copy on every exit path. No memory or quota involved.
func (r *Relay) describePhoto(ctx context.Context, fileURL string) (string, error) {
	path, err := downloadToTemp(ctx, fileURL)
	if err != nil {
		return "", generationErr("fetch photo", err)
	}
	defer os.Remove(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", generationErr("read photo", err)
	}
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)

	callCtx, cancel := r.providerContext(ctx)
	defer cancel()

	description, err := r.provider.DescribeImage(callCtx, visionPrompt, dataURL)
	if err != nil {
		return "", generationErr("describe image", err)
	}

	return description, nil
}

// downloadToTemp fetches the URL into a temporary file and returns its path.
// The file is removed again if the download itself fails partway.
func downloadToTemp(ctx context.Context, fileURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "relay-photo-*.jpg")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}
