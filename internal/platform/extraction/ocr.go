package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

// OCREngine runs the Tesseract binary. Invocation parameters are fixed:
// uniform-block page segmentation (psm 6), combined legacy+neural engine
// (oem 2), and the built-in dictionaries disabled — lab reports are full of
// unit abbreviations and drug names the dictionary would "correct".
//
// A process-wide weighted semaphore bounds concurrent invocations because a
// single OCR run can pin a CPU core for seconds per page.
type OCREngine struct {
	binary  string
	lang    string
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewOCREngine creates an engine for the given binary path. maxConcurrent
// bounds simultaneous Tesseract processes; timeout applies per invocation.
func NewOCREngine(binary, lang string, timeout time.Duration, maxConcurrent int64) *OCREngine {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &OCREngine{
		binary:  binary,
		lang:    lang,
		timeout: timeout,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}
}

func (e *OCREngine) args(input string) []string {
	return []string{
		input, "stdout",
		"-l", e.lang,
		"--psm", "6",
		"--oem", "2",
		"-c", "load_system_dawg=0",
		"-c", "load_freq_dawg=0",
	}
}

// ImageFileToText runs OCR over an image file on disk.
func (e *OCREngine) ImageFileToText(ctx context.Context, path string) (string, error) {
	return e.run(ctx, e.args(path), nil)
}

// ImageBytesToText runs OCR over raw image bytes, piped via stdin. Tesseract
// rejects byte streams it cannot decode as an image, which is exactly the
// behavior the last-resort strategy relies on.
func (e *OCREngine) ImageBytesToText(ctx context.Context, data []byte) (string, error) {
	return e.run(ctx, e.args("stdin"), bytes.NewReader(data))
}

func (e *OCREngine) run(ctx context.Context, args []string, stdin io.Reader) (string, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("ocr: waiting for slot: %w", err)
	}
	defer e.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = stdin

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("ocr: %w", ctx.Err())
		}
		detail := strings.TrimSpace(errBuf.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", fmt.Errorf("ocr: tesseract failed: %s", detail)
	}
	return out.String(), nil
}
