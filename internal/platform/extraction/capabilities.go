package extraction

import (
	"os"
	"os/exec"
	"runtime"
)

// Capabilities records which optional external tools were found on the host.
// It is resolved once at startup and injected into the pipeline; an empty
// path means the corresponding strategies are skipped, never that the
// process fails.
type Capabilities struct {
	// TesseractPath is the resolved path of the Tesseract OCR binary.
	TesseractPath string
	// PdftoppmPath is the resolved path of poppler's pdftoppm binary,
	// used to rasterize PDF pages before OCR.
	PdftoppmPath string
}

// HasOCR reports whether an OCR engine is available.
func (c Capabilities) HasOCR() bool { return c.TesseractPath != "" }

// HasRasterizer reports whether PDF pages can be rasterized for OCR.
func (c Capabilities) HasRasterizer() bool { return c.PdftoppmPath != "" }

// tesseractCandidates lists well-known install locations checked when the
// binary is not on PATH.
func tesseractCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/opt/homebrew/bin/tesseract", // Apple Silicon Homebrew
			"/usr/local/bin/tesseract",    // Intel Homebrew
		}
	case "windows":
		return []string{
			`C:\Program Files\Tesseract-OCR\tesseract.exe`,
			`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
		}
	default:
		return []string{
			"/usr/bin/tesseract",
			"/usr/local/bin/tesseract",
		}
	}
}

func pdftoppmCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/opt/homebrew/bin/pdftoppm",
			"/usr/local/bin/pdftoppm",
		}
	case "windows":
		return []string{
			`C:\Program Files\poppler\bin\pdftoppm.exe`,
		}
	default:
		return []string{
			"/usr/bin/pdftoppm",
			"/usr/local/bin/pdftoppm",
		}
	}
}

// DetectCapabilities probes the host for the optional OCR and rasterization
// tools. An explicitly configured path wins; otherwise PATH is consulted,
// then the per-OS candidate list. Probing never fails: a tool that cannot
// be found simply leaves its path empty.
func DetectCapabilities(tesseractCmd, pdftoppmCmd string) Capabilities {
	return Capabilities{
		TesseractPath: resolveBinary(tesseractCmd, "tesseract", tesseractCandidates()),
		PdftoppmPath:  resolveBinary(pdftoppmCmd, "pdftoppm", pdftoppmCandidates()),
	}
}

func resolveBinary(configured, name string, candidates []string) string {
	if configured != "" {
		if isExecutable(configured) {
			return configured
		}
		return ""
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	for _, cand := range candidates {
		if isExecutable(cand) {
			return cand
		}
	}
	return ""
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
