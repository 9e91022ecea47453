package render

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/matzehuels/tagsheet/pkg/errors"
)

const sampleSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"none", nil, false},
		{"svg", []string{"svg"}, false},
		{"all", []string{"svg", "pdf", "png"}, false},
		{"unknown", []string{"svg", "jpeg"}, true},
		{"case sensitive", []string{"PDF"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestConvertSVGPassthrough(t *testing.T) {
	out, err := RSVG{Binary: "does-not-exist"}.Convert(context.Background(), []byte(sampleSVG), FormatSVG, 0)
	if err != nil {
		t.Fatalf("Convert(svg) error: %v", err)
	}
	if string(out) != sampleSVG {
		t.Error("svg conversion should return the input unchanged")
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	_, err := RSVG{}.Convert(context.Background(), []byte(sampleSVG), "gif", 0)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Convert(gif) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

func TestConvertMissingBinary(t *testing.T) {
	_, err := RSVG{Binary: "tagsheet-no-such-rsvg"}.Convert(context.Background(), []byte(sampleSVG), FormatPDF, 0)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Convert() error = %v, want %v", err, errors.ErrCodeUnsupported)
	}
}

func TestToPDF(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}

	out, err := ToPDF(context.Background(), []byte(sampleSVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("ToPDF() output does not look like a PDF: %q", out[:min(len(out), 8)])
	}
}

func TestToPNG(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}

	out, err := ToPNG(context.Background(), []byte(sampleSVG), 1)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output does not look like a PNG")
	}
}
