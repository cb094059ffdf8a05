// Package activity appends one CSV row per codec run, in the column
// layout consumed by the reporting tooling.
package activity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Columns is the CSV header. Unmeasured fields are written as zero so
// every row has the full column set.
var Columns = []string{
	"timestamp",
	"context",
	"source",
	"width",
	"height",
	"blockSize",
	"discardBits",
	"smooth",
	"psnr",
	"ssim",
	"rawSize",
	"compressedSize",
	"nodalSize",
	"qoiSize",
	"jpegSize",
	"pngSize",
	"webpSize",
	"customEncodeMs",
	"customDecodeMs",
	"jpegEncodeMs",
	"jpegDecodeMs",
	"pngEncodeMs",
	"pngDecodeMs",
	"webpEncodeMs",
	"webpDecodeMs",
}

// Record is one encode or decode run.
type Record struct {
	Source      string
	Width       int
	Height      int
	BlockSize   int
	DiscardBits int
	Smooth      bool

	PSNR float64
	SSIM float64

	RawSize        int
	CompressedSize int
	NodalSize      int
	QOISize        int

	EncodeMs float64
	DecodeMs float64
}

// Logger serializes records to a CSV sink. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	w       *csv.Writer
	closer  io.Closer
	context string
	started bool
}

// NewLogger writes CSV rows to w. The context column carries one
// random id for the lifetime of the logger so runs group per session.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{w: csv.NewWriter(w), context: uuid.NewString()}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l
}

// NewFileLogger appends to a size-rotated CSV file.
func NewFileLogger(path string) *Logger {
	l := NewLogger(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 5,
	})
	// A non-empty existing file already starts with the header.
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		l.started = true
	}
	return l
}

// Log appends one row, writing the header first on a fresh sink.
func (l *Logger) Log(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		if err := l.w.Write(Columns); err != nil {
			return fmt.Errorf("activity: write header: %w", err)
		}
		l.started = true
	}

	row := []string{
		time.Now().UTC().Format(time.RFC3339),
		l.context,
		r.Source,
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
		strconv.Itoa(r.BlockSize),
		strconv.Itoa(r.DiscardBits),
		strconv.FormatBool(r.Smooth),
		formatFloat(r.PSNR),
		formatFloat(r.SSIM),
		strconv.Itoa(r.RawSize),
		strconv.Itoa(r.CompressedSize),
		strconv.Itoa(r.NodalSize),
		strconv.Itoa(r.QOISize),
		"0", "0", "0", // jpegSize, pngSize, webpSize
		formatFloat(r.EncodeMs),
		formatFloat(r.DecodeMs),
		"0", "0", "0", "0", "0", "0",
	}
	if err := l.w.Write(row); err != nil {
		return fmt.Errorf("activity: write row: %w", err)
	}
	l.w.Flush()
	return l.w.Error()
}

// Close flushes and closes the underlying sink if it is closable.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Flush()
	if l.closer != nil {
		return l.closer.Close()
	}
	return l.w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
