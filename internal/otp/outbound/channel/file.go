package channel

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/storage"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// File writes each code as a text object into the configured bucket.
type File struct {
	storage storage.Storage
	bucket  string
	clock   clock.Clocker
	ins     instrument.Instrumentation
}

func NewFile(st storage.Storage, bucket string, clk clock.Clocker, ins instrument.Instrumentation) *File {
	return &File{storage: st, bucket: bucket, clock: clk, ins: ins}
}

func (f *File) IsConfigured() bool {
	return f != nil && f.storage != nil && f.bucket != ""
}

func (f *File) SendCode(ctx context.Context, destination, code string) (err error) {
	ctx, span := startSpan(ctx, f.ins, "File.SendCode")
	defer func() { endSpan(span, err) }()

	now := f.clock.Now()
	key := fmt.Sprintf("otp_%s_%d.txt", sanitizeKey(destination), now.UnixMilli())
	body := fmt.Sprintf("OTP code for %s\nCode: %s\nGenerated: %s\n", destination, code, now.Format(time.RFC3339))

	info, err := f.storage.PutObject(ctx, f.bucket, key, strings.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "code written to storage", "bucket", info.Bucket, "key", info.Key)

	return nil
}

func sanitizeKey(s string) string {
	return unsafeKeyChars.ReplaceAllString(s, "_")
}
