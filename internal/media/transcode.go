// internal/media/transcode.go
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Transcoder converts audio into the ogg/opus form voice notes require.
type Transcoder interface {
	ToOggOpus(ctx context.Context, audio []byte) ([]byte, error)
}

// FFmpeg shells out to the ffmpeg binary. Input format is sniffed by ffmpeg
// itself, output is ogg/opus mono at voice-note bitrate.
type FFmpeg struct {
	// Bin overrides the binary path; empty means "ffmpeg" on PATH.
	Bin string
}

func (f *FFmpeg) ToOggOpus(ctx context.Context, audio []byte) ([]byte, error) {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	var out, errBuf bytes.Buffer
	cmd := exec.CommandContext(ctx, bin,
		"-i", "pipe:0",
		"-c:a", "libopus",
		"-b:a", "32k",
		"-ac", "1",
		"-f", "ogg",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

// Passthrough returns the audio unchanged, for inputs already in the right
// format and for tests.
type Passthrough struct{}

func (Passthrough) ToOggOpus(_ context.Context, audio []byte) ([]byte, error) {
	return audio, nil
}
