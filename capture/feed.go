package capture

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"go-boom/debug"
)

// DefaultBlockSize is the number of frames pushed per simulated callback
const DefaultBlockSize = 512

// Feed pulls blocks from a beep streamer and hands each one to the recorder the
// way a stereo audio callback would. Buffers are allocated once up front.
func Feed(rec *Recorder, s beep.Streamer, blockSize int) (int, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	frames := make([][2]float64, blockSize)
	left := make([]float32, blockSize)
	right := make([]float32, blockSize)
	block := make([][]float32, 2)

	total := 0
	for {
		n, ok := s.Stream(frames)
		for i := 0; i < n; i++ {
			left[i] = float32(frames[i][0])
			right[i] = float32(frames[i][1])
		}
		if n > 0 {
			block[0], block[1] = left[:n], right[:n]
			rec.Process(block)
			total += n
			debug.LogEvery(100, "capture", "fed %d frames", total)
		}
		if !ok || n == 0 {
			break
		}
	}
	return total, s.Err()
}

// CaptureWAV records a WAV stream as if it were loopback input: the ring is
// prepared for the file's sample rate, started, fed and stopped.
func CaptureWAV(rec *Recorder, r io.Reader, blockSize int) error {
	s, format, err := wav.Decode(r)
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	rec.Prepare(int(format.SampleRate))
	rec.Start(Loopback)
	n, err := Feed(rec, s, blockSize)
	rec.Stop()
	if err != nil {
		return fmt.Errorf("stream wav: %w", err)
	}
	debug.Log("capture", "wav %d Hz, %d frames", format.SampleRate, n)
	return nil
}
