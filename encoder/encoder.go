// Package encoder records rendered frames to a video file by piping raw RGBA
// into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one RGBA image, rows top first, tightly packed.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Config struct {
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264" or "hevc"
	OutputFile string
	FFMPEGPath string
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", c.FPS)
	}
	if c.OutputFile == "" {
		return errors.New("no output file")
	}
	return nil
}

// Args returns ffmpeg's input and output arguments for raw RGBA on stdin.
func Args(c Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", c.Width, c.Height),
		"framerate": c.FPS,
	}
	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
		"r":       c.FPS,
	}
	if c.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		outputArgs["tag:v"] = "hvc1"
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return inputArgs, outputArgs
}

// Command builds the ffmpeg invocation reading frames from r.
func Command(c Config, r io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := Args(c)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(c.OutputFile, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()
	if c.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(c.FFMPEGPath)
	}
	return cmd
}

// Recorder feeds frames to ffmpeg from its own goroutine.
type Recorder struct {
	config    Config
	frameSize int
	frames    chan *Frame
	done      chan error
	closed    bool
}

const queueDepth = 3

func Start(c Config) (*Recorder, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	r := &Recorder{
		config:    c,
		frameSize: c.Width * c.Height * 4,
		frames:    make(chan *Frame, queueDepth),
		done:      make(chan error, 1),
	}
	go r.run()
	log.Printf("Recording %dx%d at %d fps to %s", c.Width, c.Height, c.FPS, c.OutputFile)
	return r, nil
}

func (r *Recorder) run() {
	pipeReader, pipeWriter := io.Pipe()
	cmd := Command(r.config, pipeReader)

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		// unblock the writer if ffmpeg exits early
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		errc <- err
	}()

	var writeErr error
	for frame := range r.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			log.Printf("Error writing frame %d to ffmpeg: %v", frame.PTS, err)
			writeErr = err
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		r.done <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	r.done <- writeErr
}

// WriteFrame queues one frame. It blocks while the queue is full.
func (r *Recorder) WriteFrame(pixels []byte, pts int64) error {
	if r.closed {
		return errors.New("recorder is closed")
	}
	if len(pixels) != r.frameSize {
		return fmt.Errorf("frame %d has %d bytes, expected %d", pts, len(pixels), r.frameSize)
	}
	r.frames <- &Frame{Pixels: pixels, PTS: pts}
	return nil
}

// Close flushes the queue and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.frames)
	err := <-r.done
	if err == nil {
		log.Printf("Recording finished: %s", r.config.OutputFile)
	}
	return err
}
