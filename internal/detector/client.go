package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"firewatch/internal/metrics"
)

// Client invokes the external detection process on uploaded media.
// The process is run with a plain argument vector, never a shell string,
// and is killed when the timeout elapses.
type Client struct {
	command string
	script  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a detector client. command is the executable, script an
// optional first argument (the detection script path, empty to omit).
func NewClient(command, script string, timeout time.Duration) *Client {
	return &Client{
		command: command,
		script:  script,
		timeout: timeout,
		logger:  slog.Default(),
	}
}

// Result is the decoded output of a detector run
type Result struct {
	Success    bool        `json:"success"`
	Detections []Detection `json:"detections"`
	ImagePath  string      `json:"image_path,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Detection is one object found by the detector
type Detection struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	ImagePath  string  `json:"image_path,omitempty"`
	ClipPath   string  `json:"clip_path,omitempty"`
}

// ProcessError is returned when the detector exits non-zero or emits
// output that cannot be decoded as JSON. Raw carries the process output
// so the caller can attach it to the API response.
type ProcessError struct {
	Raw      string
	ExitErr  error
	TimedOut bool
}

func (e *ProcessError) Error() string {
	if e.TimedOut {
		return "detector timed out"
	}
	if e.ExitErr != nil {
		return fmt.Sprintf("detector failed: %v", e.ExitErr)
	}
	return "detector returned invalid output"
}

// Detect runs the detection process on a stored upload and decodes its
// stdout as JSON. fileType is passed through to the process ("image" or
// "video").
func (c *Client) Detect(ctx context.Context, filePath, fileType string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := make([]string, 0, 3)
	if c.script != "" {
		args = append(args, c.script)
	}
	args = append(args, filePath, fileType)

	cmd := exec.CommandContext(ctx, c.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Info("Invoking detector", "command", c.command, "file", filePath, "type", fileType)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)
	metrics.DetectorDuration.Observe(duration.Seconds())

	if ctx.Err() == context.DeadlineExceeded {
		metrics.DetectorInvocationsTotal.WithLabelValues(metrics.DetectorResultTimeout).Inc()
		c.logger.Error("Detector timed out", "file", filePath, "timeout", c.timeout)
		return nil, &ProcessError{Raw: combinedOutput(&stdout, &stderr), TimedOut: true}
	}

	if err != nil {
		metrics.DetectorInvocationsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		c.logger.Error("Detector failed", "file", filePath, "error", err, "stderr", stderr.String())
		return nil, &ProcessError{Raw: combinedOutput(&stdout, &stderr), ExitErr: err}
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		metrics.DetectorInvocationsTotal.WithLabelValues(metrics.DetectorResultFailure).Inc()
		c.logger.Error("Detector output is not JSON", "file", filePath, "output_bytes", stdout.Len())
		return nil, &ProcessError{Raw: combinedOutput(&stdout, &stderr)}
	}

	metrics.DetectorInvocationsTotal.WithLabelValues(metrics.DetectorResultSuccess).Inc()
	c.logger.Info("Detector finished", "file", filePath,
		"success", result.Success, "detections", len(result.Detections), "duration_ms", duration.Milliseconds())

	return &result, nil
}

// combinedOutput joins stdout and stderr for diagnostics
func combinedOutput(stdout, stderr *bytes.Buffer) string {
	out := stdout.String()
	if stderr.Len() > 0 {
		if out != "" {
			out += "\n"
		}
		out += stderr.String()
	}
	return out
}

// AsProcessError unwraps a ProcessError from an error chain
func AsProcessError(err error) (*ProcessError, bool) {
	var pe *ProcessError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
