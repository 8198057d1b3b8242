package detector

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := t.TempDir() + "/detect.sh"
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	return path
}

func TestDetect(t *testing.T) {
	script := writeScript(t,
		`echo '{"success": true, "detections": [{"type": "fire", "confidence": 0.92, "image_path": "detected_images/r.jpg"}], "image_path": "detected_images/r.jpg"}'`)
	client := NewClient("/bin/sh", script, 5*time.Second)

	result, err := client.Detect(context.Background(), "/tmp/frame.jpg", "image")
	if err != nil {
		t.Fatalf("Failed to run detector: %v", err)
	}
	if !result.Success {
		t.Error("Expected success true")
	}
	if len(result.Detections) != 1 {
		t.Fatalf("Expected 1 detection, got %d", len(result.Detections))
	}
	if result.Detections[0].Type != "fire" {
		t.Errorf("Expected detection type fire, got %s", result.Detections[0].Type)
	}
	if result.Detections[0].Confidence != 0.92 {
		t.Errorf("Expected confidence 0.92, got %f", result.Detections[0].Confidence)
	}
	if result.ImagePath != "detected_images/r.jpg" {
		t.Errorf("Expected image path, got %s", result.ImagePath)
	}
}

func TestDetectPassesArguments(t *testing.T) {
	// The script echoes its arguments back as the image path
	script := writeScript(t, `echo "{\"success\": true, \"image_path\": \"$1|$2\"}"`)
	client := NewClient("/bin/sh", script, 5*time.Second)

	result, err := client.Detect(context.Background(), "/tmp/clip.mp4", "video")
	if err != nil {
		t.Fatalf("Failed to run detector: %v", err)
	}
	if result.ImagePath != "/tmp/clip.mp4|video" {
		t.Errorf("Expected arguments '/tmp/clip.mp4|video', got %s", result.ImagePath)
	}
}

func TestDetectWithoutScriptArgument(t *testing.T) {
	// An empty script means the command itself is the detector
	script := writeScript(t, `echo '{"success": true}'`)
	client := NewClient(script, "", 5*time.Second)

	result, err := client.Detect(context.Background(), "/tmp/frame.jpg", "image")
	if err != nil {
		t.Fatalf("Failed to run detector: %v", err)
	}
	if !result.Success {
		t.Error("Expected success true")
	}
}

func TestDetectProcessFailure(t *testing.T) {
	script := writeScript(t, `echo "model crashed" >&2; exit 3`)
	client := NewClient("/bin/sh", script, 5*time.Second)

	_, err := client.Detect(context.Background(), "/tmp/frame.jpg", "image")
	if err == nil {
		t.Fatal("Expected error for non-zero exit")
	}

	pe, ok := AsProcessError(err)
	if !ok {
		t.Fatalf("Expected ProcessError, got %T", err)
	}
	if pe.TimedOut {
		t.Error("Expected TimedOut false")
	}
	if pe.ExitErr == nil {
		t.Error("Expected exit error to be set")
	}
	if !strings.Contains(pe.Raw, "model crashed") {
		t.Errorf("Expected stderr in Raw, got %q", pe.Raw)
	}
}

func TestDetectInvalidOutput(t *testing.T) {
	script := writeScript(t, `echo "Loading model weights..."`)
	client := NewClient("/bin/sh", script, 5*time.Second)

	_, err := client.Detect(context.Background(), "/tmp/frame.jpg", "image")
	if err == nil {
		t.Fatal("Expected error for non-JSON output")
	}

	pe, ok := AsProcessError(err)
	if !ok {
		t.Fatalf("Expected ProcessError, got %T", err)
	}
	if !strings.Contains(pe.Raw, "Loading model weights") {
		t.Errorf("Expected stdout in Raw, got %q", pe.Raw)
	}
}

func TestDetectTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	client := NewClient("/bin/sh", script, 100*time.Millisecond)

	start := time.Now()
	_, err := client.Detect(context.Background(), "/tmp/frame.jpg", "image")
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Expected detector to be killed promptly")
	}

	pe, ok := AsProcessError(err)
	if !ok {
		t.Fatalf("Expected ProcessError, got %T", err)
	}
	if !pe.TimedOut {
		t.Error("Expected TimedOut true")
	}
}
