package utils

import (
	"encoding/json"
	"net/http"

	"github.com/taipeifirst/tellerdesk/backend/pkg/utils/logging"
)

// SetupSSEHeaders prepares a response for Server-Sent Events streaming.
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
}

// SplitRunes cuts text into fragments of at most size runes, never
// splitting a multi-byte character. A non-positive size returns the text
// whole.
func SplitRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 || size >= len(runes) {
		return []string{text}
	}

	fragments := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		fragments = append(fragments, string(runes[start:end]))
	}
	return fragments
}

// SendSSEChunk writes one `data:` frame and flushes it immediately.
func SendSSEChunk(w http.ResponseWriter, flusher http.Flusher, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Default().Error("failed to marshal sse payload", "error", err)
		return
	}

	if _, err := w.Write([]byte("data: ")); err != nil {
		logging.Default().Error("failed to write sse prefix", "error", err)
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.Default().Error("failed to write sse payload", "error", err)
		return
	}
	if _, err := w.Write([]byte("\n\n")); err != nil {
		logging.Default().Error("failed to write sse terminator", "error", err)
		return
	}
	flusher.Flush()
}
