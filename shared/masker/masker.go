// Package masker redacts registered secret values from any output stream.
package masker

import (
	"io"
	"strings"
	"sync"
)

const redacted = "***"

var (
	mu      sync.RWMutex
	secrets []string
)

// Register adds a secret value to the global redaction list. Values shorter
// than two characters are ignored to avoid shredding ordinary output.
func Register(value string) {
	value = strings.TrimSpace(value)
	if len(value) < 2 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	for _, s := range secrets {
		if s == value {
			return
		}
	}
	secrets = append(secrets, value)
}

// Reset clears all registered secrets.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	secrets = nil
}

// Redact replaces every registered secret in s with a placeholder.
func Redact(s string) string {
	mu.RLock()
	defer mu.RUnlock()
	for _, secret := range secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}

// Writer wraps an io.Writer and redacts registered secrets before writing.
// Write reports the original length so callers see no short writes when
// redaction shrinks the payload. A secret may arrive split across writes
// (pipe chunking), so any trailing bytes that form the beginning of a
// registered secret are held back until the next Write or Flush decides
// their fate.
type Writer struct {
	w    io.Writer
	tail []byte
}

// NewWriter creates a redacting writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (mw *Writer) Write(p []byte) (int, error) {
	data := append(mw.tail, p...)
	hold := pendingSecretPrefix(data)
	emit := len(data) - hold

	if emit > 0 {
		if _, err := io.WriteString(mw.w, Redact(string(data[:emit]))); err != nil {
			return 0, err
		}
	}
	mw.tail = append(mw.tail[:0], data[emit:]...)
	return len(p), nil
}

// Flush writes any held-back bytes. Call once the stream has ended: bytes
// still held at that point cannot complete a secret.
func (mw *Writer) Flush() error {
	if len(mw.tail) == 0 {
		return nil
	}
	_, err := io.WriteString(mw.w, Redact(string(mw.tail)))
	mw.tail = mw.tail[:0]
	return err
}

// pendingSecretPrefix returns the length of the longest suffix of data
// that is an incomplete prefix of a registered secret.
func pendingSecretPrefix(data []byte) int {
	mu.RLock()
	defer mu.RUnlock()

	longest := 0
	for _, secret := range secrets {
		limit := len(secret) - 1
		if limit > len(data) {
			limit = len(data)
		}
		for k := limit; k > longest; k-- {
			if string(data[len(data)-k:]) == secret[:k] {
				longest = k
				break
			}
		}
	}
	return longest
}
