package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/golang/glog"
)

// DefaultConsoleSize is the number of messages a console keeps
const DefaultConsoleSize = 200

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// Console implements core.Logger by logging through glog and keeping the
// most recent messages for the preview page
type Console struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	size     int
}

var _ core.Logger = (*Console)(nil)

// NewConsole creates a console that keeps the last size messages
func NewConsole(size int) *Console {
	if size <= 0 {
		size = DefaultConsoleSize
	}
	return &Console{size: size}
}

// Printf implements core.Logger
func (c *Console) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	glog.Info(strings.TrimRight(message, "\n"))

	level := "info"
	if strings.HasPrefix(message, "Warning") {
		level = "warning"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == c.size {
		copy(c.messages, c.messages[1:])
		c.messages = c.messages[:c.size-1]
	}
	c.messages = append(c.messages, ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	})
}

// Messages returns a copy of the retained messages, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConsoleMessage(nil), c.messages...)
}
