package log_service

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LocalDiscLogService appends events to a plain log file; used when the
// service runs headless on a machine without log collection.
type LocalDiscLogService struct {
	logDir string
	source string
	mu     sync.Mutex
	logger *log.Logger
}

func NewLocalDiscLogService(logDir string, source string) (*LocalDiscLogService, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, fmt.Sprintf("%s.log", source))
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &LocalDiscLogService{
		logDir: logDir,
		source: source,
		logger: log.New(file, "", 0),
	}, nil
}

func (ls *LocalDiscLogService) write(level string, event LogEvent) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	source := event.Source
	if source == "" {
		source = ls.source
	}
	line := fmt.Sprintf("%s [%s] %s: %s", ts.Format(time.RFC3339), level, source, event.Message)
	for k, v := range event.Metadata {
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	ls.logger.Println(line)
}

func (ls *LocalDiscLogService) Debug(event LogEvent) { ls.write(DebugLevel, event) }
func (ls *LocalDiscLogService) Info(event LogEvent)  { ls.write(InfoLevel, event) }
func (ls *LocalDiscLogService) Warn(event LogEvent)  { ls.write(WarnLevel, event) }
func (ls *LocalDiscLogService) Error(event LogEvent) { ls.write(ErrorLevel, event) }
