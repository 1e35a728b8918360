//go:build !windows

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fzgrep/fzgrep/internal/logging"
)

// watchDumpSignal writes the in-memory log tail to dir on SIGUSR1.
func watchDumpSignal(dir string) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	go func() {
		for range ch {
			path := filepath.Join(dir, fmt.Sprintf("crash-dump-%d.jsonl", time.Now().Unix()))
			if err := logging.DumpRingBuffer(path); err != nil {
				logging.ForComponent(logging.CompCLI).Error("crash_dump_failed", slog.String("error", err.Error()))
				continue
			}
			logging.ForComponent(logging.CompCLI).Info("crash_dump_written", slog.String("path", path))
		}
	}()
}
