package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
)

const (
	prompt      = "expr> "
	historyFile = ".voxelforge_history"
)

// HistoryPath returns the history file in the user's home directory, or ""
// when there is no home directory.
func HistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

// Run reads lines from the terminal until EOF, :quit or ctx is done. A
// non-empty history path is read before the first prompt and rewritten on
// exit.
func Run(ctx context.Context, s *Session, out io.Writer, history string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("REPL started.", "history", history)
	defer logger.Debug("REPL finished.")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(history)
			if err != nil {
				logger.Warn("Failed to save history.", "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	for ctx.Err() == nil {
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(out)
			return nil
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		result, err := s.Eval(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if line != "" {
			ln.AppendHistory(line)
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
	return ctx.Err()
}
