package mcp

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Messages are newline-delimited JSON; a single framed request may be
// large when bulk block payloads are echoed back.
const maxFrameSize = 10 * 1024 * 1024

// ServeStdio answers requests read line by line from r, writing one
// response line per request to w. It returns when r is exhausted or
// ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxFrameSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.Handle(ctx, line)
		if resp == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n", resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}
