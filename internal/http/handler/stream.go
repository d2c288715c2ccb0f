package handler

import (
	"bufio"
	"context"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Streaming content types.
const (
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeNDJSON = "application/x-ndjson"
	contentTypeSSE    = "text/event-stream"
)

// stream runs fn in the background and forwards every value it sends to the
// client through write. The response is committed only once the first value
// arrives, so an error returned before that is answered with the usual error
// envelope instead of a broken stream.
func stream[T any](c *fiber.Ctx, contentType string, write func(w *bufio.Writer, v T) error, fn func(ctx context.Context, send func(T) error) error) error {
	ctx, cancel := context.WithCancel(c.UserContext())
	values := make(chan T, 16)
	done := make(chan error, 1)

	go func() {
		err := fn(ctx, func(v T) error {
			select {
			case values <- v:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		close(values)
		done <- err
	}()

	first, ok := <-values
	if !ok {
		err := <-done
		cancel()
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, contentType)
		return c.SendStatus(fiber.StatusOK)
	}

	rid := requestIDFromCtx(c)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set("X-Accel-Buffering", "no")
	c.Status(fiber.StatusOK).Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		emit := func(v T) bool {
			if err := write(w, v); err != nil {
				return false
			}
			return w.Flush() == nil
		}
		if !emit(first) {
			return
		}
		for v := range values {
			if !emit(v) {
				log.Warn().Str("request_id", rid).Msg("stream client went away")
				return
			}
		}
		if err := <-done; err != nil {
			log.Warn().Err(err).Str("request_id", rid).Msg("stream ended with error")
		}
	})
	return nil
}

func writeText(w *bufio.Writer, s string) error {
	_, err := w.WriteString(s)
	return err
}

func writeNDJSON[T any](w *bufio.Writer, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func writeSSE[T any](w *bufio.Writer, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("data: "); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.WriteString("\n\n")
	return err
}
