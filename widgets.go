package main

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/folio/internal/widget"
)

const (
	defaultWaveWidth  = 1280
	defaultWaveHeight = 480
	maxWaveDimension  = 4096

	maxTypewriterWords = 16
	maxTypewriterRunes = 64
)

// handleTypewriter streams the rotator's visible text as "text" events.
// Every connection gets its own rotator, stopped when the client leaves.
func (s *server) handleTypewriter(c *gin.Context) {
	words := typewriterWords(c.QueryArray("w"))
	if len(words) == 0 {
		// 204 tells EventSource not to reconnect.
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	tw := widget.NewTypewriter(words, s.typewriterTiming)
	defer func() {
		cancel()
		tw.Stop()
	}()

	texts := make(chan string)
	tw.Start(ctx, func(text string) {
		select {
		case texts <- text:
		case <-ctx.Done():
		}
	})

	streamEvents(ctx, c, texts, func(text string) {
		c.SSEvent("text", template.HTMLEscapeString(text))
	})
}

// handleWave returns the scene for one wave instance. The browser runs the
// frame loop and sizes its canvas from then on.
func (s *server) handleWave(c *gin.Context) {
	width, height := waveSize(c)
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, s.newWave(width, height).Scene(s.waveFPS))
}

// handleWaveSVG renders a single frame for clients without scripting.
func (s *server) handleWaveSVG(c *gin.Context) {
	width, height := waveSize(c)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", []byte(s.newWave(width, height).Frame().SVG()))
}

func streamEvents[T any](ctx context.Context, c *gin.Context, events <-chan T, send func(T)) {
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			send(ev)
			return true
		}
	})
}

// typewriterWords caps the number of words and the length of each.
func typewriterWords(raw []string) []string {
	words := make([]string, 0, min(len(raw), maxTypewriterWords))
	for _, w := range raw {
		if len(words) == maxTypewriterWords {
			break
		}
		if r := []rune(w); len(r) > maxTypewriterRunes {
			w = string(r[:maxTypewriterRunes])
		}
		words = append(words, w)
	}
	return words
}

func waveSize(c *gin.Context) (int, int) {
	return dimension(c.Query("w"), defaultWaveWidth), dimension(c.Query("h"), defaultWaveHeight)
}

func dimension(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, maxWaveDimension)
}
