package raster

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(0)

	buf, err := p.GetWithError(1000)
	if err != nil {
		t.Fatalf("GetWithError: %v", err)
	}
	if len(buf) != 1000 || cap(buf) != 4<<10 {
		t.Errorf("len %d cap %d", len(buf), cap(buf))
	}
	if p.MemoryUsed() != 4<<10 {
		t.Errorf("MemoryUsed = %d", p.MemoryUsed())
	}
	p.Put(buf)
	if p.MemoryUsed() != 0 {
		t.Errorf("MemoryUsed after Put = %d", p.MemoryUsed())
	}

	big, err := p.GetWithError(20 << 20)
	if err != nil {
		t.Fatalf("GetWithError big: %v", err)
	}
	p.Put(big)
	if p.MemoryUsed() != 0 {
		t.Errorf("MemoryUsed after big Put = %d", p.MemoryUsed())
	}
	if gets, _, _ := p.Stats(); gets != 2 {
		t.Errorf("gets = %d", gets)
	}
}

func TestBufferPoolLimit(t *testing.T) {
	p := NewBufferPool(8 << 10)

	a, err := p.GetWithError(4 << 10)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.GetWithError(5 << 10); err == nil {
		t.Fatal("second allocation should exceed the limit")
	} else {
		var mle *MemoryLimitExceededError
		if !errors.As(err, &mle) || mle.Limit != 8<<10 || mle.Current != 4<<10 {
			t.Errorf("err = %#v", err)
		}
	}
	p.Put(a)

	if prev := p.SetMemoryLimit(0); prev != 8<<10 || p.MemoryLimit() != 0 {
		t.Errorf("SetMemoryLimit returned %d, limit now %d", prev, p.MemoryLimit())
	}
}

type recordHandler struct {
	msgs *[]string
}

func (h recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordHandler) Handle(_ context.Context, r slog.Record) error {
	*h.msgs = append(*h.msgs, r.Message)
	return nil
}
func (h recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordHandler) WithGroup(string) slog.Handler      { return h }

func TestSetLogger(t *testing.T) {
	var msgs []string
	SetLogger(slog.New(recordHandler{msgs: &msgs}))
	defer SetLogger(nil)

	dst := filled(t, 2, 2, 1, FormatUChar, 0)
	sub := filled(t, 1, 1, 1, FormatUChar, 1)
	if err := DrawImage(dst, sub, 5, 5); err != nil {
		t.Fatalf("DrawImage: %v", err)
	}
	found := false
	for _, m := range msgs {
		if strings.Contains(m, "outside image") {
			found = true
		}
	}
	if !found {
		t.Errorf("no log record for an area outside the image: %q", msgs)
	}

	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
