package rasterfile

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mrjoshuak/go-raster/raster"
)

// remotePrefetch is the size of the first range request, which also yields
// the file size. Headers of every built-in format fit in it.
const remotePrefetch = 64 << 10

var httpTimeout atomic.Int64

func init() {
	httpTimeout.Store(int64(30 * time.Second))
}

// SetHTTPTimeout sets the read and write timeout of the default client used
// for http and https sources.
func SetHTTPTimeout(d time.Duration) {
	httpTimeout.Store(int64(d))
}

func defaultClient() *fasthttp.Client {
	d := time.Duration(httpTimeout.Load())
	return &fasthttp.Client{
		ReadTimeout:  d,
		WriteTimeout: d,
	}
}

// httpSource reads a remote file with range requests. The first
// remotePrefetch bytes are kept; a server that ignores ranges sends the
// whole file, which is then kept instead.
type httpSource struct {
	url    string
	client *fasthttp.Client
	size   int64

	mu    sync.Mutex
	cache []byte // bytes [0, len(cache))
}

func openHTTPSource(url string, client *fasthttp.Client) (*httpSource, error) {
	if client == nil {
		client = defaultClient()
	}
	s := &httpSource{url: url, client: client}

	status, body, contentRange, err := s.get(0, remotePrefetch-1)
	if err != nil {
		return nil, err
	}
	switch status {
	case fasthttp.StatusOK:
		s.size = int64(len(body))
	case fasthttp.StatusPartialContent:
		size, err := parseContentRangeSize(contentRange)
		if err != nil {
			return nil, err
		}
		s.size = size
	case fasthttp.StatusRequestedRangeNotSatisfiable:
		// Empty file.
		s.size = 0
	case fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	default:
		return nil, fmt.Errorf("rasterfile: %s: unexpected status code %d", url, status)
	}
	s.cache = body
	raster.Logger().Debug("rasterfile: opened remote source", "url", url, "size", s.size)
	return s, nil
}

// get requests bytes [start, end] and returns a copy of the body.
func (s *httpSource) get(start, end int64) (status int, body []byte, contentRange string, err error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	if err := s.client.Do(req, resp); err != nil {
		return 0, nil, "", fmt.Errorf("rasterfile: %s: %w", s.url, err)
	}
	body = append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, string(resp.Header.Peek("Content-Range")), nil
}

// parseContentRangeSize returns the total length in a "bytes a-b/total"
// header.
func parseContentRangeSize(v string) (int64, error) {
	_, total, ok := strings.Cut(v, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("rasterfile: bad Content-Range %q", v)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(total), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("rasterfile: bad Content-Range %q", v)
	}
	return n, nil
}

func (s *httpSource) Size() int64 {
	return s.size
}

func (s *httpSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("rasterfile: negative offset %d", off)
	}
	if off >= s.size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), s.size-off)

	s.mu.Lock()
	cached := s.cache
	s.mu.Unlock()
	if off+want <= int64(len(cached)) {
		n := copy(p, cached[off:off+want])
		return n, eofIfShort(n, len(p))
	}

	status, body, _, err := s.get(off, off+want-1)
	if err != nil {
		return 0, err
	}
	switch status {
	case fasthttp.StatusPartialContent:
	case fasthttp.StatusOK:
		// Whole file: keep it for later reads.
		s.mu.Lock()
		s.cache = body
		s.mu.Unlock()
		if off >= int64(len(body)) {
			return 0, io.EOF
		}
		body = body[off:]
	default:
		return 0, fmt.Errorf("rasterfile: %s: unexpected status code %d", s.url, status)
	}
	n := copy(p, body[:min(int64(len(body)), want)])
	return n, eofIfShort(n, len(p))
}

func (s *httpSource) Close() error {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
	return nil
}
