package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// ErrUnexpectedStatus marks a response outside 2xx/3xx.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Options describes one outbound request.
type Options struct {
	Method        string
	Headers       map[string]string
	Authorization string // full Authorization header value, empty when the proxy authenticates
	Timeout       time.Duration
}

// Response is the part of an upstream response the pipeline looks at.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// OK reports a 2xx or 3xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Transport sends a request body and returns the upstream response.
type Transport interface {
	Send(ctx context.Context, url string, opts Options, body []byte) (*Response, error)
}

var _ Transport = (*FiberTransport)(nil)

// FiberTransport sends requests with the fiber client agent.
type FiberTransport struct {
	limiter        *rate.Limiter
	defaultTimeout time.Duration
}

// NewFiberTransport returns a transport that waits on limiter before each call.
// A nil limiter disables rate limiting; a zero defaultTimeout leaves calls without
// a deadline unless the request or context sets one.
func NewFiberTransport(limiter *rate.Limiter, defaultTimeout time.Duration) *FiberTransport {
	return &FiberTransport{limiter: limiter, defaultTimeout: defaultTimeout}
}

// NewLimiter builds the shared outbound limiter, or nil when perSecond is not positive.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (t *FiberTransport) Send(ctx context.Context, url string, opts Options, body []byte) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = t.defaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, context.DeadlineExceeded
		}
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}

	method := opts.Method
	if method == "" {
		method = fiber.MethodPost
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.Authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, opts.Authorization)
	}
	req.SetBody(body)
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("prepare request: %w", err)
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)
	agent.SetResponse(resp)

	// Bytes releases the agent.
	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("send request: no response within %s: %w", timeout, err)
		}
		return nil, fmt.Errorf("send request: %w", err)
	}

	headers := make(map[string]string)
	resp.Header.VisitAll(func(key, value []byte) {
		headers[utils.CopyString(string(key))] = utils.CopyString(string(value))
	})

	return &Response{
		StatusCode: code,
		Headers:    headers,
		Body:       respBody,
	}, nil
}
