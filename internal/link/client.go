package link

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"

	"dmrmonitor/internal/hub"
	"dmrmonitor/internal/providers"
	"dmrmonitor/internal/structures"
)

var ErrTransport = errors.New("link transport error")

type ClientInterface interface {
	Run(ctx context.Context)
	Connected() bool
}

// Client holds the stream connection to the link process and reconnects
// with exponential backoff. The delay returns to its minimum once a
// connection is established.
type Client struct {
	conf       *structures.Config
	dispatcher DispatcherInterface
	publisher  Publisher
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	connected  *atomic.Bool
	dialer     net.Dialer
}

func NewClient(
	conf *structures.Config,
	dispatcher DispatcherInterface,
	publisher Publisher,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Client {
	return &Client{
		conf:       conf,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		connected:  atomic.NewBool(false),
		dialer:     net.Dialer{Timeout: conf.Link.DialTimeout},
	}
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.conf.Link.Host, strconv.Itoa(c.conf.Link.Port))
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	l := c.conf.Link
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.MinBackoff
	b.MaxInterval = l.MaxBackoff
	b.Multiplier = l.BackoffFactor
	if b.Multiplier <= 1 {
		b.Multiplier = math.E
	}
	b.RandomizationFactor = l.Jitter
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run connects and serves frames until ctx is cancelled. Transport errors
// only ever lead to another attempt.
func (c *Client) Run(ctx context.Context) {
	b := c.newBackOff()
	for {
		err := c.session(ctx, b)
		if ctx.Err() != nil {
			return
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			wait = c.conf.Link.MaxBackoff
		}
		c.metrics.IncReconnects()
		c.logger.Warnf(providers.TypeLink, "%s, reconnecting in %s", err, wait.Round(time.Millisecond))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (c *Client) session(ctx context.Context, b backoff.BackOff) error {
	addr := c.addr()
	c.logger.Infof(providers.TypeLink, "Connecting to %s", addr)

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: connect %s: %s", ErrTransport, addr, err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	b.Reset()
	c.setConnected(true)
	c.logger.Infof(providers.TypeLink, "Connected to %s", addr)
	c.publisher.PublishNotice(hub.NoticeLinkUp)

	reader := NewFrameReader(conn, c.conf.Link.MaxFrameSize)
	for {
		frame, err := reader.ReadFrame()
		if err != nil {
			_ = conn.Close()
			c.setConnected(false)
			c.publisher.PublishNotice(hub.NoticeLinkDown)
			if errors.Is(err, ErrFrameTooLarge) || errors.Is(err, ErrMalformedFrame) {
				c.metrics.IncDropped("framing")
			}
			return fmt.Errorf("%w: connection to %s lost: %s", ErrTransport, addr, err)
		}
		c.dispatcher.Dispatch(frame)
	}
}

func (c *Client) setConnected(v bool) {
	c.connected.Store(v)
	c.metrics.SetLinkConnected(v)
}
