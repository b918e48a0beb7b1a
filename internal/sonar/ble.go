package sonar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"sonar-radar.klederson.com/internal/config"
	"sonar-radar.klederson.com/internal/logging"
)

// bleChunk is the largest write the Nordic UART service accepts at the default MTU.
const bleChunk = 20

// OpenBLE scans for a head advertising localName, connects to it and
// returns a link over its Nordic UART service. The scan gives up after
// config.BLEScanLimit.
func OpenBLE(ctx context.Context, localName string) (*Link, error) {
	ctx, cancel := context.WithTimeout(ctx, config.BLEScanLimit)
	defer cancel()

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
	}

	found := make(chan bluetooth.ScanResult, 1)
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			if result.LocalName() != localName {
				return
			}
			_ = a.StopScan()
			select {
			case found <- result:
			default:
			}
		})
	}()

	var result bluetooth.ScanResult
	select {
	case result = <-found:
	case err := <-scanErr:
		if err == nil {
			err = errors.New("scan ended")
		}
		return nil, fmt.Errorf("scan for %q: %w", localName, err)
	case <-ctx.Done():
		_ = adapter.StopScan()
		return nil, fmt.Errorf("scan for %q: %w", localName, ctx.Err())
	}

	device, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", result.Address.String(), err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{bluetooth.ServiceUUIDNordicUART})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		return nil, fmt.Errorf("%s has no UART service: %v", localName, err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{
		bluetooth.CharacteristicUUIDUARTRX,
		bluetooth.CharacteristicUUIDUARTTX,
	})
	if err != nil || len(chars) < 2 {
		_ = device.Disconnect()
		return nil, fmt.Errorf("%s UART characteristics: %v", localName, err)
	}
	rx, tx := chars[0], chars[1]

	conn := newBLEConn(rx.WriteWithoutResponse, device.Disconnect)
	if err := tx.EnableNotifications(conn.notify); err != nil {
		_ = device.Disconnect()
		return nil, fmt.Errorf("%s notifications: %w", localName, err)
	}

	logging.For("ble").WithField("address", result.Address.String()).Info("connected to head")
	return NewLink(localName, conn), nil
}

// bleConn turns UART notifications and writes into a byte stream.
type bleConn struct {
	write      func([]byte) (int, error)
	disconnect func() error

	in      chan []byte
	pending []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newBLEConn(write func([]byte) (int, error), disconnect func() error) *bleConn {
	return &bleConn{
		write:      write,
		disconnect: disconnect,
		in:         make(chan []byte, 32),
		closed:     make(chan struct{}),
	}
}

// notify is the TX notification callback. The buffer is only valid for
// the duration of the call.
func (c *bleConn) notify(buf []byte) {
	b := append([]byte(nil), buf...)
	select {
	case c.in <- b:
	case <-c.closed:
	default:
		logging.For("ble").WithField("bytes", len(b)).Warn("receive buffer full, dropping notification")
	}
}

func (c *bleConn) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), bleChunk)
		if _, err := c.write(p[:n]); err != nil {
			return written, err
		}
		written += n
		p = p[n:]
	}
	return written, nil
}

// Read returns buffered bytes, or (0, nil) after pollInterval with nothing received.
func (c *bleConn) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		t := time.NewTimer(pollInterval)
		defer t.Stop()
		select {
		case b := <-c.in:
			c.pending = b
		case <-c.closed:
			return 0, errors.New("ble link closed")
		case <-t.C:
			return 0, nil
		}
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *bleConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.disconnect()
	})
	return err
}
