// Package p2p implements the host<->device APDU transport simulator:
// a libp2p stream protocol carrying length-prefixed request/response
// frames between an operator-facing host process and a simulated
// device process, so the engine can be exercised in-process or across
// machines exactly as it would be over a real HID/TCP transport.
package p2p

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/multiformats/go-multiaddr"
)

// ProtocolID is the single stream protocol the device side exposes.
const ProtocolID = protocol.ID("/hwsim/apdu/1.0.0")

// StatusTopic carries best-effort state-transition notifications: a
// watching process (a second operator, a monitoring dashboard) can
// observe the device's engine state without being the host driving
// it. Unlike the APDU stream, publishing here never affects engine
// state or the rolling digest.
const StatusTopic = "hwsim-status"

// StatusEvent is one state-transition notification published after a
// processed APDU frame.
type StatusEvent struct {
	Instruction byte   `json:"ins"`
	State       byte   `json:"state"`
	DigestHex   string `json:"digest"`
}

// RequestHandler processes one decoded APDU frame (class, ins,
// payload) and returns the raw response frame to write back.
type RequestHandler func(frame []byte) ([]byte, error)

// Device is the simulated hardware wallet's transport-facing half: a
// libp2p host that accepts APDU streams and dispatches each frame to
// a RequestHandler (ordinarily wire.ParseEvent -> engine.Update ->
// wire.EncodeResponse).
type Device struct {
	host    host.Host
	handler RequestHandler

	ctx        context.Context
	ps         *pubsub.PubSub
	statusTopic *pubsub.Topic
}

// NewDevice starts a libp2p host listening on listenPort, registers
// the APDU stream handler, and joins the status broadcast topic.
func NewDevice(ctx context.Context, listenPort int, handler RequestHandler) (*Device, error) {
	h, err := libp2p.New(
		libp2p.ListenAddrStrings(fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", listenPort)),
	)
	if err != nil {
		return nil, err
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		return nil, err
	}
	topic, err := ps.Join(StatusTopic)
	if err != nil {
		h.Close()
		return nil, err
	}

	d := &Device{host: h, handler: handler, ctx: ctx, ps: ps, statusTopic: topic}
	h.SetStreamHandler(ProtocolID, d.handleStream)
	return d, nil
}

func (d *Device) handleStream(s network.Stream) {
	defer s.Close()
	rw := bufio.NewReadWriter(bufio.NewReader(s), bufio.NewWriter(s))

	for {
		frame, err := readFrame(rw)
		if err != nil {
			if err != io.EOF {
				s.Reset()
			}
			return
		}
		if len(frame) < 2 {
			s.Reset()
			return
		}

		resp, err := d.handler(frame)
		if err != nil {
			s.Reset()
			return
		}

		if err := writeFrame(rw, resp); err != nil {
			s.Reset()
			return
		}
		if err := rw.Flush(); err != nil {
			s.Reset()
			return
		}

		d.publishStatus(frame[1], resp)
	}
}

// publishStatus is best-effort: a monitoring subscriber missing a
// notification never affects the host/device APDU exchange.
func (d *Device) publishStatus(ins byte, resp []byte) {
	if d.statusTopic == nil || len(resp) < 35 {
		return
	}
	ev := StatusEvent{Instruction: ins, State: resp[0], DigestHex: fmt.Sprintf("%x", resp[3:35])}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = d.statusTopic.Publish(d.ctx, data)
}

// Addrs returns the device's dialable multiaddrs.
func (d *Device) Addrs() []multiaddr.Multiaddr { return d.host.Addrs() }

// ID returns the device's peer ID.
func (d *Device) ID() peer.ID { return d.host.ID() }

// Close shuts the device host down.
func (d *Device) Close() error { return d.host.Close() }

// HostClient is the operator-CLI-facing half: dials a Device and
// exchanges one request/response APDU frame per call.
type HostClient struct {
	host host.Host
	ctx  context.Context
	ps   *pubsub.PubSub
}

// NewHostClient creates a host-side libp2p node with no listen
// addresses of its own; it only dials out to a Device.
func NewHostClient(ctx context.Context) (*HostClient, error) {
	h, err := libp2p.New(libp2p.NoListenAddrs)
	if err != nil {
		return nil, err
	}
	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		return nil, err
	}
	return &HostClient{host: h, ctx: ctx, ps: ps}, nil
}

// SubscribeStatus joins the device's status topic, returning a
// channel of decoded StatusEvents for a monitoring UI. The channel is
// closed when ctx is done.
func (c *HostClient) SubscribeStatus() (<-chan StatusEvent, error) {
	topic, err := c.ps.Join(StatusTopic)
	if err != nil {
		return nil, err
	}
	sub, err := topic.Subscribe()
	if err != nil {
		return nil, err
	}

	out := make(chan StatusEvent, 16)
	go func() {
		defer close(out)
		for {
			msg, err := sub.Next(c.ctx)
			if err != nil {
				return
			}
			var ev StatusEvent
			if err := json.Unmarshal(msg.Data, &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-c.ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Connect dials the device at addr (a multiaddr that includes the
// device's peer ID, e.g. "/ip4/127.0.0.1/tcp/9400/p2p/<id>").
func (c *HostClient) Connect(addr multiaddr.Multiaddr) (peer.AddrInfo, error) {
	info, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil {
		return peer.AddrInfo{}, err
	}
	if err := c.host.Connect(c.ctx, *info); err != nil {
		return peer.AddrInfo{}, err
	}
	return *info, nil
}

// Exchange opens a fresh stream to the device and round-trips one
// APDU frame. The simulator opens one stream per request rather than
// holding a long-lived session, matching the request/response
// discipline of the underlying APDU transport it simulates.
func (c *HostClient) Exchange(target peer.ID, frame []byte) ([]byte, error) {
	s, err := c.host.NewStream(c.ctx, target, ProtocolID)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	rw := bufio.NewReadWriter(bufio.NewReader(s), bufio.NewWriter(s))
	if err := writeFrame(rw, frame); err != nil {
		return nil, err
	}
	if err := rw.Flush(); err != nil {
		return nil, err
	}

	return readFrame(rw)
}

// Resync re-reads current device state without replaying a
// state-mutating event: it exchanges a TxGetInfo frame, the one
// instruction the engine guarantees never mutates state or digest,
// giving the host a safe way to recover visibility after a lost
// response (§9's documented escape hatch).
func (c *HostClient) Resync(target peer.ID, txGetInfoFrame []byte) ([]byte, error) {
	return c.Exchange(target, txGetInfoFrame)
}

// Close shuts the host client down.
func (c *HostClient) Close() error { return c.host.Close() }

func readFrame(r *bufio.ReadWriter) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	if n > 512 {
		return nil, fmt.Errorf("p2p: frame length %d exceeds maximum", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFrame(w *bufio.ReadWriter, frame []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(frame)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}
