// Command hwsim runs the simulated hardware wallet device: an
// in-process engine served over the APDU transport, so an operator
// (hwctl) or a monitoring process can exercise the signing engine
// exactly as it would talk to real hardware.
package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"hwmob/driver"
	"hwmob/engine"
	"hwmob/p2p"
	"hwmob/storage"
	"hwmob/wire"
)

const (
	appName    = "hwmob-sim"
	appVersion = "0.1.0"
)

// defaultSimSeedHex is a fixed 64-byte all-zero seed used when no
// -seed flag is supplied. The simulator never holds a real secret.
const defaultSimSeedHex = "00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000"

type Config struct {
	DataDir  string
	P2PPort  int
	SeedHex  string
}

func main() {
	cfg := parseFlags()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	sim, err := NewSimulator(cfg, log)
	if err != nil {
		log.Fatalf("failed to create simulator: %v", err)
	}

	if err := sim.Start(); err != nil {
		log.Fatalf("failed to start simulator: %v", err)
	}

	log.Infof("device started: peer id %s", sim.device.ID())
	for _, a := range sim.device.Addrs() {
		log.Infof("listening on %s/p2p/%s", a, sim.device.ID())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	sim.Stop()
}

// Simulator owns the engine, its settings store, and the transport
// that exposes them.
type Simulator struct {
	config   *Config
	log      *zap.SugaredLogger
	settings *storage.Settings
	engine   *engine.Engine
	device   *p2p.Device
	ctx      context.Context
	cancel   context.CancelFunc

	mu        sync.Mutex
	prompting bool
}

func NewSimulator(cfg *Config, log *zap.SugaredLogger) (*Simulator, error) {
	settings, err := storage.Open(cfg.DataDir + "/settings.db")
	if err != nil {
		return nil, err
	}

	seed, err := hex.DecodeString(cfg.SeedHex)
	if err != nil {
		settings.Close()
		return nil, err
	}

	drv := driver.NewSeedDriver(seed)
	eng := engine.New(drv)

	ctx, cancel := context.WithCancel(context.Background())

	sim := &Simulator{
		config:   cfg,
		log:      log,
		settings: settings,
		engine:   eng,
		ctx:      ctx,
		cancel:   cancel,
	}

	device, err := p2p.NewDevice(ctx, cfg.P2PPort, sim.handleFrame)
	if err != nil {
		settings.Close()
		cancel()
		return nil, err
	}
	sim.device = device

	return sim, nil
}

func (s *Simulator) Start() error { return nil }

func (s *Simulator) Stop() {
	s.device.Close()
	s.settings.Close()
	s.cancel()
}

// handleFrame implements p2p.RequestHandler: decode, dispatch, encode.
// The engine has no internal locking of its own (it models a single
// secure element handling one request at a time), so the simulator
// serializes access here.
func (s *Simulator) handleFrame(frame []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(frame) < 2 {
		return nil, wire.ErrTruncated
	}
	ins := frame[1]
	payload := frame[2:]

	if ins == wire.InsGetAppInfo {
		body, err := wire.EncodeAppInfo(1, appName, appVersion, s.engine.Unlocked(), false)
		if err != nil {
			return nil, err
		}
		return appendStatus(body, wire.StatusOK), nil
	}

	value := s.headerValue(ins, payload)

	ev, err := wire.ParseEvent(ins, payload)
	if err != nil {
		s.log.Debugw("decode failed", "ins", ins, "err", err)
		hdr := wire.EncodeStateHeader(s.engine.CurrentState(), value, s.engine.Digest())
		return appendStatus(hdr, wire.StatusWord(err)), nil
	}

	out, err := s.engine.Update(ev)
	if err != nil {
		s.log.Debugw("event rejected", "ins", ins, "state", s.engine.CurrentState(), "err", err)
		hdr := wire.EncodeStateHeader(s.engine.CurrentState(), value, s.engine.Digest())
		return appendStatus(hdr, wire.StatusWord(err)), nil
	}

	s.maybePromptApproval()

	resp, err := wire.EncodeResponse(ins, value, out)
	if err != nil {
		s.log.Errorw("encode failed", "ins", ins, "err", err)
		return nil, err
	}
	return appendStatus(resp, wire.StatusOK), nil
}

// maybePromptApproval stands in for the physical button on real
// hardware: once the engine reaches a state needing operator
// sign-off, a background reader asks for y/n on the device's own
// terminal and applies the decision. Must be called with s.mu held;
// the prompt goroutine re-acquires it once the operator answers.
func (s *Simulator) maybePromptApproval() {
	state := s.engine.CurrentState()
	if state != engine.StatePending && state != engine.StateIdentPending {
		return
	}
	if s.prompting {
		return
	}
	s.prompting = true

	prompt := "Approve transaction? [y/N]: "
	if state == engine.StateIdentPending {
		prompt = "Approve identity challenge? [y/N]: "
	}

	go func() {
		fmt.Print(prompt)
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		approve := strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")

		s.mu.Lock()
		defer s.mu.Unlock()
		s.prompting = false

		switch state {
		case engine.StatePending:
			if approve {
				if err := s.engine.Approve(); err != nil {
					s.log.Warnw("approve failed", "err", err)
				}
			} else if err := s.engine.Deny(); err != nil {
				s.log.Warnw("deny failed", "err", err)
			}
		case engine.StateIdentPending:
			if err := s.engine.IdentApprove(approve); err != nil {
				s.log.Warnw("ident approve failed", "err", err)
			}
		}
	}()
}

func appendStatus(body []byte, sw uint16) []byte {
	out := make([]byte, len(body)+2)
	copy(out, body)
	out[len(body)] = byte(sw >> 8)
	out[len(body)+1] = byte(sw)
	return out
}

// headerValue surfaces the instruction-specific header field the
// caller already supplied (ring index, response index) so the
// response header can echo it back.
func (s *Simulator) headerValue(ins byte, payload []byte) uint16 {
	switch ins {
	case wire.InsTxAddTxOut, wire.InsTxGetResponse:
		if len(payload) > 0 {
			return uint16(payload[0])
		}
	}
	return 0
}

func parseFlags() *Config {
	dataDir := flag.String("datadir", "./hwsim-data", "simulator data directory")
	port := flag.Int("port", 9400, "APDU transport listen port")
	seedHex := flag.String("seed", defaultSimSeedHex, "device seed (hex, simulator only)")
	flag.Parse()

	return &Config{
		DataDir: *dataDir,
		P2PPort: *port,
		SeedHex: *seedHex,
	}
}
