// Command hwctl is the operator CLI: it dials a running hwsim device
// over the APDU transport and drives a handful of operations an
// operator would perform directly, rather than through a full
// transaction-building library.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
	"go.uber.org/zap"

	"hwmob/p2p"
	"hwmob/wire"
)

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	addrStr := os.Args[1]
	command := os.Args[2]
	args := os.Args[3:]

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	log := logger.Sugar()

	ctx := context.Background()
	client, err := p2p.NewHostClient(ctx)
	if err != nil {
		log.Fatalf("failed to create host client: %v", err)
	}
	defer client.Close()

	addr, err := multiaddr.NewMultiaddr(addrStr)
	if err != nil {
		log.Fatalf("invalid device address: %v", err)
	}
	peerInfo, err := client.Connect(addr)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	target := peerInfo.ID

	var cmdErr error
	switch command {
	case "appinfo":
		cmdErr = cmdAppInfo(client, target)
	case "walletkeys":
		cmdErr = cmdWalletKeys(client, target, args)
	case "random":
		cmdErr = cmdRandom(client, target, args)
	case "ident":
		cmdErr = cmdIdent(client, target, args)
	case "getinfo":
		cmdErr = cmdGetInfo(client, target)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		log.Fatalf("%s failed: %v", command, cmdErr)
	}
}

func printUsage() {
	fmt.Println("Usage: hwctl <device-multiaddr> <command> [args...]")
	fmt.Println("  appinfo                         - show device identity and flags")
	fmt.Println("  walletkeys <account>            - fetch an account's view/spend keys")
	fmt.Println("  random <n>                      - fetch n bytes of device randomness")
	fmt.Println("  ident <index> <uri> <challenge> - request an identity challenge signature")
	fmt.Println("  getinfo                         - query transaction build progress")
}

func cmdAppInfo(c *p2p.HostClient, target peer.ID) error {
	resp, err := c.Exchange(target, wire.BuildGetAppInfo())
	if err != nil {
		return err
	}
	info, err := wire.DecodeAppInfo(resp)
	if err != nil {
		return err
	}
	if info.Status != wire.StatusOK {
		return fmt.Errorf("status 0x%04x", info.Status)
	}
	fmt.Printf("%s %s\n", info.Name, info.Version)
	fmt.Printf("  unlocked:     %v\n", info.Unlocked)
	fmt.Printf("  tx summary:   %v\n", info.HasTxSummary)
	return nil
}

func cmdWalletKeys(c *p2p.HostClient, target peer.ID, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: walletkeys <account-index>")
	}
	acct, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	resp, err := c.Exchange(target, wire.BuildGetWalletKeys(uint32(acct)))
	if err != nil {
		return err
	}
	r, err := wire.DecodeResponse(resp)
	if err != nil {
		return err
	}
	if r.Status != wire.StatusOK {
		return fmt.Errorf("status 0x%04x", r.Status)
	}
	if len(r.Body) < 68 {
		return fmt.Errorf("short wallet keys body")
	}
	acctOut := uint32(r.Body[0]) | uint32(r.Body[1])<<8 | uint32(r.Body[2])<<16 | uint32(r.Body[3])<<24
	fmt.Printf("account:      %d\n", acctOut)
	fmt.Printf("view private: %s\n", hex.EncodeToString(r.Body[4:36]))
	fmt.Printf("spend public: %s\n", hex.EncodeToString(r.Body[36:68]))
	return nil
}

func cmdRandom(c *p2p.HostClient, target peer.ID, args []string) error {
	n := uint8(32)
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return err
		}
		n = uint8(v)
	}
	resp, err := c.Exchange(target, wire.BuildGetRandom(n))
	if err != nil {
		return err
	}
	r, err := wire.DecodeResponse(resp)
	if err != nil {
		return err
	}
	if r.Status != wire.StatusOK {
		return fmt.Errorf("status 0x%04x", r.Status)
	}
	fmt.Println(hex.EncodeToString(r.Body))
	return nil
}

func cmdIdent(c *p2p.HostClient, target peer.ID, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: ident <index> <uri> <challenge-hex>")
	}
	idx, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return err
	}
	uri := args[1]
	challenge, err := hex.DecodeString(args[2])
	if err != nil {
		return err
	}

	resp, err := c.Exchange(target, wire.BuildIdentSignReq(uint32(idx), uri, challenge))
	if err != nil {
		return err
	}
	r, err := wire.DecodeResponse(resp)
	if err != nil {
		return err
	}
	if r.Status != wire.StatusOK {
		return fmt.Errorf("status 0x%04x", r.Status)
	}
	fmt.Println("identity request pending device approval")

	// The device operator answers a physical prompt asynchronously;
	// poll for the result rather than failing on the first miss.
	const maxAttempts = 30
	for attempt := 0; ; attempt++ {
		resp, err = c.Exchange(target, wire.BuildIdentGetReq())
		if err != nil {
			return err
		}
		r, err = wire.DecodeResponse(resp)
		if err != nil {
			return err
		}
		if r.Status == wire.StatusOK {
			break
		}
		if attempt+1 >= maxAttempts {
			return fmt.Errorf("status 0x%04x after %d attempts", r.Status, attempt+1)
		}
		time.Sleep(time.Second)
	}
	if len(r.Body) < 96 {
		return fmt.Errorf("short ident response body")
	}
	fmt.Printf("public key: %s\n", hex.EncodeToString(r.Body[0:32]))
	fmt.Printf("signature:  %s\n", hex.EncodeToString(r.Body[32:96]))
	return nil
}

func cmdGetInfo(c *p2p.HostClient, target peer.ID) error {
	resp, err := c.Exchange(target, wire.BuildTxGetInfo())
	if err != nil {
		return err
	}
	r, err := wire.DecodeResponse(resp)
	if err != nil {
		return err
	}
	if r.Status != wire.StatusOK {
		return fmt.Errorf("status 0x%04x", r.Status)
	}
	if len(r.Body) < 8 {
		return fmt.Errorf("short info body")
	}
	idx := uint32(r.Body[0]) | uint32(r.Body[1])<<8 | uint32(r.Body[2])<<16 | uint32(r.Body[3])<<24
	total := uint32(r.Body[4]) | uint32(r.Body[5])<<8 | uint32(r.Body[6])<<16 | uint32(r.Body[7])<<24
	fmt.Printf("state:    0x%02x\n", byte(r.State))
	fmt.Printf("progress: %d/%d\n", idx, total)
	return nil
}
