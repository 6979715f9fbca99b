package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/nspcc-dev/bridge-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractAddress := flag.String("contract", "", "Address or script hash of the bridge contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractAddress == "":
		log.Fatal("missing bridge contract address")
	}

	bridgeContract, err := parseContractAddress(*contractAddress)
	if err != nil {
		log.Fatal(fmt.Errorf("parse bridge contract address: %w", err))
	}

	err = dump(*neoRPCEndpoint, bridgeContract)
	if err != nil {
		log.Fatal(err)
	}
}

// parseContractAddress accepts both Neo address and hex-encoded script hash
// (with or without '0x' prefix) forms.
func parseContractAddress(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}

func dump(neoBlockchainRPCEndpoint string, bridgeContract util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	reader := bridge.NewReader(b.inv, bridgeContract)

	version, err := reader.Version()
	if err != nil {
		return fmt.Errorf("get contract version: %w", err)
	}
	sym, err := reader.Symbol()
	if err != nil {
		return fmt.Errorf("get token symbol: %w", err)
	}
	dec, err := reader.Decimals()
	if err != nil {
		return fmt.Errorf("get token decimals: %w", err)
	}
	total, err := reader.TotalSupply()
	if err != nil {
		return fmt.Errorf("get total supply: %w", err)
	}
	host, err := reader.TotalSupplyHost()
	if err != nil {
		return fmt.Errorf("get host namespace supply: %w", err)
	}
	origin, err := reader.TotalSupplyOrigin()
	if err != nil {
		return fmt.Errorf("get origin namespace supply: %w", err)
	}
	custodian, err := reader.Custodian()
	if err != nil {
		return fmt.Errorf("get custodian address: %w", err)
	}
	verifier, err := reader.Verifier()
	if err != nil {
		return fmt.Errorf("get verifier address: %w", err)
	}
	minBalance, err := reader.MinStorageBalance()
	if err != nil {
		return fmt.Errorf("get min storage balance: %w", err)
	}

	fmt.Printf("Bridge contract %s (%s) at block #%d\n", address.Uint160ToString(bridgeContract), bridgeContract.StringLE(), b.currentBlock)
	fmt.Printf("  version:          %s\n", formatVersion(version.Int64()))
	fmt.Printf("  token:            %s, %d decimals\n", sym, dec)
	fmt.Printf("  total supply:     %s\n", total)
	fmt.Printf("    host namespace:   %s\n", host)
	fmt.Printf("    origin namespace: %s\n", origin)
	fmt.Printf("  custodian:        0x%x\n", custodian)
	fmt.Printf("  verifier:         %s\n", address.Uint160ToString(verifier))
	fmt.Printf("  min storage fee:  %s\n", minBalance)

	return dumpUsedProofs(b, reader)
}

func dumpUsedProofs(b *remoteBlockchain, reader *bridge.ContractReader) error {
	sessionID, iter, err := reader.UsedProofs()
	if err != nil {
		return fmt.Errorf("open used proofs iterator: %w", err)
	}

	fmt.Println("Used proof fingerprints:")

	var n int

	if iter.ID == nil {
		// Server with sessions disabled expands the first portion in place.
		for i := range iter.Values {
			fp, err := iter.Values[i].TryBytes()
			if err != nil {
				return fmt.Errorf("decode fingerprint #%d: %w", n, err)
			}
			fmt.Printf("  %x\n", fp)
			n++
		}
		if iter.Truncated {
			fmt.Println("  <truncated, ask a server with session support for the full list>")
		}
		fmt.Printf("Total: %d\n", n)
		return nil
	}

	defer func() {
		_ = b.inv.TerminateSession(sessionID)
	}()

	items, err := b.inv.TraverseIterator(sessionID, &iter, 0)
	for ; err == nil && len(items) > 0; items, err = b.inv.TraverseIterator(sessionID, &iter, 0) {
		for i := range items {
			fp, err := items[i].TryBytes()
			if err != nil {
				return fmt.Errorf("decode fingerprint #%d: %w", n, err)
			}
			fmt.Printf("  %x\n", fp)
			n++
		}
	}
	if err != nil {
		return fmt.Errorf("traverse used proofs iterator: %w", err)
	}

	fmt.Printf("Total: %d\n", n)
	return nil
}

func formatVersion(v int64) string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v%1_000_000/1_000, v%1_000)
}
