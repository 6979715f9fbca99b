package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"slices"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nspcc-dev/bridge-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const tokenDecimals = 18

func initClient(addr string, name string) (*rpcclient.Client, error) {
	c, err := rpcclient.New(context.Background(), addr, rpcclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("RPC %s: %w", name, err)
	}
	err = c.Init()
	if err != nil {
		return nil, fmt.Errorf("RPC %s init: %w", name, err)
	}
	return c, nil
}

type deposit struct {
	fingerprint []byte
	from        common.Address
	amount      *big.Int
	fee         *big.Int
	tx          common.Hash
}

type mint struct {
	tx          util.Uint256
	to          []byte
	amount      *big.Int
	fingerprint []byte
}

func getSupply(c *rpcclient.Client, h util.Uint160, height uint32) *big.Int {
	inv := invoker.NewHistoricAtHeight(height, c, nil)
	s, err := bridge.NewReader(inv, h).TotalSupply()
	if err != nil {
		fmt.Printf("WARN: cannot get historic supply for %d height: %s\n", height, err)
		return new(big.Int)
	}
	return s
}

// proofBuilder converts filtered custodian logs into deposit proofs, caching
// per-block headers and per-transaction receipts along the way.
type proofBuilder struct {
	c        *ethclient.Client
	headers  map[common.Hash]*types.Header
	receipts map[common.Hash]*types.Receipt
}

func (b *proofBuilder) build(ctx context.Context, l types.Log) (*bridge.Proof, error) {
	hdr, ok := b.headers[l.BlockHash]
	if !ok {
		var err error
		hdr, err = b.c.HeaderByHash(ctx, l.BlockHash)
		if err != nil {
			return nil, fmt.Errorf("get header %s: %w", l.BlockHash, err)
		}
		b.headers[l.BlockHash] = hdr
	}

	rcpt, ok := b.receipts[l.TxHash]
	if !ok {
		var err error
		rcpt, err = b.c.TransactionReceipt(ctx, l.TxHash)
		if err != nil {
			return nil, fmt.Errorf("get receipt %s: %w", l.TxHash, err)
		}
		b.receipts[l.TxHash] = rcpt
	}

	idx := slices.IndexFunc(rcpt.Logs, func(e *types.Log) bool { return e.Index == l.Index })
	if idx < 0 {
		return nil, fmt.Errorf("log %d of tx %s missing from its receipt", l.Index, l.TxHash)
	}

	return bridge.NewProof(hdr, int(l.TxIndex), rcpt, idx, nil)
}

// collectDeposits pulls all Deposited events ever emitted by the custodian and
// recomputes the proof fingerprint the bridge contract derives for each of
// them.
func collectDeposits(ctx context.Context, c *ethclient.Client, custodian common.Address) ([]deposit, error) {
	logs, err := c.FilterLogs(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{custodian},
		Topics:    [][]common.Hash{{crypto.Keccak256Hash([]byte(bridge.DepositedEventSignature))}},
	})
	if err != nil {
		return nil, fmt.Errorf("filter custodian logs: %w", err)
	}

	pb := proofBuilder{
		c:        c,
		headers:  make(map[common.Hash]*types.Header),
		receipts: make(map[common.Hash]*types.Receipt),
	}

	var deposits []deposit
	for _, l := range logs {
		if len(l.Topics) != 2 || len(l.Data) < 96 {
			fmt.Printf("WARN: malformed Deposited log in tx %s, skipping\n", l.TxHash)
			continue
		}

		p, err := pb.build(ctx, l)
		if err != nil {
			return nil, err
		}
		fp, err := p.Fingerprint()
		if err != nil {
			return nil, fmt.Errorf("fingerprint for tx %s: %w", l.TxHash, err)
		}

		deposits = append(deposits, deposit{
			fingerprint: fp,
			from:        common.BytesToAddress(l.Topics[1].Bytes()[12:]),
			amount:      new(big.Int).SetBytes(l.Data[32:64]),
			fee:         new(big.Int).SetBytes(l.Data[64:96]),
			tx:          l.TxHash,
		})
	}
	return deposits, nil
}

func cliMain() error {
	flag.Parse()

	args := flag.Args()
	if len(args) < 4 {
		return errors.New("usage: program <RPC_ORIGIN> <CUSTODIAN> <RPC_NEO> <BRIDGE_CONTRACT>")
	}

	rpcOriginAddress := args[0]
	custodianAddress := args[1]
	rpcNeoAddress := args[2]
	bridgeContractAddress := args[3]

	if !common.IsHexAddress(custodianAddress) {
		return errors.New("bad custodian address")
	}
	custodian := common.HexToAddress(custodianAddress)

	bridgeHash, err := address.StringToUint160(bridgeContractAddress)
	if err != nil {
		return fmt.Errorf("bad contract address: %w", err)
	}

	ctx := context.Background()

	cOrigin, err := ethclient.DialContext(ctx, rpcOriginAddress)
	if err != nil {
		return fmt.Errorf("RPC origin: %w", err)
	}
	cNeo, err := initClient(rpcNeoAddress, "Neo")
	if err != nil {
		return err
	}

	deposits, err := collectDeposits(ctx, cOrigin, custodian)
	if err != nil {
		return err
	}

	locked, err := cOrigin.BalanceAt(ctx, custodian, nil)
	if err != nil {
		return fmt.Errorf("get custodian balance: %w", err)
	}
	fmt.Println(len(deposits), "deposits, custodian balance:", fixedn.ToString(locked, tokenDecimals))

	maxH, err := cNeo.GetBlockCount()
	if err != nil {
		return err
	}
	maxH-- // blockCount to height

	var (
		mints []mint

		actualSupply = getSupply(cNeo, bridgeHash, maxH)
		knownBlocks  = make(map[uint32]*big.Int)

		currHeight uint32 = 1
		currSupply        = getSupply(cNeo, bridgeHash, currHeight)
	)

	fmt.Printf("bridged supply at %d height: %s\n", maxH, fixedn.ToString(actualSupply, tokenDecimals))
	for currHeight < maxH {
		searchedSegment := int(maxH - currHeight)
		n := sort.Search(searchedSegment, func(i int) bool {
			var h = currHeight + uint32(i)
			s, ok := knownBlocks[h]
			if !ok {
				s = getSupply(cNeo, bridgeHash, h)
				knownBlocks[h] = s
			}
			return currSupply.Cmp(s) != 0
		})
		if n == searchedSegment {
			break
		}
		currHeight += uint32(n)
		currSupply = knownBlocks[currHeight]
		fmt.Println("Neo block", currHeight-1, "supply", fixedn.ToString(currSupply, tokenDecimals))
		b, err := cNeo.GetBlockByIndex(currHeight - 1)
		if err != nil {
			return err
		}
		for _, t := range b.Transactions {
			l, err := cNeo.GetApplicationLog(t.Hash(), nil)
			if err != nil {
				return err
			}
			for _, e := range l.Executions[0].Events {
				if e.ScriptHash.Equals(bridgeHash) && e.Name == "Deposit" {
					itms := e.Item.Value().([]stackitem.Item)
					fp, _ := itms[0].TryBytes()
					to, _ := itms[1].TryBytes()
					amount, _ := itms[2].TryInteger()
					mints = append(mints, mint{t.Hash(), to, amount, fp})
				}
			}
		}
	}
	failedDeposits := slices.Clone(deposits)
	unmatchedMints := slices.Clone(mints)
	for _, m := range mints {
		// Won't detect duplicated mints for the same deposit.
		failedDeposits = slices.DeleteFunc(failedDeposits, func(d deposit) bool {
			return bytes.Equal(d.fingerprint, m.fingerprint)
		})
	}
	for _, d := range deposits {
		unmatchedMints = slices.DeleteFunc(unmatchedMints, func(m mint) bool {
			return bytes.Equal(d.fingerprint, m.fingerprint)
		})
	}

	for _, d := range failedDeposits {
		fmt.Println(d.tx, d.from, fixedn.ToString(d.amount, tokenDecimals), fixedn.ToString(d.fee, tokenDecimals))
	}
	for _, m := range unmatchedMints {
		fmt.Printf("0x%s %s %s %x\n", m.tx.StringLE(), formatReceiver(m.to), fixedn.ToString(m.amount, tokenDecimals), m.fingerprint)
	}

	return nil
}

func formatReceiver(to []byte) string {
	if len(to) == util.Uint160Size {
		u, err := util.Uint160DecodeBytesBE(to)
		if err == nil {
			return address.Uint160ToString(u)
		}
	}
	return fmt.Sprintf("0x%x", to)
}

func main() {
	if err := cliMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
