package tests

import (
	"encoding/hex"
	"math/big"
	"path"
	"strings"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/nspcc-dev/bridge-contract/common"
	"github.com/nspcc-dev/bridge-contract/contracts/bridge"
	rpcbridge "github.com/nspcc-dev/bridge-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	bridgePath   = "../contracts/bridge"
	verifierPath = "../internal/testcontracts/verifier"
	receiverPath = "../internal/testcontracts/receiver"

	// bridgeStorageFee is the registration deposit used by the tests, 0.1 GAS.
	bridgeStorageFee = 1000_0000
)

var (
	custodianAddress = gethcommon.HexToAddress("0x3f17f1962B36e491b30A40b2405849e597Ba5FB5")
	depositorAddress = gethcommon.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
)

func deployBridgeContract(t *testing.T, e *neotest.Executor, addrVerifier util.Uint160) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, bridgePath, path.Join(bridgePath, "config.yml"))

	args := make([]any, 4)
	args[0] = e.CommitteeHash
	args[1] = addrVerifier
	args[2] = custodianAddress.Bytes()
	args[3] = int64(bridgeStorageFee)

	e.DeployContract(t, c, args)
	return c.Hash
}

func deployReceiverContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, receiverPath, path.Join(receiverPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

// newBridgeInvoker deploys the bridge with the verifier mock and returns
// committee invokers for both.
func newBridgeInvoker(t *testing.T) (*neotest.ContractInvoker, *neotest.ContractInvoker) {
	e := newExecutor(t)

	ctrVerifier := neotest.CompileFile(t, e.CommitteeHash, verifierPath, path.Join(verifierPath, "config.yml"))
	e.DeployContract(t, ctrVerifier, nil)

	h := deployBridgeContract(t, e, ctrVerifier.Hash)
	return e.CommitteeInvoker(h), e.CommitteeInvoker(ctrVerifier.Hash)
}

type testProof struct {
	blob        []byte
	fingerprint []byte
}

// wrapEntry packs a log entry into a proof blob. Header data is randomized,
// so every call produces a proof with a distinct fingerprint.
func wrapEntry(t *testing.T, entry []byte) testProof {
	p := rpcbridge.Proof{
		LogIndex:     0,
		LogEntryData: entry,
		ReceiptIndex: 1,
		ReceiptData:  randomBytes(16),
		HeaderData:   randomBytes(48),
	}

	blob, err := p.Bytes()
	require.NoError(t, err)
	fp, err := p.Fingerprint()
	require.NoError(t, err)
	return testProof{blob: blob, fingerprint: fp}
}

func depositProof(t *testing.T, recipient string, amount, fee int64) testProof {
	entry, err := rpcbridge.EncodeDepositedLog(custodianAddress, depositorAddress,
		recipient, big.NewInt(amount), big.NewInt(fee))
	require.NoError(t, err)
	return wrapEntry(t, entry)
}

// bridgeMint funds a host account through the regular deposit protocol.
func bridgeMint(t *testing.T, c, v *neotest.ContractInvoker, to util.Uint160, amount int64) {
	p := depositProof(t, address.Uint160ToString(to), amount, 0)
	c.Invoke(t, stackitem.Null{}, "deposit", p.blob, nil)
	v.Invoke(t, stackitem.Null{}, "complete", true)
}

// bridgeMintOrigin funds a raw origin-chain address through the deposit
// protocol with the committee as the relayer.
func bridgeMintOrigin(t *testing.T, c, v *neotest.ContractInvoker, to gethcommon.Address, amount int64) {
	p := depositProof(t, "acct:"+hex.EncodeToString(to.Bytes()), amount, 0)
	c.Invoke(t, stackitem.Null{}, "deposit", p.blob, c.CommitteeHash)
	v.Invoke(t, stackitem.Null{}, "complete", true)
}

func TestBridgeDeployDefaults(t *testing.T) {
	c, v := newBridgeInvoker(t)

	c.Invoke(t, "bETH", "symbol")
	c.Invoke(t, int64(18), "decimals")
	c.Invoke(t, int64(0), "totalSupply")
	c.Invoke(t, int64(0), "totalSupplyHost")
	c.Invoke(t, int64(0), "totalSupplyOrigin")
	c.Invoke(t, custodianAddress.Bytes(), "custodian")
	c.Invoke(t, v.Hash.BytesBE(), "verifier")
	c.Invoke(t, int64(bridgeStorageFee), "minStorageBalance")
	c.Invoke(t, common.Version, "version")
}

func TestBridgeDeployValidation(t *testing.T) {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, bridgePath, path.Join(bridgePath, "config.yml"))

	args := func(custodian []byte, fee int64) []any {
		return []any{e.CommitteeHash, e.CommitteeHash, custodian, fee}
	}

	e.DeployContractCheckFAULT(t, ctr, args(custodianAddress.Bytes()[:19], bridgeStorageFee),
		bridge.ErrAddress)
	e.DeployContractCheckFAULT(t, ctr, args(custodianAddress.Bytes(), -1),
		"negative storage fee")
	e.DeployContractCheckFAULT(t, ctr, []any{[]byte{1, 2, 3}, e.CommitteeHash, custodianAddress.Bytes(), int64(0)},
		"incorrect owner script hash")

	e.DeployContract(t, ctr, args(custodianAddress.Bytes(), bridgeStorageFee))
}

func TestDeposit(t *testing.T) {
	c, v := newBridgeInvoker(t)

	relayer := c.NewAccount(t)
	receiver := c.NewAccount(t)
	cRelayer := c.WithSigners(relayer)

	p := depositProof(t, address.Uint160ToString(receiver.ScriptHash()), 1000, 10)

	c.Invoke(t, false, "isUsedProof", p.fingerprint)
	cRelayer.Invoke(t, stackitem.Null{}, "deposit", p.blob, nil)

	// Nothing is minted until the verifier reports back.
	c.Invoke(t, int64(0), "totalSupply")
	c.Invoke(t, false, "isUsedProof", p.fingerprint)

	h := v.Invoke(t, stackitem.Null{}, "complete", true)
	aer := v.CheckHalt(t, h)
	require.Len(t, aer.Events, 3)

	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Null{},
		stackitem.NewByteArray(receiver.ScriptHash().BytesBE()),
		stackitem.Make(990),
	}), aer.Events[0].Item)

	// The fee goes to the sender of the deposit transaction.
	require.Equal(t, "Transfer", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Null{},
		stackitem.NewByteArray(relayer.ScriptHash().BytesBE()),
		stackitem.Make(10),
	}), aer.Events[1].Item)

	require.Equal(t, "Deposit", aer.Events[2].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(p.fingerprint),
		stackitem.NewByteArray(receiver.ScriptHash().BytesBE()),
		stackitem.Make(1000),
		stackitem.Make(10),
		stackitem.NewByteArray(relayer.ScriptHash().BytesBE()),
	}), aer.Events[2].Item)

	c.Invoke(t, int64(990), "balanceOf", receiver.ScriptHash())
	c.Invoke(t, int64(10), "balanceOf", relayer.ScriptHash())
	c.Invoke(t, int64(1000), "totalSupply")
	c.Invoke(t, int64(1000), "totalSupplyHost")
	c.Invoke(t, int64(0), "totalSupplyOrigin")
	c.Invoke(t, true, "isUsedProof", p.fingerprint)

	t.Run("replayed finalization", func(t *testing.T) {
		v.InvokeFail(t, bridge.ErrProofReplay, "complete", true)
	})
	t.Run("replayed deposit", func(t *testing.T) {
		c.InvokeFail(t, bridge.ErrProofReplay, "deposit", p.blob, nil)
	})
}

func TestDepositOrigin(t *testing.T) {
	c, v := newBridgeInvoker(t)

	relayer := c.NewAccount(t)
	target := gethcommon.HexToAddress("0x00000000219ab540356cBB839Cbe05303d7705Fa")
	recipient := "acct:" + hex.EncodeToString(target.Bytes())

	p := depositProof(t, recipient, 500, 25)
	c.Invoke(t, stackitem.Null{}, "deposit", p.blob, relayer.ScriptHash())

	h := v.Invoke(t, stackitem.Null{}, "complete", true)
	aer := v.CheckHalt(t, h)
	require.Len(t, aer.Events, 3)

	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Null{},
		stackitem.NewByteArray(target.Bytes()),
		stackitem.Make(475),
	}), aer.Events[0].Item)

	require.Equal(t, "Deposit", aer.Events[2].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(p.fingerprint),
		stackitem.NewByteArray(target.Bytes()),
		stackitem.Make(500),
		stackitem.Make(25),
		stackitem.NewByteArray(relayer.ScriptHash().BytesBE()),
	}), aer.Events[2].Item)

	c.Invoke(t, int64(475), "balanceOfOrigin", target.Bytes())
	c.Invoke(t, int64(25), "balanceOf", relayer.ScriptHash())
	c.Invoke(t, int64(475), "totalSupplyOrigin")
	c.Invoke(t, int64(25), "totalSupplyHost")
	c.Invoke(t, int64(500), "totalSupply")

	t.Run("mixed-case hex recipient", func(t *testing.T) {
		p := depositProof(t, "vault:"+strings.ToUpper(hex.EncodeToString(target.Bytes())), 40, 0)
		c.Invoke(t, stackitem.Null{}, "deposit", p.blob, relayer.ScriptHash())
		v.Invoke(t, stackitem.Null{}, "complete", true)
		c.Invoke(t, int64(515), "balanceOfOrigin", target.Bytes())
	})

	t.Run("missing relayer", func(t *testing.T) {
		p := depositProof(t, recipient, 500, 25)
		c.InvokeFail(t, bridge.ErrRelayerRequired, "deposit", p.blob, nil)
	})
}

// TestDepositProofRoundtrip drives a deposit with a proof assembled from
// origin-chain header and receipt types instead of synthetic byte strings.
func TestDepositProofRoundtrip(t *testing.T) {
	c, v := newBridgeInvoker(t)
	acc := c.NewAccount(t)

	entry, err := rpcbridge.EncodeDepositedLog(custodianAddress, depositorAddress,
		address.Uint160ToString(acc.ScriptHash()), big.NewInt(777), big.NewInt(7))
	require.NoError(t, err)

	var decoded struct {
		Address gethcommon.Address
		Topics  []gethcommon.Hash
		Data    []byte
	}
	require.NoError(t, rlp.DecodeBytes(entry, &decoded))

	logs := []*types.Log{
		{Address: decoded.Address, Topics: []gethcommon.Hash{{}}, Index: 4},
		{Address: decoded.Address, Topics: decoded.Topics, Data: decoded.Data, Index: 5},
	}
	rcpt := &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21_000,
		Logs:              logs,
	}
	rcpt.Bloom = types.CreateBloom(types.Receipts{rcpt})

	hdr := &types.Header{
		ParentHash: gethcommon.HexToHash("0x01"),
		Number:     big.NewInt(19_000_000),
		Difficulty: big.NewInt(0),
		GasLimit:   30_000_000,
		GasUsed:    21_000,
		Time:       1_700_000_000,
		BaseFee:    big.NewInt(7),
	}

	p, err := rpcbridge.NewProof(hdr, 12, rcpt, 1, nil)
	require.NoError(t, err)
	blob, err := p.Bytes()
	require.NoError(t, err)

	c.Invoke(t, stackitem.Null{}, "deposit", blob, nil)
	v.Invoke(t, stackitem.Null{}, "complete", true)

	c.Invoke(t, int64(770), "balanceOf", acc.ScriptHash())
	c.Invoke(t, int64(7), "balanceOf", c.CommitteeHash)

	fp, err := p.Fingerprint()
	require.NoError(t, err)
	c.Invoke(t, true, "isUsedProof", fp)
}

func TestDepositValidation(t *testing.T) {
	c, _ := newBridgeInvoker(t)
	acc := c.NewAccount(t)
	accAddr := address.Uint160ToString(acc.ScriptHash())

	t.Run("unknown custodian", func(t *testing.T) {
		entry, err := rpcbridge.EncodeDepositedLog(depositorAddress, depositorAddress,
			accAddr, big.NewInt(100), big.NewInt(0))
		require.NoError(t, err)
		p := wrapEntry(t, entry)
		c.InvokeFail(t, bridge.ErrCustodianMismatch, "deposit", p.blob, nil)
	})
	t.Run("fee exceeds amount", func(t *testing.T) {
		p := depositProof(t, accAddr, 10, 11)
		c.InvokeFail(t, bridge.ErrFeeExceedsAmount, "deposit", p.blob, nil)
	})
	t.Run("empty recipient", func(t *testing.T) {
		p := depositProof(t, "", 100, 0)
		c.InvokeFail(t, "empty recipient", "deposit", p.blob, nil)
	})
	t.Run("empty contract tag", func(t *testing.T) {
		p := depositProof(t, ":"+strings.Repeat("ab", 20), 100, 0)
		c.InvokeFail(t, "empty contract tag", "deposit", p.blob, nil)
	})
	t.Run("extra delimiter", func(t *testing.T) {
		p := depositProof(t, "a:b:c", 100, 0)
		c.InvokeFail(t, bridge.ErrRecipient, "deposit", p.blob, nil)
	})
	t.Run("short origin address", func(t *testing.T) {
		p := depositProof(t, "acct:"+strings.Repeat("ab", 19), 100, 0)
		c.InvokeFail(t, bridge.ErrAddress, "deposit", p.blob, nil)
	})
	t.Run("bad hex digit", func(t *testing.T) {
		p := depositProof(t, "acct:"+strings.Repeat("ab", 19)+"gg", 100, 0)
		c.InvokeFail(t, "invalid hex character", "deposit", p.blob, nil)
	})
	t.Run("bad address version", func(t *testing.T) {
		p := depositProof(t, base58.CheckEncode(append([]byte{0x42}, make([]byte, 20)...)), 100, 0)
		c.InvokeFail(t, "invalid host account address", "deposit", p.blob, nil)
	})
	t.Run("truncated host address", func(t *testing.T) {
		p := depositProof(t, base58.CheckEncode(append([]byte{address.Prefix}, make([]byte, 19)...)), 100, 0)
		c.InvokeFail(t, "invalid host account address", "deposit", p.blob, nil)
	})
}

func TestDepositVerifierAuth(t *testing.T) {
	c, v := newBridgeInvoker(t)
	acc := c.NewAccount(t)

	p := depositProof(t, address.Uint160ToString(acc.ScriptHash()), 300, 0)
	c.Invoke(t, stackitem.Null{}, "deposit", p.blob, nil)

	t.Run("direct finalization", func(t *testing.T) {
		c.InvokeFail(t, bridge.ErrPrivilegedCall, "finishDepositHost", []byte{1, 2, 3}, []any{true})
		c.InvokeFail(t, bridge.ErrPrivilegedCall, "finishDepositOrigin", []byte{1, 2, 3}, []any{true})
	})
	t.Run("no results", func(t *testing.T) {
		v.InvokeFail(t, bridge.ErrAsyncResultShape, "completeMalformed", int64(0), true)
	})
	t.Run("extra results", func(t *testing.T) {
		v.InvokeFail(t, bridge.ErrAsyncResultShape, "completeMalformed", int64(2), true)
	})
	t.Run("negative result", func(t *testing.T) {
		v.InvokeFail(t, bridge.ErrVerificationFailed, "complete", false)
		c.Invoke(t, int64(0), "totalSupply")
		c.Invoke(t, false, "isUsedProof", p.fingerprint)
	})

	// A failed verification attempt does not consume the proof.
	v.Invoke(t, stackitem.Null{}, "complete", true)
	c.Invoke(t, int64(300), "balanceOf", acc.ScriptHash())
}

func TestDepositSupplyLimit(t *testing.T) {
	c, v := newBridgeInvoker(t)
	acc := c.NewAccount(t)
	accAddr := address.Uint160ToString(acc.ScriptHash())

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	entry, err := rpcbridge.EncodeDepositedLog(custodianAddress, depositorAddress,
		accAddr, max, big.NewInt(0))
	require.NoError(t, err)
	p := wrapEntry(t, entry)

	c.Invoke(t, stackitem.Null{}, "deposit", p.blob, nil)
	v.Invoke(t, stackitem.Null{}, "complete", true)

	s, err := c.TestInvoke(t, "balanceOf", acc.ScriptHash())
	require.NoError(t, err)
	require.Zero(t, s.Pop().BigInt().Cmp(max))

	// One more token does not fit the origin-chain amount word.
	p2 := depositProof(t, accAddr, 1, 0)
	c.Invoke(t, stackitem.Null{}, "deposit", p2.blob, nil)
	v.InvokeFail(t, bridge.ErrOverflow, "complete", true)
}

func TestUsedProofs(t *testing.T) {
	c, v := newBridgeInvoker(t)
	acc := c.NewAccount(t)
	accAddr := address.Uint160ToString(acc.ScriptHash())

	expected := make(map[string]bool)
	for i := 0; i < 16; i++ {
		p := depositProof(t, accAddr, int64(100+i), 0)
		c.Invoke(t, stackitem.Null{}, "deposit", p.blob, nil)
		v.Invoke(t, stackitem.Null{}, "complete", true)
		expected[string(p.fingerprint)] = true
	}

	s, err := c.TestInvoke(t, "usedProofs")
	require.NoError(t, err)
	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	items := iteratorToArray(iter)
	require.Len(t, items, len(expected))
	for _, itm := range items {
		fp, err := itm.TryBytes()
		require.NoError(t, err)
		require.True(t, expected[string(fp)])
	}

	c.Invoke(t, int64(16*100+120), "totalSupply")
}
