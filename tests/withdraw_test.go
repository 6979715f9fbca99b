package tests

import (
	"math/big"
	"testing"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/nspcc-dev/bridge-contract/common"
	"github.com/nspcc-dev/bridge-contract/contracts/bridge"
	rpcbridge "github.com/nspcc-dev/bridge-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

var withdrawTarget = gethcommon.HexToAddress("0x281055afc982d96fAB65b3a49cAc8b878184cb16")

// requireReceipt checks a release receipt returned by a withdrawal method.
func requireReceipt(t *testing.T, itm stackitem.Item, recipient []byte, amount int64) {
	fields, ok := itm.Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, fields, 3)

	rcp, err := fields[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, recipient, rcp)

	amt, err := fields[1].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, amount, amt.Int64())

	cust, err := fields[2].TryBytes()
	require.NoError(t, err)
	require.Equal(t, custodianAddress.Bytes(), cust)
}

func TestWithdraw(t *testing.T) {
	c, v := newBridgeInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)
	bridgeMint(t, c, v, acc.ScriptHash(), 1000)

	tx := cAcc.PrepareInvoke(t, "withdraw", acc.ScriptHash(), withdrawTarget.Bytes(), int64(300))
	cAcc.AddNewBlock(t, tx)
	aer := cAcc.CheckHalt(t, tx.Hash())
	require.Len(t, aer.Stack, 1)
	requireReceipt(t, aer.Stack[0], withdrawTarget.Bytes(), 300)

	require.Len(t, aer.Events, 2)
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
		stackitem.Null{},
		stackitem.Make(300),
	}), aer.Events[0].Item)
	require.Equal(t, "Withdraw", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
		stackitem.NewByteArray(withdrawTarget.Bytes()),
		stackitem.Make(300),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(700), "balanceOf", acc.ScriptHash())
	c.Invoke(t, int64(700), "totalSupply")

	t.Run("insufficient balance", func(t *testing.T) {
		cAcc.InvokeFail(t, bridge.ErrInsufficientBalance, "withdraw",
			acc.ScriptHash(), withdrawTarget.Bytes(), int64(701))
	})
	t.Run("non-positive amount", func(t *testing.T) {
		cAcc.InvokeFail(t, "non-positive amount", "withdraw",
			acc.ScriptHash(), withdrawTarget.Bytes(), int64(0))
	})
	t.Run("short recipient", func(t *testing.T) {
		cAcc.InvokeFail(t, bridge.ErrAddress, "withdraw",
			acc.ScriptHash(), withdrawTarget.Bytes()[:19], int64(1))
	})
	t.Run("missing witness", func(t *testing.T) {
		c.InvokeFail(t, common.ErrWitnessFailed, "withdraw",
			acc.ScriptHash(), withdrawTarget.Bytes(), int64(1))
	})
}

func TestWithdrawOrigin(t *testing.T) {
	c, v := newBridgeInvoker(t)

	priv, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	holder := gethcrypto.PubkeyToAddress(priv.PublicKey)

	bridgeMintOrigin(t, c, v, holder, 1000)

	pub, sig, err := rpcbridge.SignWithdraw(priv, withdrawTarget, custodianAddress, big.NewInt(400))
	require.NoError(t, err)

	tx := c.PrepareInvoke(t, "withdrawOrigin",
		holder.Bytes(), withdrawTarget.Bytes(), int64(400), pub, sig)
	c.AddNewBlock(t, tx)
	aer := c.CheckHalt(t, tx.Hash())
	require.Len(t, aer.Stack, 1)
	requireReceipt(t, aer.Stack[0], withdrawTarget.Bytes(), 400)

	require.Len(t, aer.Events, 2)
	require.Equal(t, "Withdraw", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(holder.Bytes()),
		stackitem.NewByteArray(withdrawTarget.Bytes()),
		stackitem.Make(400),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(600), "balanceOfOrigin", holder.Bytes())
	c.Invoke(t, int64(600), "totalSupplyOrigin")

	t.Run("wrong amount", func(t *testing.T) {
		c.InvokeFail(t, bridge.ErrSignatureInvalid, "withdrawOrigin",
			holder.Bytes(), withdrawTarget.Bytes(), int64(401), pub, sig)
	})
	t.Run("foreign key", func(t *testing.T) {
		priv2, err := gethcrypto.GenerateKey()
		require.NoError(t, err)

		// A valid signature of the canonical message made with a key that
		// does not hash to the declared sender.
		msg, err := rpcbridge.WithdrawMessage(holder, withdrawTarget, custodianAddress, big.NewInt(100))
		require.NoError(t, err)
		rsv, err := gethcrypto.Sign(gethcrypto.Keccak256(msg), priv2)
		require.NoError(t, err)

		c.InvokeFail(t, "public key does not match sender", "withdrawOrigin",
			holder.Bytes(), withdrawTarget.Bytes(), int64(100),
			gethcrypto.FromECDSAPub(&priv2.PublicKey), rsv[:64])
	})
	t.Run("compressed key", func(t *testing.T) {
		c.InvokeFail(t, "expected uncompressed public key", "withdrawOrigin",
			holder.Bytes(), withdrawTarget.Bytes(), int64(400),
			gethcrypto.CompressPubkey(&priv.PublicKey), sig)
	})
	t.Run("short signature", func(t *testing.T) {
		c.InvokeFail(t, "expected 64-byte signature", "withdrawOrigin",
			holder.Bytes(), withdrawTarget.Bytes(), int64(400), pub, sig[:63])
	})
	t.Run("insufficient balance", func(t *testing.T) {
		pubB, sigB, err := rpcbridge.SignWithdraw(priv, withdrawTarget, custodianAddress, big.NewInt(10_000))
		require.NoError(t, err)
		c.InvokeFail(t, bridge.ErrInsufficientBalance, "withdrawOrigin",
			holder.Bytes(), withdrawTarget.Bytes(), int64(10_000), pubB, sigB)
	})
}
