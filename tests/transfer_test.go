package tests

import (
	"testing"

	"github.com/nspcc-dev/bridge-contract/contracts/bridge"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	c, v := newBridgeInvoker(t)

	from := c.NewAccount(t)
	to := c.NewAccount(t)
	cFrom := c.WithSigners(from)

	bridgeMint(t, c, v, from.ScriptHash(), 100)

	h := cFrom.Invoke(t, true, "transfer", from.ScriptHash(), to.ScriptHash(), int64(30), nil)
	aer := cFrom.CheckHalt(t, h)
	require.Len(t, aer.Events, 1)
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(from.ScriptHash().BytesBE()),
		stackitem.NewByteArray(to.ScriptHash().BytesBE()),
		stackitem.Make(30),
	}), aer.Events[0].Item)

	c.Invoke(t, int64(70), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(30), "balanceOf", to.ScriptHash())
	c.Invoke(t, int64(100), "totalSupply")

	t.Run("missing witness", func(t *testing.T) {
		c.Invoke(t, false, "transfer", from.ScriptHash(), to.ScriptHash(), int64(1), nil)
	})
	t.Run("insufficient balance", func(t *testing.T) {
		cFrom.Invoke(t, false, "transfer", from.ScriptHash(), to.ScriptHash(), int64(71), nil)
	})
	t.Run("negative amount", func(t *testing.T) {
		cFrom.InvokeFail(t, "negative amount", "transfer", from.ScriptHash(), to.ScriptHash(), int64(-1), nil)
	})
	t.Run("to contract", func(t *testing.T) {
		recv := deployReceiverContract(t, c.Executor)
		cFrom.Invoke(t, true, "transfer", from.ScriptHash(), recv, int64(5), nil)
		c.Invoke(t, int64(5), "balanceOf", recv)
	})
}

func TestTransferNotify(t *testing.T) {
	c, v := newBridgeInvoker(t)

	from := c.NewAccount(t)
	cFrom := c.WithSigners(from)
	recv := deployReceiverContract(t, c.Executor)
	rInv := c.CommitteeInvoker(recv)

	bridgeMint(t, c, v, from.ScriptHash(), 1000)

	t.Run("to non-contract", func(t *testing.T) {
		other := c.NewAccount(t)
		cFrom.InvokeFail(t, "transfer receiver must be a deployed contract", "transferNotify",
			from.ScriptHash(), other.ScriptHash(), int64(10), nil)
	})
	t.Run("non-positive amount", func(t *testing.T) {
		cFrom.InvokeFail(t, "non-positive amount", "transferNotify",
			from.ScriptHash(), recv, int64(0), nil)
	})
	t.Run("insufficient balance", func(t *testing.T) {
		cFrom.InvokeFail(t, bridge.ErrInsufficientBalance, "transferNotify",
			from.ScriptHash(), recv, int64(1001), nil)
	})

	h := cFrom.Invoke(t, int64(1), "transferNotify", from.ScriptHash(), recv, int64(400), []byte{0xAA})
	aer := cFrom.CheckHalt(t, h)
	require.Len(t, aer.Events, 2)
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, "TransferPending", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.NewByteArray(from.ScriptHash().BytesBE()),
		stackitem.NewByteArray(recv.BytesBE()),
		stackitem.Make(400),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(600), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(400), "balanceOf", recv)

	// The receiver contract got the notice callback.
	s, err := rInv.TestInvoke(t, "get")
	require.NoError(t, err)
	notice := s.Pop().Array()
	require.Len(t, notice, 5)

	b, err := notice[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, c.Hash.BytesBE(), b)
	b, err = notice[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, from.ScriptHash().BytesBE(), b)
	amt, err := notice[2].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 400, amt.Int64())
	id, err := notice[3].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 1, id.Int64())
	b, err = notice[4].TryBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0xAA}, b)

	// The receiver keeps 250, the rest is refunded.
	h = rInv.Invoke(t, stackitem.Null{}, "resolve", int64(250))
	aer = rInv.CheckHalt(t, h)
	require.Len(t, aer.Events, 2)
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, "TransferResolved", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(150),
		stackitem.Make(0),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(750), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(250), "balanceOf", recv)
	c.Invoke(t, int64(1000), "totalSupply")

	t.Run("double resolve", func(t *testing.T) {
		rInv.InvokeFail(t, "unknown pending transfer", "resolve", int64(0))
	})

	cFrom.Invoke(t, int64(2), "transferNotify", from.ScriptHash(), recv, int64(100), nil)

	t.Run("unauthorized resolver", func(t *testing.T) {
		c.InvokeFail(t, "transfer can be resolved only by the receiver", "resolveTransfer", int64(2), int64(0))
	})
	t.Run("used out of bounds", func(t *testing.T) {
		rInv.InvokeFail(t, "used amount out of bounds", "resolve", int64(101))
	})

	rInv.Invoke(t, stackitem.Null{}, "resolve", int64(100))
	c.Invoke(t, int64(650), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(350), "balanceOf", recv)
}

func TestResolveTransferCappedRefund(t *testing.T) {
	c, v := newBridgeInvoker(t)

	from := c.NewAccount(t)
	sink := c.NewAccount(t)
	cFrom := c.WithSigners(from)
	recv := deployReceiverContract(t, c.Executor)
	rInv := c.CommitteeInvoker(recv)

	bridgeMint(t, c, v, from.ScriptHash(), 500)
	cFrom.Invoke(t, int64(1), "transferNotify", from.ScriptHash(), recv, int64(500), nil)

	// The receiver spends most of the tentative credit before resolving.
	rInv.Invoke(t, stackitem.Null{}, "spend", sink.ScriptHash(), int64(450))
	c.Invoke(t, int64(50), "balanceOf", recv)

	h := rInv.Invoke(t, stackitem.Null{}, "resolve", int64(0))
	aer := rInv.CheckHalt(t, h)
	require.Len(t, aer.Events, 2)
	require.Equal(t, "TransferResolved", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(50),
		stackitem.Make(0),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(50), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(0), "balanceOf", recv)
	c.Invoke(t, int64(450), "balanceOf", sink.ScriptHash())
	c.Invoke(t, int64(500), "totalSupply")
}

func TestResolveTransferBurnsOrphanRefund(t *testing.T) {
	c, v := newBridgeInvoker(t)

	from := c.NewAccount(t)
	cFrom := c.WithSigners(from)
	recv := deployReceiverContract(t, c.Executor)
	rInv := c.CommitteeInvoker(recv)

	registerAccount(t, c, from, bridgeStorageFee)
	bridgeMint(t, c, v, from.ScriptHash(), 200)

	cFrom.Invoke(t, int64(1), "transferNotify", from.ScriptHash(), recv, int64(200), nil)

	// The sender leaves the bridge while the transfer is pending, its part
	// of the refund has nowhere to go.
	cFrom.Invoke(t, stackitem.Null{}, "unregister", from.ScriptHash())

	h := rInv.Invoke(t, stackitem.Null{}, "resolve", int64(120))
	aer := rInv.CheckHalt(t, h)
	require.Len(t, aer.Events, 2)
	require.Equal(t, "Transfer", aer.Events[0].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(recv.BytesBE()),
		stackitem.Null{},
		stackitem.Make(80),
	}), aer.Events[0].Item)
	require.Equal(t, "TransferResolved", aer.Events[1].Name)
	require.Equal(t, stackitem.NewArray([]stackitem.Item{
		stackitem.Make(1),
		stackitem.Make(0),
		stackitem.Make(80),
	}), aer.Events[1].Item)

	c.Invoke(t, int64(0), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(120), "balanceOf", recv)
	c.Invoke(t, int64(120), "totalSupply")
}

// TestResolveTransferUnregisteredSender covers a sender that never had a
// registration entry: the refund is paid out normally.
func TestResolveTransferUnregisteredSender(t *testing.T) {
	c, v := newBridgeInvoker(t)

	from := c.NewAccount(t)
	cFrom := c.WithSigners(from)
	recv := deployReceiverContract(t, c.Executor)
	rInv := c.CommitteeInvoker(recv)

	bridgeMint(t, c, v, from.ScriptHash(), 200)
	cFrom.Invoke(t, int64(1), "transferNotify", from.ScriptHash(), recv, int64(200), nil)

	rInv.Invoke(t, stackitem.Null{}, "resolve", int64(120))

	c.Invoke(t, int64(80), "balanceOf", from.ScriptHash())
	c.Invoke(t, int64(120), "balanceOf", recv)
	c.Invoke(t, int64(200), "totalSupply")
}
