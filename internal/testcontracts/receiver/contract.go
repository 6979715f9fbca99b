package receiver

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Notice struct {
	Bridge interop.Hash160
	From   interop.Hash160
	Amount int
	ID     int
	Data   any
}

func OnBridgeTransfer(from interop.Hash160, amount int, id int, data any) {
	storage.Put(storage.GetContext(), "key", std.Serialize(Notice{
		Bridge: runtime.GetCallingScriptHash(),
		From:   from,
		Amount: amount,
		ID:     id,
		Data:   data,
	}))
}

func OnNEP17Payment(from interop.Hash160, amount int, data any) {
}

// Resolve settles the last noticed transfer keeping the used part.
func Resolve(used int) {
	n := Get()
	contract.Call(n.Bridge, "resolveTransfer", contract.All, n.ID, used)
}

// Spend moves part of the contract's bridged balance to another account.
func Spend(to interop.Hash160, amount int) {
	n := Get()
	contract.Call(n.Bridge, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), to, amount, nil)
}

func Get() Notice {
	val := storage.Get(storage.GetReadOnlyContext(), "key")
	if val == nil {
		panic("no stored notice")
	}
	return std.Deserialize(val.([]byte)).(Notice)
}
