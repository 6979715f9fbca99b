package verifier

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type Request struct {
	Bridge   interop.Hash160
	Callback string
	Token    []byte
	Proof    []byte
}

func VerifyLogEntry(callback string, token []byte, proof []byte) {
	storage.Put(storage.GetContext(), "key", std.Serialize(Request{
		Bridge:   runtime.GetCallingScriptHash(),
		Callback: callback,
		Token:    token,
		Proof:    proof,
	}))
}

// Complete delivers the verification result for the last stored request.
func Complete(ok bool) {
	r := Get()
	contract.Call(r.Bridge, r.Callback, contract.All, r.Token, []bool{ok})
}

// CompleteMalformed delivers count results instead of the single expected
// one.
func CompleteMalformed(count int, ok bool) {
	r := Get()
	results := []bool{}
	for i := 0; i < count; i++ {
		results = append(results, ok)
	}
	contract.Call(r.Bridge, r.Callback, contract.All, r.Token, results)
}

func Get() Request {
	val := storage.Get(storage.GetReadOnlyContext(), "key")
	if val == nil {
		panic("no stored request")
	}
	return std.Deserialize(val.([]byte)).(Request)
}
