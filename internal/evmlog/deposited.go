// Package evmlog implements decoding of RLP-encoded origin-chain log entries
// carried inside deposit proofs.
package evmlog

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// Deposited is the decoded lock event of the origin-chain custodian.
type Deposited struct {
	// Contract is the 20-byte address of the emitting contract.
	Contract []byte
	// Sender is the 20-byte address of the depositor.
	Sender []byte
	// Recipient is the recipient message embedded in the event.
	Recipient string
	Amount    int
	Fee       int
}

// DepositedSignature is the only origin-chain event accepted by the decoder.
const DepositedSignature = "Deposited(address,string,uint256,uint256)"

const (
	addressLen = 20
	wordLen    = 32

	errBadEntry     = "invalid log entry"
	errBadEventData = "invalid event data"
	errOverflow     = "uint256 word out of range"
)

// DecodeDeposited decodes an RLP-encoded log entry [address, topics, data]
// and checks it against the Deposited event layout. It panics on any
// malformed input.
func DecodeDeposited(entry []byte) Deposited {
	payload, n, e := ReadList(entry)
	if e != "" {
		panic(errBadEntry + ": " + e)
	}
	if n != len(entry) {
		panic(errBadEntry + ": trailing bytes")
	}

	addr, n1, e := ReadString(payload)
	if e != "" {
		panic(errBadEntry + ": " + e)
	}
	if len(addr) != addressLen {
		panic(errBadEntry + ": address must be " + std.Itoa10(addressLen) + " bytes")
	}

	topicsRaw, n2, e := ReadList(payload[n1:])
	if e != "" {
		panic(errBadEntry + ": " + e)
	}

	data, n3, e := ReadString(payload[n1+n2:])
	if e != "" {
		panic(errBadEntry + ": " + e)
	}
	if n1+n2+n3 != len(payload) {
		panic(errBadEntry + ": trailing bytes")
	}

	topics := readTopics(topicsRaw)
	if len(topics) != 2 {
		panic(errBadEntry + ": expected 2 topics, got " + std.Itoa10(len(topics)))
	}
	sig := crypto.Keccak256([]byte(DepositedSignature))
	if string(topics[0]) != string(sig) {
		panic(errBadEntry + ": unknown event signature")
	}

	amount, fee, recipient := decodeEventData(data)

	return Deposited{
		Contract:  addr,
		Sender:    unpadAddress(topics[1]),
		Recipient: recipient,
		Amount:    amount,
		Fee:       fee,
	}
}

func readTopics(raw []byte) [][]byte {
	topics := [][]byte{}
	for len(raw) > 0 {
		t, n, e := ReadString(raw)
		if e != "" {
			panic(errBadEntry + ": " + e)
		}
		if len(t) != wordLen {
			panic(errBadEntry + ": topic must be " + std.Itoa10(wordLen) + " bytes")
		}
		topics = append(topics, t)
		raw = raw[n:]
	}
	return topics
}

func unpadAddress(w []byte) []byte {
	for i := 0; i < wordLen-addressLen; i++ {
		if w[i] != 0 {
			panic(errBadEntry + ": non-zero address padding")
		}
	}
	return w[wordLen-addressLen:]
}

// decodeEventData unpacks the ABI encoding of (string, uint256, uint256)
// non-indexed fields: three head words (string offset, amount, fee) followed
// by the string tail (length word plus zero-padded bytes).
func decodeEventData(data []byte) (int, int, string) {
	if len(data) < 4*wordLen {
		panic(errBadEventData + ": too short")
	}
	offset := wordToInt(data[:wordLen])
	if offset != 3*wordLen {
		panic(errBadEventData + ": unexpected string offset " + std.Itoa10(offset))
	}
	amount := wordToInt(data[wordLen : 2*wordLen])
	fee := wordToInt(data[2*wordLen : 3*wordLen])
	strLen := wordToInt(data[3*wordLen : 4*wordLen])

	tail := data[4*wordLen:]
	if padUp(strLen) != len(tail) {
		panic(errBadEventData + ": bad string padding")
	}
	for i := strLen; i < len(tail); i++ {
		if tail[i] != 0 {
			panic(errBadEventData + ": non-zero string padding")
		}
	}
	return amount, fee, string(tail[:strLen])
}

// wordToInt converts a 32-byte big-endian word to an integer. Words with any
// of the high 16 bytes set do not fit the accepted amount range and are
// rejected.
func wordToInt(w []byte) int {
	for i := 0; i < wordLen/2; i++ {
		if w[i] != 0 {
			panic(errOverflow)
		}
	}
	n := 0
	for i := wordLen / 2; i < wordLen; i++ {
		n = n<<8 | int(w[i])
	}
	return n
}

func padUp(n int) int {
	return (n + wordLen - 1) / wordLen * wordLen
}
