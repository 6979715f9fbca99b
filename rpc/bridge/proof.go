package bridge

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DepositedEventSignature is the signature of the custodian contract event
// that funds bridge deposits.
const DepositedEventSignature = "Deposited(address,string,uint256,uint256)"

// Proof carries an origin-chain log entry together with everything needed to
// verify its inclusion in a finalized block. It is submitted with the deposit
// method in the serialized form produced by [Proof.Bytes].
type Proof struct {
	LogIndex     int64
	LogEntryData []byte
	ReceiptIndex int64
	ReceiptData  []byte
	HeaderData   []byte
	Path         [][]byte
}

// NewProof assembles a deposit proof for the log at logIndex of the receipt
// at receiptIndex of the given block. The Merkle path from the receipt to the
// receipts root is supplied by the caller.
func NewProof(header *types.Header, receiptIndex int, receipt *types.Receipt, logIndex int, path [][]byte) (*Proof, error) {
	if logIndex < 0 || logIndex >= len(receipt.Logs) {
		return nil, fmt.Errorf("log index %d out of range", logIndex)
	}

	log := receipt.Logs[logIndex]
	logData, err := rlp.EncodeToBytes(&logEntry{
		Address: log.Address,
		Topics:  log.Topics,
		Data:    log.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("encode log entry: %w", err)
	}

	receiptData, err := receipt.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("encode receipt: %w", err)
	}

	headerData, err := rlp.EncodeToBytes(header)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	return &Proof{
		LogIndex:     int64(logIndex),
		LogEntryData: logData,
		ReceiptIndex: int64(receiptIndex),
		ReceiptData:  receiptData,
		HeaderData:   headerData,
		Path:         path,
	}, nil
}

// Bytes returns the serialized form of the proof accepted by the deposit
// method.
func (p *Proof) Bytes() ([]byte, error) {
	path := make([]stackitem.Item, len(p.Path))
	for i := range p.Path {
		path[i] = stackitem.NewByteArray(p.Path[i])
	}
	return stackitem.Serialize(stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(p.LogIndex),
		stackitem.NewByteArray(p.LogEntryData),
		stackitem.Make(p.ReceiptIndex),
		stackitem.NewByteArray(p.ReceiptData),
		stackitem.NewByteArray(p.HeaderData),
		stackitem.NewArray(path),
	}))
}

// Fingerprint returns the replay-protection key the contract derives from
// the proof. Two proofs of the same event always produce the same
// fingerprint regardless of their Merkle paths.
func (p *Proof) Fingerprint() ([]byte, error) {
	data, err := stackitem.Serialize(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(p.HeaderData),
		stackitem.Make(p.ReceiptIndex),
		stackitem.Make(p.LogIndex),
	}))
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(data)
	return h[:], nil
}

// logEntry is the consensus RLP form of a receipt log.
type logEntry struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// EncodeDepositedLog produces the RLP form of the custodian's Deposited
// event as it appears in an origin-chain receipt.
func EncodeDepositedLog(custodian, sender common.Address, recipient string, amount, fee *big.Int) ([]byte, error) {
	if amount.Sign() < 0 || amount.BitLen() > 128 {
		return nil, errors.New("amount out of range")
	}
	if fee.Sign() < 0 || fee.BitLen() > 128 {
		return nil, errors.New("fee out of range")
	}

	data := make([]byte, 0, 4*common.HashLength+len(recipient))
	data = append(data, common.LeftPadBytes(big.NewInt(3*common.HashLength).Bytes(), common.HashLength)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), common.HashLength)...)
	data = append(data, common.LeftPadBytes(fee.Bytes(), common.HashLength)...)
	data = append(data, common.LeftPadBytes(big.NewInt(int64(len(recipient))).Bytes(), common.HashLength)...)
	if pad := padUp(len(recipient)); pad > 0 {
		data = append(data, common.RightPadBytes([]byte(recipient), pad)...)
	}

	return rlp.EncodeToBytes(&logEntry{
		Address: custodian,
		Topics: []common.Hash{
			crypto.Keccak256Hash([]byte(DepositedEventSignature)),
			common.BytesToHash(common.LeftPadBytes(sender.Bytes(), common.HashLength)),
		},
		Data: data,
	})
}

func padUp(n int) int {
	return (n + common.HashLength - 1) / common.HashLength * common.HashLength
}
