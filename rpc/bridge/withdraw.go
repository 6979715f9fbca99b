package bridge

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// WithdrawMessageDomain prefixes every signable withdrawal message. It must
// match the domain used by the deployed contract.
const WithdrawMessageDomain = "NeoBridgeWithdraw"

// WithdrawMessage builds the canonical message whose secp256k1 signature
// authorizes the withdrawOrigin method to burn amount from sender's balance
// in favor of recipient.
func WithdrawMessage(sender, recipient, custodian common.Address, amount *big.Int) ([]byte, error) {
	if amount.Sign() <= 0 || amount.BitLen() > 128 {
		return nil, errors.New("amount out of range")
	}

	msg := make([]byte, 0, len(WithdrawMessageDomain)+3*common.AddressLength+common.HashLength)
	msg = append(msg, WithdrawMessageDomain...)
	msg = append(msg, sender.Bytes()...)
	msg = append(msg, recipient.Bytes()...)
	msg = append(msg, custodian.Bytes()...)
	msg = append(msg, common.LeftPadBytes(amount.Bytes(), common.HashLength)...)
	return msg, nil
}

// SignWithdraw signs the canonical withdrawal message with the given key and
// returns the uncompressed public key and the detached 64-byte signature
// expected by the withdrawOrigin method. The sender address is derived from
// the key.
func SignWithdraw(priv *ecdsa.PrivateKey, recipient, custodian common.Address, amount *big.Int) (pub, sig []byte, err error) {
	sender := crypto.PubkeyToAddress(priv.PublicKey)
	msg, err := WithdrawMessage(sender, recipient, custodian, amount)
	if err != nil {
		return nil, nil, err
	}

	rsv, err := crypto.Sign(crypto.Keccak256(msg), priv)
	if err != nil {
		return nil, nil, err
	}
	// Drop the recovery byte, the contract gets the public key explicitly.
	return crypto.FromECDSAPub(&priv.PublicKey), rsv[:64], nil
}
