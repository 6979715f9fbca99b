package bridge

import (
	"github.com/nspcc-dev/bridge-contract/common"
	"github.com/nspcc-dev/bridge-contract/internal/evmlog"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Token holds all token info.
	Token struct {
		// Ticker symbol
		Symbol string
		// Amount of decimals
		Decimals int
	}

	// Proof is the content of a deposit proof. It travels serialized in the
	// Neo binary format and is passed through to the verifier contract
	// untouched.
	Proof struct {
		LogIndex     int
		LogEntryData []byte
		ReceiptIndex int
		ReceiptData  []byte
		HeaderData   []byte
		Path         [][]byte
	}

	// Receipt authorizes the release of locked funds on the origin chain.
	// It is returned by both withdrawal methods and consumed off-chain.
	Receipt struct {
		Recipient []byte
		Amount    int
		Custodian []byte
	}

	// hostDeposit is the continuation of a deposit targeting a host account.
	// It is serialized into the verification request and comes back with the
	// callback.
	hostDeposit struct {
		Receiver    interop.Hash160
		Amount      int
		Fee         int
		Minter      interop.Hash160
		Fingerprint []byte
	}

	// originDeposit is the continuation of a deposit targeting a raw
	// origin-chain address.
	originDeposit struct {
		Receiver    []byte
		Amount      int
		Fee         int
		Relayer     interop.Hash160
		Fingerprint []byte
	}

	// pendingTransfer is a two-phase transfer awaiting receiver resolution.
	pendingTransfer struct {
		From   interop.Hash160
		To     interop.Hash160
		Amount int
		// FromRegistered remembers whether the sender had a storage credit
		// entry when the transfer started. A refund to a sender that has
		// unregistered since is burned instead.
		FromRegistered bool
	}

	// recipientTarget is the parsed destination of a deposit.
	recipientTarget struct {
		IsOrigin bool
		Host     interop.Hash160
		Tag      string
		Origin   []byte
	}
)

const (
	symbol   = "bETH"
	decimals = 18

	ownerKey        = 'o'
	verifierKey     = 'v'
	custodianKey    = 'c'
	storageFeeKey   = 'f'
	supplyHostKey   = 's'
	supplyOriginKey = 'S'
	transferSeqKey  = 't'

	hostPrefix    = 'h'
	originPrefix  = 'e'
	proofPrefix   = 'p'
	pendingPrefix = 'n'
	creditPrefix  = 'r'

	// withdrawDomain separates bridge withdrawal messages from any other
	// signable payload. Changing it invalidates every outstanding signature.
	withdrawDomain = "NeoBridgeWithdraw"

	// finishHostMethod and finishOriginMethod are callback names passed to
	// the verifier with each verification request.
	finishHostMethod   = "finishDepositHost"
	finishOriginMethod = "finishDepositOrigin"
)

const (
	// ErrCustodianMismatch is thrown when the log entry was emitted by a
	// contract other than the configured custodian.
	ErrCustodianMismatch = "event emitted by unknown custodian"
	// ErrFeeExceedsAmount is thrown when the deposit fee is bigger than the
	// deposited amount.
	ErrFeeExceedsAmount = "fee exceeds deposit amount"
	// ErrVerificationFailed is thrown when the verifier reports an invalid
	// proof.
	ErrVerificationFailed = "proof verification failed"
	// ErrProofReplay is thrown when the deposit proof has already funded a
	// mint.
	ErrProofReplay = "proof has already been used"
	// ErrPrivilegedCall is thrown when a deposit finalization method is
	// invoked by anyone but the verifier.
	ErrPrivilegedCall = "caller is not the verifier"
	// ErrAsyncResultShape is thrown when the verifier delivers anything but
	// a single verification result.
	ErrAsyncResultShape = "unexpected verification result shape"
	// ErrSignatureInvalid is thrown when an origin withdrawal signature does
	// not match the canonical message or its declared signer.
	ErrSignatureInvalid = "invalid withdrawal signature"
	// ErrInsufficientBalance is thrown when a burn exceeds the current
	// balance of the source key.
	ErrInsufficientBalance = "insufficient balance"
	// ErrOverflow is thrown when an amount or a supply counter leaves the
	// accepted range.
	ErrOverflow = "amount out of range"
	// ErrRelayerRequired is thrown when a deposit targeting an origin
	// address comes without a relayer account for the fee.
	ErrRelayerRequired = "relayer account required"
	// ErrRecipient is thrown when the recipient message embedded in the
	// deposit event cannot be parsed.
	ErrRecipient = "malformed recipient message"
	// ErrAddress is thrown when an origin-chain address is not exactly 20
	// bytes.
	ErrAddress = "origin address must be 20 bytes"
)

var (
	token Token

	// supplyLimit bounds every balance and supply counter to 2^128, the
	// range of an origin-chain amount word.
	supplyLimit int
)

func createToken() Token {
	return Token{
		Symbol:   symbol,
		Decimals: decimals,
	}
}

func init() {
	token = createToken()
	supplyLimit = convert.ToInteger(append(make([]byte, 16), 0x01))
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner      interop.Hash160
		verifier   interop.Hash160
		custodian  []byte
		storageFee int
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect owner script hash")
	}
	if len(args.verifier) != interop.Hash160Len {
		panic("incorrect verifier script hash")
	}
	if len(args.custodian) != interop.Hash160Len {
		panic(ErrAddress)
	}
	if args.storageFee < 0 {
		panic("negative storage fee")
	}

	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, verifierKey, args.verifier)
	storage.Put(ctx, custodianKey, args.custodian)
	storage.Put(ctx, storageFeeKey, args.storageFee)

	runtime.Log("bridge contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	owner := storage.Get(ctx, ownerKey).(interop.Hash160)
	common.CheckOwnerWitness(owner)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bridge contract updated")
}

// Symbol is a NEP-17 standard method that returns the bridged token symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of bridged
// balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the total amount of
// bridged tokens across both namespaces.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return getIntStorage(ctx, supplyHostKey) + getIntStorage(ctx, supplyOriginKey)
}

// TotalSupplyHost returns the amount of bridged tokens held by host accounts.
func TotalSupplyHost() int {
	return getIntStorage(storage.GetReadOnlyContext(), supplyHostKey)
}

// TotalSupplyOrigin returns the amount of bridged tokens held by raw
// origin-chain addresses.
func TotalSupplyOrigin() int {
	return getIntStorage(storage.GetReadOnlyContext(), supplyOriginKey)
}

// BalanceOf is a NEP-17 standard method that returns the bridged token
// balance of the specified host account.
func BalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	ctx := storage.GetReadOnlyContext()
	return getIntStorage(ctx, append([]byte{hostPrefix}, account...))
}

// BalanceOfOrigin returns the bridged token balance of the specified 20-byte
// origin-chain address.
func BalanceOfOrigin(addr []byte) int {
	checkOriginAddress(addr)
	ctx := storage.GetReadOnlyContext()
	return getIntStorage(ctx, append([]byte{originPrefix}, addr...))
}

// Transfer is a NEP-17 standard method that transfers bridged tokens between
// host accounts. It can be invoked only by the account owner.
//
// It produces a Transfer notification and calls onNEP17Payment on contract
// receivers.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount < 0 {
		panic("negative amount")
	}
	if !runtime.CheckWitness(from) {
		runtime.Log("transfer without sender witness")
		return false
	}

	ctx := storage.GetContext()
	if !subHostBalance(ctx, from, amount) {
		runtime.Log("not enough assets")
		return false
	}
	addHostBalance(ctx, to, amount)
	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
	return true
}

// TransferNotify transfers bridged tokens from a host account to a contract
// and notifies the receiver. The receiver decides how much of the transfer it
// keeps by calling ResolveTransfer with the returned id; until then the full
// amount is tentatively credited to it.
//
// It produces Transfer and TransferPending notifications.
func TransferNotify(from, to interop.Hash160, amount int, data any) int {
	if len(from) != interop.Hash160Len || len(to) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}
	common.CheckWitness(from)

	if management.GetContract(to) == nil {
		panic("transfer receiver must be a deployed contract")
	}

	ctx := storage.GetContext()
	if !subHostBalance(ctx, from, amount) {
		panic(ErrInsufficientBalance)
	}
	addHostBalance(ctx, to, amount)

	id := getIntStorage(ctx, transferSeqKey) + 1
	storage.Put(ctx, transferSeqKey, id)
	common.SetSerialized(ctx, pendingKey(id), pendingTransfer{
		From:           from,
		To:             to,
		Amount:         amount,
		FromRegistered: isRegistered(ctx, from),
	})

	runtime.Notify("Transfer", from, to, amount)
	runtime.Notify("TransferPending", id, from, to, amount)

	contract.Call(to, "onBridgeTransfer", contract.All, from, amount, id, data)
	return id
}

// ResolveTransfer settles a pending two-phase transfer. It can be invoked
// only by the transfer receiver. The unused part of the transfer is refunded
// to the sender, capped by the receiver's remaining balance; a refund owed to
// a sender that has unregistered since the transfer started is burned.
//
// It produces Transfer and TransferResolved notifications.
func ResolveTransfer(id int, used int) {
	ctx := storage.GetContext()
	key := pendingKey(id)
	data := storage.Get(ctx, key)
	if data == nil {
		panic("unknown pending transfer")
	}
	p := std.Deserialize(data.([]byte)).(pendingTransfer)

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(p.To) && !runtime.CheckWitness(p.To) {
		panic("transfer can be resolved only by the receiver")
	}
	if used < 0 || used > p.Amount {
		panic("used amount out of bounds")
	}

	refund := p.Amount - used
	available := getIntStorage(ctx, append([]byte{hostPrefix}, p.To...))
	if refund > available {
		// The receiver has already spent part of the tentative credit, the
		// shortfall stays with whoever holds it now.
		refund = available
	}

	burned := 0
	if refund > 0 {
		subHostBalance(ctx, p.To, refund)
		if p.FromRegistered && !isRegistered(ctx, p.From) {
			dropSupply(ctx, supplyHostKey, refund)
			burned = refund
			runtime.Notify("Transfer", p.To, nil, refund)
			runtime.Log("refund burned: sender account is gone")
		} else {
			addHostBalance(ctx, p.From, refund)
			runtime.Notify("Transfer", p.To, p.From, refund)
		}
	}

	storage.Delete(ctx, key)
	runtime.Notify("TransferResolved", id, refund-burned, burned)
}

// Deposit starts the deposit protocol for a proof of an origin-chain lock
// event. The method validates the embedded log entry and hands the proof to
// the verifier together with a continuation; nothing is persisted until the
// verifier reports back through a finalization method. Anyone can invoke it.
//
// The relayer account receives the deposit fee when the recipient message
// targets a raw origin-chain address; for host-account deposits the fee goes
// to the transaction sender and relayer may be empty.
func Deposit(proof []byte, relayer interop.Hash160) {
	p := std.Deserialize(proof).(Proof)
	event := evmlog.DecodeDeposited(p.LogEntryData)

	ctx := storage.GetReadOnlyContext()
	custodian := storage.Get(ctx, custodianKey).([]byte)
	if string(event.Contract) != string(custodian) {
		panic(ErrCustodianMismatch)
	}
	if event.Fee > event.Amount {
		panic(ErrFeeExceedsAmount)
	}

	fingerprint := proofFingerprint(p)
	if storage.Get(ctx, append([]byte{proofPrefix}, fingerprint...)) != nil {
		panic(ErrProofReplay)
	}

	target := parseRecipient(event.Recipient)

	var callback string
	var continuation []byte
	if target.IsOrigin {
		if relayer == nil || len(relayer) != interop.Hash160Len {
			panic(ErrRelayerRequired)
		}
		callback = finishOriginMethod
		continuation = std.Serialize(originDeposit{
			Receiver:    target.Origin,
			Amount:      event.Amount,
			Fee:         event.Fee,
			Relayer:     relayer,
			Fingerprint: fingerprint,
		})
	} else {
		tx := runtime.GetScriptContainer()
		callback = finishHostMethod
		continuation = std.Serialize(hostDeposit{
			Receiver:    target.Host,
			Amount:      event.Amount,
			Fee:         event.Fee,
			Minter:      tx.Sender,
			Fingerprint: fingerprint,
		})
	}

	verifier := storage.Get(ctx, verifierKey).(interop.Hash160)
	contract.Call(verifier, "verifyLogEntry", contract.All, callback, continuation, proof)
	runtime.Log("deposit verification requested")
}

// FinishDepositHost finalizes a deposit targeting a host account. It can be
// invoked only by the verifier and expects exactly one verification result.
//
// It produces Transfer and Deposit notifications.
func FinishDepositHost(continuation []byte, results []bool) {
	ctx := storage.GetContext()
	checkVerifierCaller(ctx)
	checkVerificationResults(results)

	c := std.Deserialize(continuation).(hostDeposit)
	recordProof(ctx, c.Fingerprint)
	mintHost(ctx, c.Receiver, c.Amount-c.Fee)
	if c.Fee > 0 {
		mintHost(ctx, c.Minter, c.Fee)
	}

	runtime.Notify("Deposit", c.Fingerprint, []byte(c.Receiver), c.Amount, c.Fee, c.Minter)
	runtime.Log("deposit finalized")
}

// FinishDepositOrigin finalizes a deposit targeting a raw origin-chain
// address. It can be invoked only by the verifier and expects exactly one
// verification result.
//
// It produces Transfer and Deposit notifications.
func FinishDepositOrigin(continuation []byte, results []bool) {
	ctx := storage.GetContext()
	checkVerifierCaller(ctx)
	checkVerificationResults(results)

	c := std.Deserialize(continuation).(originDeposit)
	recordProof(ctx, c.Fingerprint)
	mintOrigin(ctx, c.Receiver, c.Amount-c.Fee)
	if c.Fee > 0 {
		mintHost(ctx, c.Relayer, c.Fee)
	}

	runtime.Notify("Deposit", c.Fingerprint, c.Receiver, c.Amount, c.Fee, c.Relayer)
	runtime.Log("deposit finalized")
}

// Withdraw burns bridged tokens of a host account and returns a receipt
// authorizing the release of the corresponding funds on the origin chain.
// It can be invoked only by the account owner.
//
// It produces Transfer and Withdraw notifications.
func Withdraw(account interop.Hash160, recipient []byte, amount int) Receipt {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	checkOriginAddress(recipient)
	if amount <= 0 {
		panic("non-positive amount")
	}
	common.CheckWitness(account)

	ctx := storage.GetContext()
	burnHost(ctx, account, amount)

	runtime.Notify("Withdraw", []byte(account), recipient, amount)
	return Receipt{
		Recipient: recipient,
		Amount:    amount,
		Custodian: storage.Get(ctx, custodianKey).([]byte),
	}
}

// WithdrawOrigin burns bridged tokens held by a raw origin-chain address and
// returns a release receipt. The burn is authorized by a detached secp256k1
// signature of the canonical withdrawal message made by the balance owner;
// pub is the uncompressed public key of the signer and must hash to sender.
// Anyone holding a valid signature can invoke it.
//
// It produces Transfer and Withdraw notifications.
func WithdrawOrigin(sender, recipient []byte, amount int, pub, sig []byte) Receipt {
	checkOriginAddress(sender)
	checkOriginAddress(recipient)
	if amount <= 0 {
		panic("non-positive amount")
	}
	if len(pub) != interop.PublicKeyUncompressedLen || pub[0] != 0x04 {
		panic(ErrSignatureInvalid + ": expected uncompressed public key")
	}
	if len(sig) != interop.SignatureLen {
		panic(ErrSignatureInvalid + ": expected 64-byte signature")
	}

	ctx := storage.GetContext()
	custodian := storage.Get(ctx, custodianKey).([]byte)

	msg := withdrawMessage(sender, recipient, custodian, amount)
	if !crypto.VerifyWithECDsa(msg, pub, sig, crypto.Secp256k1Keccak256) {
		panic(ErrSignatureInvalid)
	}
	keyHash := crypto.Keccak256(pub[1:])
	if string(keyHash[12:]) != string(sender) {
		panic(ErrSignatureInvalid + ": public key does not match sender")
	}

	burnOrigin(ctx, sender, amount)

	runtime.Notify("Withdraw", sender, recipient, amount)
	return Receipt{
		Recipient: recipient,
		Amount:    amount,
		Custodian: custodian,
	}
}

// IsUsedProof returns true if the given proof fingerprint has already funded
// a mint.
func IsUsedProof(fingerprint []byte) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{proofPrefix}, fingerprint...)) != nil
}

// UsedProofs returns an iterator over all consumed proof fingerprints. The
// set only ever grows.
func UsedProofs() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{proofPrefix}, storage.KeysOnly|storage.RemovePrefix)
}

// Custodian returns the 20-byte origin-chain address whose lock events fund
// deposits.
func Custodian() []byte {
	return storage.Get(storage.GetReadOnlyContext(), custodianKey).([]byte)
}

// Verifier returns the script hash of the trusted proof verifier.
func Verifier() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), verifierKey).(interop.Hash160)
}

// MinStorageBalance returns the amount of GAS required to register an
// account.
func MinStorageBalance() int {
	return storage.Get(storage.GetReadOnlyContext(), storageFeeKey).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// GAS sent to the bridge registers the account passed in data (the sender
// when data is empty) and is credited against its storage balance. The first
// payment must cover MinStorageBalance.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("only GAS is accepted")
	}
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}

	var rcv interop.Hash160
	if data != nil {
		rcv = data.(interop.Hash160)
	}
	switch len(rcv) {
	case interop.Hash160Len:
	case 0:
		rcv = from
	default:
		common.AbortWithMessage("invalid data argument, expected Hash160")
	}

	ctx := storage.GetContext()
	key := append([]byte{creditPrefix}, rcv...)
	credit := getIntStorage(ctx, key)
	if credit == 0 && amount < storage.Get(ctx, storageFeeKey).(int) {
		common.AbortWithMessage("insufficient initial storage payment")
	}
	storage.Put(ctx, key, credit+amount)

	runtime.Log("storage credit accepted")
}

// StorageBalanceOf returns the GAS credit of the specified account.
func StorageBalanceOf(account interop.Hash160) int {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	ctx := storage.GetReadOnlyContext()
	return getIntStorage(ctx, append([]byte{creditPrefix}, account...))
}

// StorageWithdraw pays back part of the account's GAS credit. While the
// account holds a token balance its credit may not drop below
// MinStorageBalance. It can be invoked only by the account owner.
func StorageWithdraw(account interop.Hash160, amount int) {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}
	common.CheckWitness(account)

	ctx := storage.GetContext()
	key := append([]byte{creditPrefix}, account...)
	credit := getIntStorage(ctx, key)

	available := credit
	if getIntStorage(ctx, append([]byte{hostPrefix}, account...)) > 0 {
		available = credit - storage.Get(ctx, storageFeeKey).(int)
	}
	if amount > available {
		panic("insufficient storage credit")
	}

	if credit == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, credit-amount)
	}

	if !gas.Transfer(runtime.GetExecutingScriptHash(), account, amount, nil) {
		panic("failed to transfer GAS")
	}
	runtime.Log("storage credit withdrawn")
}

// Unregister deletes the account's registration entry and refunds its whole
// GAS credit. The account must not hold any bridged tokens. It can be
// invoked only by the account owner.
func Unregister(account interop.Hash160) {
	if len(account) != interop.Hash160Len {
		panic("invalid account")
	}
	common.CheckWitness(account)

	ctx := storage.GetContext()
	if getIntStorage(ctx, append([]byte{hostPrefix}, account...)) != 0 {
		panic("account still holds tokens")
	}

	key := append([]byte{creditPrefix}, account...)
	credit := getIntStorage(ctx, key)
	if credit == 0 {
		panic("account is not registered")
	}
	storage.Delete(ctx, key)

	if !gas.Transfer(runtime.GetExecutingScriptHash(), account, credit, nil) {
		panic("failed to transfer GAS")
	}
	runtime.Log("account unregistered")
}

// parseRecipient splits the recipient message embedded in a deposit event.
// A message without a delimiter is a base58check host account address; a
// message of the form "tag:hex" targets a raw origin-chain address.
func parseRecipient(msg string) recipientTarget {
	parts := std.StringSplit(msg, ":")
	switch len(parts) {
	case 1:
		if len(parts[0]) == 0 {
			panic(ErrRecipient + ": empty recipient")
		}
		return recipientTarget{Host: decodeHostAddress(parts[0])}
	case 2:
		if len(parts[0]) == 0 {
			panic(ErrRecipient + ": empty contract tag")
		}
		return recipientTarget{
			IsOrigin: true,
			Tag:      parts[0],
			Origin:   decodeHexAddress(parts[1]),
		}
	default:
		panic(ErrRecipient)
	}
}

// decodeHostAddress decodes a base58check Neo address into its script hash.
func decodeHostAddress(s string) interop.Hash160 {
	data := std.Base58CheckDecode(s)
	if len(data) != interop.Hash160Len+1 || data[0] != runtime.GetAddressVersion() {
		panic(ErrRecipient + ": invalid host account address")
	}
	return interop.Hash160(data[1:])
}

// decodeHexAddress decodes exactly 40 hex characters into a 20-byte
// origin-chain address.
func decodeHexAddress(s string) []byte {
	if len(s) != 2*interop.Hash160Len {
		panic(ErrAddress)
	}
	addr := make([]byte, interop.Hash160Len)
	for i := 0; i < interop.Hash160Len; i++ {
		addr[i] = byte(hexNibble(int(s[2*i]))<<4 | hexNibble(int(s[2*i+1])))
	}
	return addr
}

func hexNibble(c int) int {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		panic(ErrRecipient + ": invalid hex character")
	}
}

func checkOriginAddress(addr []byte) {
	if len(addr) != interop.Hash160Len {
		panic(ErrAddress)
	}
}

// proofFingerprint derives the replay-protection key of a proof from the
// block header and the position of the log entry in it. The Merkle path is
// deliberately excluded: the same event must not be consumable twice under
// different paths.
func proofFingerprint(p Proof) []byte {
	return crypto.Sha256(std.Serialize([]any{p.HeaderData, p.ReceiptIndex, p.LogIndex}))
}

func checkVerifierCaller(ctx storage.Context) {
	verifier := storage.Get(ctx, verifierKey).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(verifier) {
		panic(ErrPrivilegedCall)
	}
}

func checkVerificationResults(results []bool) {
	if len(results) != 1 {
		panic(ErrAsyncResultShape)
	}
	if !results[0] {
		panic(ErrVerificationFailed)
	}
}

// recordProof consumes a proof fingerprint. It runs before any mint so that
// a duplicate finalization cannot fund a second mint.
func recordProof(ctx storage.Context, fingerprint []byte) {
	key := append([]byte{proofPrefix}, fingerprint...)
	if storage.Get(ctx, key) != nil {
		panic(ErrProofReplay)
	}
	storage.Put(ctx, key, []byte{})
}

// withdrawMessage builds the canonical signable form of a withdrawal. Field
// order and the fixed-width amount encoding are normative; any change makes
// previously issued signatures invalid.
func withdrawMessage(sender, recipient, custodian []byte, amount int) []byte {
	msg := []byte(withdrawDomain)
	msg = append(msg, sender...)
	msg = append(msg, recipient...)
	msg = append(msg, custodian...)
	msg = append(msg, amountWord(amount)...)
	return msg
}

// amountWord encodes a non-negative amount as a 32-byte big-endian word.
func amountWord(amount int) []byte {
	w := make([]byte, 32)
	for i := 31; i >= 0; i-- {
		w[i] = byte(amount & 0xFF) // plain byte() does not truncate in the VM
		amount = amount >> 8
	}
	if amount != 0 {
		panic(ErrOverflow)
	}
	return w
}

func mintHost(ctx storage.Context, acc interop.Hash160, amount int) {
	if amount == 0 {
		return
	}
	raiseSupply(ctx, supplyHostKey, amount)
	addHostBalance(ctx, acc, amount)
	runtime.Notify("Transfer", nil, acc, amount)
}

func mintOrigin(ctx storage.Context, addr []byte, amount int) {
	if amount == 0 {
		return
	}
	raiseSupply(ctx, supplyOriginKey, amount)
	key := append([]byte{originPrefix}, addr...)
	storage.Put(ctx, key, getIntStorage(ctx, key)+amount)
	runtime.Notify("Transfer", nil, addr, amount)
}

func burnHost(ctx storage.Context, acc interop.Hash160, amount int) {
	if !subHostBalance(ctx, acc, amount) {
		panic(ErrInsufficientBalance)
	}
	dropSupply(ctx, supplyHostKey, amount)
	runtime.Notify("Transfer", acc, nil, amount)
}

func burnOrigin(ctx storage.Context, addr []byte, amount int) {
	key := append([]byte{originPrefix}, addr...)
	balance := getIntStorage(ctx, key)
	if balance < amount {
		panic(ErrInsufficientBalance)
	}
	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}
	dropSupply(ctx, supplyOriginKey, amount)
	runtime.Notify("Transfer", addr, nil, amount)
}

func addHostBalance(ctx storage.Context, acc interop.Hash160, amount int) {
	key := append([]byte{hostPrefix}, acc...)
	storage.Put(ctx, key, getIntStorage(ctx, key)+amount)
}

// subHostBalance deducts amount from the account and reports whether the
// balance was sufficient. Exhausted entries are deleted.
func subHostBalance(ctx storage.Context, acc interop.Hash160, amount int) bool {
	key := append([]byte{hostPrefix}, acc...)
	balance := getIntStorage(ctx, key)
	if balance < amount {
		return false
	}
	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}
	return true
}

func raiseSupply(ctx storage.Context, key any, amount int) {
	total := getIntStorage(ctx, supplyHostKey) + getIntStorage(ctx, supplyOriginKey)
	if total+amount >= supplyLimit {
		panic(ErrOverflow)
	}
	storage.Put(ctx, key, getIntStorage(ctx, key)+amount)
}

func dropSupply(ctx storage.Context, key any, amount int) {
	supply := getIntStorage(ctx, key)
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, key, supply-amount)
}

func isRegistered(ctx storage.Context, acc interop.Hash160) bool {
	return storage.Get(ctx, append([]byte{creditPrefix}, acc...)) != nil
}

func pendingKey(id int) []byte {
	return append([]byte{pendingPrefix}, convert.ToBytes(id)...)
}

func getIntStorage(ctx storage.Context, key any) int {
	val := storage.Get(ctx, key)
	if val != nil {
		return val.(int)
	}
	return 0
}
