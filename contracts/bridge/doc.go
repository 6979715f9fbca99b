/*
Package bridge implements Bridge contract which is deployed to Neo N3 chain.

Bridge contract keeps the accounting side of a two-way token bridge with an
EVM-compatible origin chain. Funds locked in the custodian contract on the
origin chain are represented here as bETH, a NEP-17 compatible token, so
bridged balances can be tracked and controlled by N3 compatible network
monitors and wallet software.

Tokens are minted on deposit and burned on withdrawal. A deposit is started by
anyone holding a proof of the custodian's lock event; the contract validates
the event, hands the proof to the verifier contract and finishes minting in a
separate invocation once the verifier reports back. Every proof funds at most
one mint. Withdrawals destroy bridged tokens and return a receipt which is
presented to the custodian to release the locked funds.

Balances live in two namespaces: ordinary N3 accounts addressed by script
hash, and raw 20-byte origin-chain addresses for users that have no N3
identity. The latter spend their balance with a secp256k1 signature of the
canonical withdrawal message instead of a transaction witness.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification. For mints from
is null, for burns to is.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Deposit notification. This notification is produced when the verifier
confirms a deposit proof and the mint is performed. feeTo is the account
credited with the deposit fee.

	Deposit:
	  - name: fingerprint
	    type: ByteArray
	  - name: receiver
	    type: ByteArray
	  - name: amount
	    type: Integer
	  - name: fee
	    type: Integer
	  - name: feeTo
	    type: Hash160

Withdraw notification. This notification is produced when bridged tokens are
burned and a release receipt is issued.

	Withdraw:
	  - name: from
	    type: ByteArray
	  - name: recipient
	    type: ByteArray
	  - name: amount
	    type: Integer

TransferPending notification. This notification is produced when a two-phase
transfer is started and the receiver contract is notified.

	TransferPending:
	  - name: id
	    type: Integer
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

TransferResolved notification. This notification is produced when the
receiver settles a pending transfer.

	TransferResolved:
	  - name: id
	    type: Integer
	  - name: refunded
	    type: Integer
	  - name: burned
	    type: Integer
*/
package bridge

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'o' -> interop.Hash160
   contract owner, allowed to update the contract
 - 'v' -> interop.Hash160
   script hash of the proof verifier contract
 - 'c' -> []byte
   20-byte origin-chain address of the custodian contract
 - 'f' -> int
   minimal GAS storage deposit for account registration
 - 's' -> int
   total supply of the host account namespace
 - 'S' -> int
   total supply of the origin address namespace
 - 't' -> int
   sequence number of the last two-phase transfer
 - h<interop.Hash160> -> int
   bridged token balance of an N3 account
 - e<20-byte address> -> int
   bridged token balance of a raw origin-chain address
 - p<32-byte fingerprint> -> []byte{}
   marker of a consumed deposit proof
 - n<int> -> std.Serialize(pendingTransfer)
   two-phase transfer awaiting resolution
 - r<interop.Hash160> -> int
   GAS storage credit of a registered account

# Accounting
Contract stores bridged token balances of all bridge users. The sum of 's'
and 'S' always equals the sum of all 'h' and 'e' entries, which in turn never
exceeds the amount locked with the custodian on the origin chain.
*/
