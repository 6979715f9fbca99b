// Package deploy provides a procedure bringing the bridge contract on a Neo
// blockchain to the desired state.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/bridge-contract/common"
	rpcbridge "github.com/nspcc-dev/bridge-contract/rpc/bridge"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the bridge contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose, send and await
	// transactions on the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract
	// by its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// BridgeContractPrm groups deployment parameters of the bridge contract.
type BridgeContractPrm struct {
	Common CommonDeployPrm

	// Account allowed to update the contract.
	Owner util.Uint160
	// Address of the trusted proof verifier contract.
	Verifier util.Uint160
	// 20-byte origin-chain address of the custodian contract.
	Custodian []byte
	// Minimal GAS storage deposit for account registration.
	StorageFee int64
}

// Prm groups all parameters of the bridge deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	BridgeContract BridgeContractPrm
}

// Deploy synchronizes the bridge contract on the Neo network represented by
// given Prm.Blockchain with the local copy: missing contract is deployed,
// outdated one is updated, up-to-date one is left as is. The resulting
// contract address is returned.
//
// Deployment progress is logged in detail.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	sender := prm.LocalAccount.ScriptHash()
	contractAddress := state.CreateContractHash(sender,
		prm.BridgeContract.Common.NEF.Checksum, prm.BridgeContract.Common.Manifest.Name)

	onChainState, err := readContractState(prm.Blockchain, contractAddress)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("read on-chain state of the bridge contract: %w", err)
	}

	if onChainState == nil {
		prm.Logger.Info("bridge contract is missing on the chain, deploying...",
			zap.Stringer("address", contractAddress))

		err = deployBridgeContract(ctx, localActor, prm)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy bridge contract: %w", err)
		}

		prm.Logger.Info("bridge contract successfully deployed",
			zap.Stringer("address", contractAddress))
		return contractAddress, nil
	}

	upToDate, err := checkContractVersion(prm.Blockchain, contractAddress)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("check version of the on-chain bridge contract: %w", err)
	}
	if upToDate {
		prm.Logger.Info("on-chain bridge contract is up-to-date, nothing to do",
			zap.Stringer("address", contractAddress))
		return contractAddress, nil
	}

	prm.Logger.Info("on-chain bridge contract is outdated, updating...",
		zap.Stringer("address", contractAddress))

	err = updateBridgeContract(ctx, localActor, contractAddress, prm)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update bridge contract: %w", err)
	}

	prm.Logger.Info("bridge contract successfully updated",
		zap.Stringer("address", contractAddress))
	return contractAddress, nil
}

// readContractState distinguishes a missing contract from an RPC failure.
func readContractState(b Blockchain, addr util.Uint160) (*state.Contract, error) {
	st, err := b.GetContractStateByHash(addr)
	if err != nil {
		if strings.Contains(err.Error(), "Unknown contract") {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func deployBridgeContract(ctx context.Context, localActor *actor.Actor, prm Prm) error {
	deployArgs, err := buildDeployArgs(prm.BridgeContract)
	if err != nil {
		return err
	}

	mgmt := management.New(localActor)
	txHash, vub, err := mgmt.Deploy(&prm.BridgeContract.Common.NEF,
		&prm.BridgeContract.Common.Manifest, deployArgs)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	return awaitTransaction(ctx, localActor, txHash, vub)
}

func updateBridgeContract(ctx context.Context, localActor *actor.Actor, addr util.Uint160, prm Prm) error {
	nefBytes, err := prm.BridgeContract.Common.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}
	manifestBytes, err := json.Marshal(prm.BridgeContract.Common.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	// The contract appends its version to the data on its own, see the
	// update method.
	c := rpcbridge.New(localActor, addr)
	txHash, vub, err := c.Update(nefBytes, manifestBytes, nil)
	if err != nil {
		return fmt.Errorf("send update transaction: %w", err)
	}

	return awaitTransaction(ctx, localActor, txHash, vub)
}

// awaitTransaction blocks until the transaction is persisted and checks its
// execution result.
func awaitTransaction(ctx context.Context, localActor *actor.Actor, txHash util.Uint256, vub uint32) error {
	aer, err := localActor.WaitAny(ctx, vub, txHash)
	if err != nil {
		return fmt.Errorf("await transaction %s: %w", txHash.StringLE(), err)
	}
	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %s", txHash.StringLE(), aer.FaultException)
	}
	return nil
}

// buildDeployArgs shapes the _deploy argument of the bridge contract.
func buildDeployArgs(prm BridgeContractPrm) ([]any, error) {
	if prm.Owner.Equals(util.Uint160{}) {
		return nil, errors.New("missing contract owner")
	}
	if prm.Verifier.Equals(util.Uint160{}) {
		return nil, errors.New("missing verifier contract address")
	}
	if len(prm.Custodian) != util.Uint160Size {
		return nil, fmt.Errorf("invalid custodian address length %d", len(prm.Custodian))
	}
	if prm.StorageFee < 0 {
		return nil, errors.New("negative storage fee")
	}

	return []any{prm.Owner, prm.Verifier, prm.Custodian, prm.StorageFee}, nil
}

// checkContractVersion compares the on-chain contract version with the local
// one.
func checkContractVersion(b Blockchain, addr util.Uint160) (bool, error) {
	onChainVersion, err := rpcbridge.NewReader(invoker.New(b, nil), addr).Version()
	if err != nil {
		return false, fmt.Errorf("read on-chain version: %w", err)
	}
	return onChainVersion.Int64() == common.Version, nil
}
