package application

import (
	"context"
	"sort"

	"github.com/custodia-network/btc-agent/internal/core/domain"
	"github.com/custodia-network/btc-agent/internal/core/ports"
	"github.com/custodia-network/btc-agent/pkg/address"
)

// AgentService is the stateful core of the custody library. It owns the
// registry of managed addresses and their layered utxo states, derives
// child keys from a single master public key, and reports consistent
// "what changed since last observed" diffs.
//
// The service is designed for a single-threaded cooperative host and
// provides no internal locking: it is the caller's responsibility to
// serialize a PeekUtxosUpdate -> (await) -> ConfirmState sequence per
// address, and to never register the same address with two agents. When no
// asynchronous action happens between the two steps, GetUtxosUpdate does
// both in one call.
type AgentService struct {
	oracle           ports.ChainOracle
	network          address.Network
	mainAddressType  address.Type
	minConfirmations uint32
	masterKey        domain.ExtendedPublicKey
	keys             map[string]domain.ExtendedPublicKey
	utxosStates      map[string]*domain.UtxosState
}

// NewAgentService returns an agent bound to the given oracle. The agent is
// unusable until Initialize sets its master public key.
func NewAgentService(
	oracle ports.ChainOracle,
	mainAddressType address.Type,
	minConfirmations uint32,
) (*AgentService, error) {
	if minConfirmations > domain.MinConfirmationsUpperBound {
		return nil, domain.ErrMinConfirmationsTooHigh
	}
	return &AgentService{
		oracle:           oracle,
		network:          oracle.Network(),
		mainAddressType:  mainAddressType,
		minConfirmations: minConfirmations,
		keys:             map[string]domain.ExtendedPublicKey{},
		utxosStates:      map[string]*domain.UtxosState{},
	}, nil
}

// NewAgentServiceFromState restores an agent from a durable snapshot,
// reconstructing every flattened address back into its structured form.
// An address whose embedded network tag disagrees with the snapshot's
// network is rejected, it is never silently overridden.
func NewAgentServiceFromState(
	state *domain.AgentState, oracle ports.ChainOracle,
) (*AgentService, error) {
	if oracle.Network() != state.Network {
		return nil, address.ErrNetworkMismatch
	}

	keys := make(map[string]domain.ExtendedPublicKey, len(state.Keys))
	for _, entry := range state.Keys {
		if entry.Network != state.Network {
			return nil, address.ErrNetworkMismatch
		}
		info, err := address.Decode(entry.Address, state.Network)
		if err != nil {
			return nil, err
		}
		keys[info.Address] = entry.Key
	}

	utxosStates := make(map[string]*domain.UtxosState, len(state.UtxosStates))
	for _, entry := range state.UtxosStates {
		if entry.Network != state.Network {
			return nil, address.ErrNetworkMismatch
		}
		info, err := address.Decode(entry.Address, state.Network)
		if err != nil {
			return nil, err
		}
		utxoState := entry.State
		utxosStates[info.Address] = &utxoState
	}

	return &AgentService{
		oracle:           oracle,
		network:          state.Network,
		mainAddressType:  state.MainAddressType,
		minConfirmations: state.MinConfirmations,
		masterKey:        state.PublicKey,
		keys:             keys,
		utxosStates:      utxosStates,
	}, nil
}

// Initialize sets the agent's master public key and registers the main
// address, the one derived from the empty path. Calling it again resets
// the registry to the main address only.
func (a *AgentService) Initialize(masterKey domain.ExtendedPublicKey) error {
	mainAddress, err := address.Encode(
		a.network, a.mainAddressType, masterKey.PublicKey,
	)
	if err != nil {
		return err
	}

	a.masterKey = masterKey
	a.keys = map[string]domain.ExtendedPublicKey{mainAddress: masterKey}
	a.utxosStates = map[string]*domain.UtxosState{
		mainAddress: domain.NewUtxosState(a.minConfirmations),
	}
	return nil
}

// Network returns the network the agent operates on.
func (a *AgentService) Network() address.Network {
	return a.network
}

// MainAddress returns the address derived from the empty path. It is
// always present and never removable.
func (a *AgentService) MainAddress() (string, error) {
	if len(a.masterKey.PublicKey) <= 0 {
		return "", domain.ErrAgentNotInitialized
	}
	return address.Encode(a.network, a.mainAddressType, a.masterKey.PublicKey)
}

// AddAddress registers the address derived from the given path with the
// agent's default address type and confirmation depth.
func (a *AgentService) AddAddress(path [][]byte) (string, error) {
	return a.AddAddressWithParameters(path, a.mainAddressType, a.minConfirmations)
}

// AddAddressWithParameters derives the child key for the given path,
// encodes it with the requested script type and registers the resulting
// address together with a fresh utxo state keyed by minConfirmations.
// Registering an already managed address is idempotent: the address is
// returned unchanged and no second utxo state is created.
func (a *AgentService) AddAddressWithParameters(
	path [][]byte, addressType address.Type, minConfirmations uint32,
) (string, error) {
	if minConfirmations > domain.MinConfirmationsUpperBound {
		return "", domain.ErrMinConfirmationsTooHigh
	}
	if len(path) > domain.MaxDerivationPathLength {
		return "", domain.ErrDerivationPathTooLong
	}
	if len(a.masterKey.PublicKey) <= 0 {
		return "", domain.ErrAgentNotInitialized
	}

	childKey, err := a.masterKey.Derive(path)
	if err != nil {
		return "", err
	}
	addr, err := address.Encode(a.network, addressType, childKey.PublicKey)
	if err != nil {
		return "", err
	}

	if _, ok := a.keys[addr]; !ok {
		a.keys[addr] = *childKey
		a.utxosStates[addr] = domain.NewUtxosState(minConfirmations)
	}
	return addr, nil
}

// RemoveAddress removes the given address from the managed set, both its
// key mapping and its utxo state. It returns whether removal occurred:
// unknown addresses and the main address are left untouched.
func (a *AgentService) RemoveAddress(addr string) bool {
	mainAddress, err := a.MainAddress()
	if err != nil {
		return false
	}
	if _, ok := a.keys[addr]; !ok || addr == mainAddress {
		return false
	}
	delete(a.keys, addr)
	delete(a.utxosStates, addr)
	return true
}

// ListAddresses returns all managed addresses in lexicographic order.
func (a *AgentService) ListAddresses() []string {
	addresses := make([]string, 0, len(a.keys))
	for addr := range a.keys {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)
	return addresses
}

// DerivationPath returns the derivation path of a managed address.
func (a *AgentService) DerivationPath(addr string) ([][]byte, error) {
	key, ok := a.keys[addr]
	if !ok {
		return nil, domain.ErrAddressNotTracked
	}
	return key.DerivationPath, nil
}

// MinConfirmations returns the confirmation depth the given address was
// registered with.
func (a *AgentService) MinConfirmations(addr string) (uint32, error) {
	state, ok := a.utxosStates[addr]
	if !ok {
		return 0, domain.ErrAddressNotTracked
	}
	return state.MinConfirmations, nil
}

// FetchUtxos asks the oracle for the raw utxo snapshot of an address. It
// performs no state mutation: on failure the agent is exactly as before.
func (a *AgentService) FetchUtxos(
	ctx context.Context, addr string, minConfirmations uint32,
) (*ports.UtxosResponse, error) {
	if minConfirmations > domain.MinConfirmationsUpperBound {
		return nil, domain.ErrMinConfirmationsTooHigh
	}
	return a.oracle.GetUtxos(ctx, addr, minConfirmations)
}

// Reconcile replaces the unseen layer of the address with the processed
// view of a raw oracle snapshot and returns the diff against the seen
// layer, the same value PeekUtxosUpdate would return right after.
func (a *AgentService) Reconcile(
	addr string, snapshot []domain.Utxo,
) (*domain.UtxosUpdate, error) {
	state, ok := a.utxosStates[addr]
	if !ok {
		return nil, domain.ErrAddressNotTracked
	}
	return state.Reconcile(snapshot), nil
}

// PeekUtxosUpdate returns the diff between the reconciled and the seen
// utxo state of the address without mutating anything. A caller that
// performs an asynchronous action before acknowledging with ConfirmState
// must hold its own per-address lock for the whole window.
func (a *AgentService) PeekUtxosUpdate(addr string) (*domain.UtxosUpdate, error) {
	state, ok := a.utxosStates[addr]
	if !ok {
		return nil, domain.ErrAddressNotTracked
	}
	return state.PeekUpdate(), nil
}

// ConfirmState acknowledges the current unseen state of the address,
// copying it into the seen layer. It makes no oracle call.
func (a *AgentService) ConfirmState(addr string) error {
	state, ok := a.utxosStates[addr]
	if !ok {
		return domain.ErrAddressNotTracked
	}
	state.Confirm()
	return nil
}

// GetUtxosUpdate performs PeekUtxosUpdate and ConfirmState as one logical
// operation: the returned diff is computed against the pre-confirm seen
// layer.
func (a *AgentService) GetUtxosUpdate(addr string) (*domain.UtxosUpdate, error) {
	update, err := a.PeekUtxosUpdate(addr)
	if err != nil {
		return nil, err
	}
	if err := a.ConfirmState(addr); err != nil {
		return nil, err
	}
	return update, nil
}

// PeekBalanceUpdate is PeekUtxosUpdate reduced to balance totals.
func (a *AgentService) PeekBalanceUpdate(addr string) (*domain.BalanceUpdate, error) {
	update, err := a.PeekUtxosUpdate(addr)
	if err != nil {
		return nil, err
	}
	return domain.NewBalanceUpdateFromUtxosUpdate(update), nil
}

// GetBalanceUpdate is GetUtxosUpdate reduced to balance totals.
func (a *AgentService) GetBalanceUpdate(addr string) (*domain.BalanceUpdate, error) {
	update, err := a.GetUtxosUpdate(addr)
	if err != nil {
		return nil, err
	}
	return domain.NewBalanceUpdateFromUtxosUpdate(update), nil
}

// Utxos returns the current processed utxo view of a managed address,
// fetched from the oracle, without touching the seen/unseen layers.
func (a *AgentService) Utxos(
	ctx context.Context, addr string, minConfirmations uint32,
) ([]domain.Utxo, error) {
	state, ok := a.utxosStates[addr]
	if !ok {
		return nil, domain.ErrAddressNotTracked
	}
	res, err := a.FetchUtxos(ctx, addr, minConfirmations)
	if err != nil {
		return nil, err
	}
	return state.ProcessSnapshot(res.Utxos), nil
}

// Balance returns the total value of the current processed utxo view of a
// managed address.
func (a *AgentService) Balance(
	ctx context.Context, addr string, minConfirmations uint32,
) (uint64, error) {
	utxos, err := a.Utxos(ctx, addr, minConfirmations)
	if err != nil {
		return 0, err
	}
	return domain.BalanceFromUtxos(utxos), nil
}

// CurrentFeePercentiles returns the oracle's fee percentiles in
// millisatoshis per byte.
func (a *AgentService) CurrentFeePercentiles(ctx context.Context) ([]uint64, error) {
	return a.oracle.GetFeePercentiles(ctx)
}

// CurrentFeePercentile returns the fee rate at the given percentile
// between 0 and 100.
func (a *AgentService) CurrentFeePercentile(
	ctx context.Context, percentile uint32,
) (uint64, error) {
	if percentile > 100 {
		return 0, domain.ErrInvalidPercentile
	}
	fees, err := a.oracle.GetFeePercentiles(ctx)
	if err != nil {
		return 0, err
	}
	if len(fees) <= 0 {
		return 0, nil
	}
	index := int(percentile) * (len(fees) - 1) / 100
	return fees[index], nil
}

// Sign returns the oracle's signature of the given digest with the key at
// the given derivation path. The signature is opaque to the agent.
func (a *AgentService) Sign(
	ctx context.Context, path [][]byte, digest []byte,
) ([]byte, error) {
	return a.oracle.SignWithDerivationPath(ctx, path, digest)
}

// Broadcast submits a raw transaction through the oracle.
func (a *AgentService) Broadcast(ctx context.Context, rawTx []byte) error {
	return a.oracle.BroadcastTransaction(ctx, rawTx)
}

// ApplyTransferResult caches the outpoints spent and the outputs generated
// by a transaction this process broadcast, so future reconciliations at
// zero confirmations neither reuse the former nor miss the latter. A
// generated output for a not yet tracked address creates a
// zero-confirmation utxo state for it. The result is applied atomically:
// if any spent entry names an untracked address no layer is touched.
func (a *AgentService) ApplyTransferResult(result *TransferResult) error {
	for addr := range result.SpentUtxos {
		if _, ok := a.utxosStates[addr]; !ok {
			return domain.ErrAddressNotTracked
		}
	}

	for addr, keys := range result.SpentUtxos {
		a.utxosStates[addr].AddSpent(keys)
	}
	for addr, utxos := range result.GeneratedUtxos {
		state, ok := a.utxosStates[addr]
		if !ok {
			state = domain.NewUtxosState(0)
			a.utxosStates[addr] = state
		}
		state.AddGenerated(utxos)
	}
	return nil
}

// State flattens the live registry into its durable form, with every
// address as a (string, network) pair and entries in lexicographic
// address order.
func (a *AgentService) State() *domain.AgentState {
	keys := make([]domain.KeyEntry, 0, len(a.keys))
	for _, addr := range a.ListAddresses() {
		keys = append(keys, domain.KeyEntry{
			Address: addr,
			Network: a.network,
			Key:     a.keys[addr],
		})
	}

	stateAddresses := make([]string, 0, len(a.utxosStates))
	for addr := range a.utxosStates {
		stateAddresses = append(stateAddresses, addr)
	}
	sort.Strings(stateAddresses)

	utxosStates := make([]domain.UtxosStateEntry, 0, len(stateAddresses))
	for _, addr := range stateAddresses {
		utxosStates = append(utxosStates, domain.UtxosStateEntry{
			Address: addr,
			Network: a.network,
			State:   *a.utxosStates[addr],
		})
	}

	return &domain.AgentState{
		Network:          a.network,
		MainAddressType:  a.mainAddressType,
		Keys:             keys,
		UtxosStates:      utxosStates,
		MinConfirmations: a.minConfirmations,
		PublicKey:        a.masterKey,
	}
}
