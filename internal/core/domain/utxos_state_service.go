package domain

import "sort"

// NewUtxosUpdateFromStates returns the diff between a seen and an unseen
// utxo set: added utxos appear in unseen only, removed ones in seen only.
// Membership keys on the outpoint.
func NewUtxosUpdateFromStates(seen, unseen []Utxo) *UtxosUpdate {
	seenKeys := indexByKey(seen)
	unseenKeys := indexByKey(unseen)

	added := make([]Utxo, 0, len(unseen))
	for _, u := range unseen {
		if _, ok := seenKeys[u.Key()]; !ok {
			added = append(added, u)
		}
	}
	removed := make([]Utxo, 0, len(seen))
	for _, u := range seen {
		if _, ok := unseenKeys[u.Key()]; !ok {
			removed = append(removed, u)
		}
	}

	return &UtxosUpdate{AddedUtxos: added, RemovedUtxos: removed}
}

// NewBalanceUpdateFromUtxosUpdate sums the values of an utxo diff.
func NewBalanceUpdateFromUtxosUpdate(update *UtxosUpdate) *BalanceUpdate {
	return &BalanceUpdate{
		AddedBalance:   BalanceFromUtxos(update.AddedUtxos),
		RemovedBalance: BalanceFromUtxos(update.RemovedUtxos),
	}
}

// PeekUpdate returns the diff between the unseen and seen layers without
// mutating the state. Repeated calls without an intervening Reconcile
// always yield the same result.
func (s *UtxosState) PeekUpdate() *UtxosUpdate {
	return NewUtxosUpdateFromStates(s.Seen, s.Unseen)
}

// Confirm copies the unseen layer into the seen one. A second Confirm with
// no new reconciliation leaves the next PeekUpdate empty.
func (s *UtxosState) Confirm() {
	seen := make([]Utxo, len(s.Unseen))
	copy(seen, s.Unseen)
	s.Seen = seen
}

// Reconcile replaces the unseen layer with the processed view of a raw
// oracle snapshot and returns the diff against the seen layer.
func (s *UtxosState) Reconcile(snapshot []Utxo) *UtxosUpdate {
	s.Unseen = s.ProcessSnapshot(snapshot)
	return s.PeekUpdate()
}

// ProcessSnapshot applies the zero-confirmation corrections to a raw
// oracle snapshot: union in the self-generated outputs the oracle may not
// know about yet, drop the outpoints we already spent ourselves, and
// deduplicate by outpoint keeping the record with the greatest height, so
// that a provisional height is overwritten once the real one is observed.
// With a positive confirmation depth the oracle is trusted to have
// filtered already and the snapshot is returned unmodified.
func (s *UtxosState) ProcessSnapshot(snapshot []Utxo) []Utxo {
	if s.MinConfirmations > 0 {
		utxos := make([]Utxo, len(snapshot))
		copy(utxos, snapshot)
		return utxos
	}

	utxos := make([]Utxo, 0, len(snapshot)+len(s.Generated))
	utxos = append(utxos, snapshot...)
	utxos = append(utxos, s.Generated...)

	spent := make(map[UtxoKey]struct{}, len(s.Spent))
	for _, key := range s.Spent {
		spent[key] = struct{}{}
	}

	occurrences := make(map[UtxoKey]Utxo, len(utxos))
	for _, u := range utxos {
		if _, ok := spent[u.Key()]; ok {
			continue
		}
		if seen, ok := occurrences[u.Key()]; !ok || u.Height > seen.Height {
			occurrences[u.Key()] = u
		}
	}

	deduped := make([]Utxo, 0, len(occurrences))
	for _, u := range occurrences {
		deduped = append(deduped, u)
	}
	sortUtxos(deduped)
	return deduped
}

// AddSpent records outpoints consumed by a transaction this process
// broadcast itself.
func (s *UtxosState) AddSpent(keys []UtxoKey) {
	s.Spent = append(s.Spent, keys...)
}

// AddGenerated records outputs created by a transaction this process
// broadcast itself.
func (s *UtxosState) AddGenerated(utxos []Utxo) {
	s.Generated = append(s.Generated, utxos...)
}

func indexByKey(utxos []Utxo) map[UtxoKey]struct{} {
	keys := make(map[UtxoKey]struct{}, len(utxos))
	for _, u := range utxos {
		keys[u.Key()] = struct{}{}
	}
	return keys
}

func sortUtxos(utxos []Utxo) {
	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].TxID != utxos[j].TxID {
			return utxos[i].TxID < utxos[j].TxID
		}
		return utxos[i].VOut < utxos[j].VOut
	})
}
