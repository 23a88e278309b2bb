// Package kvstore is the external facade of the authenticated key-value
// store: it owns the Prover's trapdoor and forest, guards them with a
// mutex the way the teacher's pkg/node.Node guards its DKG state, and
// composes pkg/forest, pkg/accumulator, and pkg/proof into the plain
// CRUD API plus its *WithProof siblings that build proof envelopes
// around a mutation.
package kvstore

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/bls"
	"github.com/dualauth/authkv/pkg/forest"
	"github.com/dualauth/authkv/pkg/kvconfig"
	"github.com/dualauth/authkv/pkg/kvhash"
	"github.com/dualauth/authkv/pkg/kvlog"
	"github.com/dualauth/authkv/pkg/proof"
)

// Store is a single-Prover authenticated key-value store. It is safe
// for concurrent use; every operation holds Store's mutex for its
// duration, matching the teacher's pkg/keystore.KeyStore's
// coarse-grained locking rather than fine-grained per-key locks, since
// every mutation can restructure the whole forest.
type Store struct {
	mu       sync.RWMutex
	pp       *accumulator.PublicParams
	trapdoor *accumulator.Trapdoor
	forest   *forest.Forest
	logger   *zap.Logger
	closed   bool
}

// New builds a Store with fresh public parameters and trapdoor sized to
// cfg.PowerBudget. If logger is nil, a no-op logger is used.
func New(cfg kvconfig.Config, logger *zap.Logger) (*Store, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("kvstore: New: %w", errs.ToAggregate())
	}
	pp, trapdoor, err := accumulator.NewTestSetup(cfg.PowerBudget)
	if err != nil {
		return nil, fmt.Errorf("kvstore: New: %w", err)
	}
	if logger == nil {
		logger = kvlog.Nop()
	}
	return &Store{
		pp:       pp,
		trapdoor: trapdoor,
		forest:   forest.New(pp, trapdoor),
		logger:   logger,
	}, nil
}

// PublicParams exposes the store's public parameters, everything a
// Verifier needs to check proof envelopes this Store emits.
func (s *Store) PublicParams() *accumulator.PublicParams { return s.pp }

// Insert adds key/value.
func (s *Store) Insert(key kvhash.Key, value kvhash.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.forest.Insert(key, value); err != nil {
		return fmt.Errorf("kvstore: Insert: %w", err)
	}
	s.logger.Sugar().Debugw("inserted key", "key", key.String())
	return nil
}

// Get returns the live value for key.
func (s *Store) Get(key kvhash.Key) (kvhash.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	v, err := s.forest.Get(key)
	if err != nil {
		return nil, fmt.Errorf("kvstore: Get: %w", err)
	}
	return v, nil
}

// Update replaces the value of a live key.
func (s *Store) Update(key kvhash.Key, newValue kvhash.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.forest.Update(key, newValue); err != nil {
		return fmt.Errorf("kvstore: Update: %w", err)
	}
	s.logger.Sugar().Debugw("updated key", "key", key.String())
	return nil
}

// Delete tombstones a live key.
func (s *Store) Delete(key kvhash.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.forest.Delete(key); err != nil {
		return fmt.Errorf("kvstore: Delete: %w", err)
	}
	s.logger.Sugar().Debugw("deleted key", "key", key.String())
	return nil
}

// Roots returns the current public commitment of the store.
func (s *Store) Roots() (forest.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	snap, err := s.forest.Roots()
	if err != nil {
		return nil, fmt.Errorf("kvstore: Roots: %w", err)
	}
	return snap, nil
}

// Close marks the store closed. Further operations return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// GetWithProof returns a membership proof envelope for a live key.
func (s *Store) GetWithProof(key kvhash.Key) (proof.MembershipResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return proof.MembershipResponse{}, ErrClosed
	}
	resp, err := proof.BuildMembershipResponse(s.pp, s.forest, key)
	if err != nil {
		return proof.MembershipResponse{}, fmt.Errorf("kvstore: GetWithProof: %w", err)
	}
	return resp, nil
}

// GetNonMembershipProof returns a positional non-membership envelope for
// an absent key.
func (s *Store) GetNonMembershipProof(key kvhash.Key) (proof.NonMembershipResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return proof.NonMembershipResponse{}, ErrClosed
	}
	if _, err := s.forest.Get(key); err == nil {
		return proof.NonMembershipResponse{}, fmt.Errorf("kvstore: GetNonMembershipProof: key %s is live", key)
	}
	resp, err := proof.BuildNonMembershipResponse(s.forest, key)
	if err != nil {
		return proof.NonMembershipResponse{}, fmt.Errorf("kvstore: GetNonMembershipProof: %w", err)
	}
	return resp, nil
}

// InsertWithProof inserts key/value and returns an envelope covering the
// pre-mutation non-membership state (when the key was not live and at
// least one live key brackets it; nil otherwise) and the post-mutation
// membership proof.
func (s *Store) InsertWithProof(key kvhash.Key, value kvhash.Value) (proof.InsertResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return proof.InsertResponse{}, ErrClosed
	}

	preRoots, err := s.forest.Roots()
	if err != nil {
		return proof.InsertResponse{}, fmt.Errorf("kvstore: InsertWithProof: %w", err)
	}
	var preNonMembership *proof.NonMembershipResponse
	if _, err := s.forest.Get(key); err != nil {
		nm, err := proof.BuildNonMembershipResponse(s.forest, key)
		if err == nil && (nm.Predecessor != nil || nm.Successor != nil) {
			preNonMembership = &nm
		}
	}

	if err := s.forest.Insert(key, value); err != nil {
		return proof.InsertResponse{}, fmt.Errorf("kvstore: InsertWithProof: %w", err)
	}

	post, err := proof.BuildMembershipResponse(s.pp, s.forest, key)
	if err != nil {
		return proof.InsertResponse{}, fmt.Errorf("kvstore: InsertWithProof: %w", err)
	}

	s.logger.Sugar().Debugw("inserted key with proof", "key", key.String())
	return proof.InsertResponse{
		EnvelopeID:       proof.NewEnvelopeID(),
		Key:              key,
		Value:            value,
		PreRoots:         preRoots,
		PreNonMembership: preNonMembership,
		PostProof:        post.Path,
		PostRootHash:     post.RootHash,
		PostAcc:          post.AccValue,
		PostWitness:      post.MembershipWitness,
	}, nil
}

// UpdateWithProof updates key and returns an envelope covering both the
// pre- and post-mutation membership proofs.
func (s *Store) UpdateWithProof(key kvhash.Key, newValue kvhash.Value) (proof.UpdateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return proof.UpdateResponse{}, ErrClosed
	}

	pre, err := proof.BuildMembershipResponse(s.pp, s.forest, key)
	if err != nil {
		return proof.UpdateResponse{}, fmt.Errorf("kvstore: UpdateWithProof: %w", err)
	}
	oldValue := pre.Value

	if err := s.forest.Update(key, newValue); err != nil {
		return proof.UpdateResponse{}, fmt.Errorf("kvstore: UpdateWithProof: %w", err)
	}

	post, err := proof.BuildMembershipResponse(s.pp, s.forest, key)
	if err != nil {
		return proof.UpdateResponse{}, fmt.Errorf("kvstore: UpdateWithProof: %w", err)
	}

	s.logger.Sugar().Debugw("updated key with proof", "key", key.String())
	return proof.UpdateResponse{
		EnvelopeID:   proof.NewEnvelopeID(),
		Key:          key,
		OldValue:     oldValue,
		NewValue:     newValue,
		PreProof:     pre.Path,
		PostProof:    post.Path,
		PreRootHash:  pre.RootHash,
		PostRootHash: post.RootHash,
		PreAcc:       pre.AccValue,
		PreWitness:   pre.MembershipWitness,
		PostAcc:      post.AccValue,
		PostWitness:  post.MembershipWitness,
	}, nil
}

// DeleteWithProof tombstones key and returns an envelope covering the
// pre-mutation membership proof and the post-mutation tombstone path.
func (s *Store) DeleteWithProof(key kvhash.Key) (proof.DeleteResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return proof.DeleteResponse{}, ErrClosed
	}

	pre, err := proof.BuildMembershipResponse(s.pp, s.forest, key)
	if err != nil {
		return proof.DeleteResponse{}, fmt.Errorf("kvstore: DeleteWithProof: %w", err)
	}
	oldValue := pre.Value

	if err := s.forest.Delete(key); err != nil {
		return proof.DeleteResponse{}, fmt.Errorf("kvstore: DeleteWithProof: %w", err)
	}

	postPath, _, err := s.forest.PathTo(key)
	if err != nil {
		return proof.DeleteResponse{}, fmt.Errorf("kvstore: DeleteWithProof: %w", err)
	}
	snap, err := s.forest.Roots()
	if err != nil {
		return proof.DeleteResponse{}, fmt.Errorf("kvstore: DeleteWithProof: %w", err)
	}
	postAcc, err := rootAccForHash(snap, postPath.RootHash)
	if err != nil {
		return proof.DeleteResponse{}, fmt.Errorf("kvstore: DeleteWithProof: %w", err)
	}

	s.logger.Sugar().Debugw("deleted key with proof", "key", key.String())
	return proof.DeleteResponse{
		EnvelopeID:   proof.NewEnvelopeID(),
		Key:          key,
		OldValue:     oldValue,
		PreProof:     pre.Path,
		PostProof:    postPath,
		PreRootHash:  pre.RootHash,
		PostRootHash: postPath.RootHash,
		PreAcc:       pre.AccValue,
		PreWitness:   pre.MembershipWitness,
		PostAcc:      postAcc,
	}, nil
}

func rootAccForHash(snap forest.Snapshot, rootHash kvhash.Hash) (bls.G1Point, error) {
	for _, r := range snap {
		if r.RootHash == rootHash {
			return r.AccValue, nil
		}
	}
	return bls.G1Point{}, fmt.Errorf("kvstore: no root with hash %s", rootHash)
}
