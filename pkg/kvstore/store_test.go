package kvstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dualauth/authkv/pkg/kvconfig"
	"github.com/dualauth/authkv/pkg/kvhash"
	"github.com/dualauth/authkv/pkg/proof"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := kvconfig.Default()
	cfg.PowerBudget = 32
	s, err := New(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestStoreInsertGetUpdateDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))
	v, err := s.Get(kvhash.Key("a"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("1"), v)

	require.NoError(t, s.Update(kvhash.Key("a"), kvhash.Value("2")))
	v, err = s.Get(kvhash.Key("a"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("2"), v)

	require.NoError(t, s.Delete(kvhash.Key("a")))
	_, err = s.Get(kvhash.Key("a"))
	require.Error(t, err)
}

func TestStoreOperationsFailAfterClose(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Close())

	err := s.Insert(kvhash.Key("a"), kvhash.Value("1"))
	require.ErrorIs(t, err, ErrClosed)

	_, err = s.Get(kvhash.Key("a"))
	require.ErrorIs(t, err, ErrClosed)
}

func TestStoreInsertWithProofVerifies(t *testing.T) {
	s := newTestStore(t)

	resp, err := s.InsertWithProof(kvhash.Key("a"), kvhash.Value("1"))
	require.NoError(t, err)
	require.Nil(t, resp.PreNonMembership)

	membership := proof.MembershipResponse{
		Key:               resp.Key,
		Value:             resp.Value,
		Path:              resp.PostProof,
		RootHash:          resp.PostRootHash,
		AccValue:          resp.PostAcc,
		MembershipWitness: resp.PostWitness,
	}
	require.NoError(t, proof.VerifyFull(s.PublicParams(), membership))
}

func TestStoreInsertWithProofCarriesPreNonMembership(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, s.Insert(kvhash.Key("c"), kvhash.Value("3")))

	resp, err := s.InsertWithProof(kvhash.Key("b"), kvhash.Value("2"))
	require.NoError(t, err)
	require.NotNil(t, resp.PreNonMembership)
	require.NoError(t, proof.VerifyNonMembership(*resp.PreNonMembership))
}

func TestStoreUpdateWithProofVerifies(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, s.Insert(kvhash.Key("b"), kvhash.Value("2")))

	resp, err := s.UpdateWithProof(kvhash.Key("a"), kvhash.Value("1new"))
	require.NoError(t, err)
	require.NoError(t, proof.VerifyUpdate(s.PublicParams(), resp))
}

func TestStoreDeleteWithProofVerifies(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, s.Insert(kvhash.Key("b"), kvhash.Value("2")))

	resp, err := s.DeleteWithProof(kvhash.Key("a"))
	require.NoError(t, err)
	require.NoError(t, proof.VerifyDelete(s.PublicParams(), resp))
}

func TestStoreGetNonMembershipProofRejectsLiveKey(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))

	_, err := s.GetNonMembershipProof(kvhash.Key("a"))
	require.Error(t, err)
}

func TestStoreRootsReflectsForestState(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, s.Insert(kvhash.Key("b"), kvhash.Value("2")))

	roots, err := s.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 1)
}
