package forest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dualauth/authkv/pkg/accumulator"
	"github.com/dualauth/authkv/pkg/kvhash"
)

func newTestForest(t *testing.T) *Forest {
	t.Helper()
	pp, trapdoor, err := accumulator.NewTestSetup(64)
	require.NoError(t, err)
	return New(pp, trapdoor)
}

// Scenario 1: single insert.
func TestScenarioSingleInsert(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))

	v, err := f.Get(kvhash.Key("a"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("1"), v)

	roots, err := f.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, 0, roots[0].Level)
	require.Equal(t, kvhash.HLeaf(kvhash.Key("a"), kvhash.Value("1")), roots[0].RootHash)
}

// Scenario 2: two inserts merge into a single level-1 root.
func TestScenarioTwoInsertsMerge(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))

	roots, err := f.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	require.Equal(t, 1, roots[0].Level)

	want := kvhash.HNonLeaf(
		kvhash.HLeaf(kvhash.Key("a"), kvhash.Value("1")),
		kvhash.HLeaf(kvhash.Key("b"), kvhash.Value("2")),
	)
	require.Equal(t, want, roots[0].RootHash)
}

// Scenario 3: three inserts leave two roots (levels 1 and 0), matching
// popcount(3) = 2.
func TestScenarioThreeInsertsLeaveTwoRoots(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))
	require.NoError(t, f.Insert(kvhash.Key("c"), kvhash.Value("3")))

	roots, err := f.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 2)
	require.Equal(t, 1, roots[0].Level)
	require.Equal(t, 0, roots[1].Level)

	v, err := f.Get(kvhash.Key("c"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("3"), v)
}

// Scenario 4: update leaves the accumulator unchanged and changes the
// root hash (sibling-hash consistency is checked in paths_test.go).
func TestScenarioUpdateLeavesAccUnchanged(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))
	require.NoError(t, f.Insert(kvhash.Key("c"), kvhash.Value("3")))

	preRoots, err := f.Roots()
	require.NoError(t, err)

	require.NoError(t, f.Update(kvhash.Key("b"), kvhash.Value("2new")))

	postRoots, err := f.Roots()
	require.NoError(t, err)

	require.True(t, preRoots[0].AccValue.Equal(postRoots[0].AccValue), "update must not change the accumulator")
	require.NotEqual(t, preRoots[0].RootHash, postRoots[0].RootHash, "update must change the root hash")

	v, err := f.Get(kvhash.Key("b"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("2new"), v)
}

// Scenario 5: delete tombstones the leaf, drops it from keys/acc.
func TestScenarioDeleteTombstonesLeaf(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))
	require.NoError(t, f.Insert(kvhash.Key("c"), kvhash.Value("3")))

	require.NoError(t, f.Delete(kvhash.Key("a")))

	_, err := f.Get(kvhash.Key("a"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	roots, err := f.Roots()
	require.NoError(t, err)
	require.Equal(t, 1, roots[0].Level)

	wantHash := kvhash.HNonLeaf(kvhash.EmptyHash, kvhash.HLeaf(kvhash.Key("b"), kvhash.Value("2")))
	require.Equal(t, wantHash, roots[0].RootHash)

	wantAcc, err := accumulator.AccValueG1(f.pp, []kvhash.Key{kvhash.Key("b")})
	require.NoError(t, err)
	require.True(t, roots[0].AccValue.Equal(wantAcc))
}

// Scenario 6: reviving a and inserting "1" restores the exact scenario-3
// root hash.
func TestScenarioReviveMatchesOriginalRootHash(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))
	require.NoError(t, f.Insert(kvhash.Key("c"), kvhash.Value("3")))

	roots3, err := f.Roots()
	require.NoError(t, err)
	originalLevel1Hash := roots3[0].RootHash

	require.NoError(t, f.Delete(kvhash.Key("a")))
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))

	roots6, err := f.Roots()
	require.NoError(t, err)
	require.Equal(t, originalLevel1Hash, roots6[0].RootHash)

	v, err := f.Get(kvhash.Key("a"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("1"), v)
}

func TestInsertOnLiveKeyFails(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	err := f.Insert(kvhash.Key("a"), kvhash.Value("2"))
	require.ErrorIs(t, err, ErrKeyExists)
}

func TestUpdateOnAbsentKeyFails(t *testing.T) {
	f := newTestForest(t)
	err := f.Update(kvhash.Key("z"), kvhash.Value("v"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestDeleteOnTombstoneFails(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("a"), kvhash.Value("1")))
	require.NoError(t, f.Delete(kvhash.Key("a")))
	err := f.Delete(kvhash.Key("a"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

// Law: insert/delete round trip of the live set.
func TestLawInsertDeleteRoundTrip(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("x"), kvhash.Value("1")))
	require.NoError(t, f.Insert(kvhash.Key("y"), kvhash.Value("2")))

	require.NoError(t, f.Insert(kvhash.Key("z"), kvhash.Value("3")))
	require.NoError(t, f.Delete(kvhash.Key("z")))

	_, err := f.Get(kvhash.Key("z"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	v, err := f.Get(kvhash.Key("x"))
	require.NoError(t, err)
	require.Equal(t, kvhash.Value("1"), v)
}

// Law: update idempotence.
func TestLawUpdateIdempotence(t *testing.T) {
	f1 := newTestForest(t)
	f2 := newTestForest(t)

	for _, f := range []*Forest{f1, f2} {
		require.NoError(t, f.Insert(kvhash.Key("k"), kvhash.Value("v0")))
	}

	require.NoError(t, f1.Update(kvhash.Key("k"), kvhash.Value("v1")))

	require.NoError(t, f2.Update(kvhash.Key("k"), kvhash.Value("v1")))
	require.NoError(t, f2.Update(kvhash.Key("k"), kvhash.Value("v1")))

	r1, err := f1.Roots()
	require.NoError(t, err)
	r2, err := f2.Roots()
	require.NoError(t, err)
	require.Equal(t, r1[0].RootHash, r2[0].RootHash)
}

// Law: accumulator commutativity across insertion order.
func TestLawAccumulatorCommutativity(t *testing.T) {
	pp, _, err := accumulator.NewTestSetup(8)
	require.NoError(t, err)

	a, err := accumulator.AccValueG1(pp, []kvhash.Key{kvhash.Key("k1"), kvhash.Key("k2")})
	require.NoError(t, err)
	b, err := accumulator.AccValueG1(pp, []kvhash.Key{kvhash.Key("k2"), kvhash.Key("k1")})
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestNeighborsPositionalNonMembership(t *testing.T) {
	f := newTestForest(t)
	require.NoError(t, f.Insert(kvhash.Key("b"), kvhash.Value("2")))
	require.NoError(t, f.Insert(kvhash.Key("d"), kvhash.Value("4")))
	require.NoError(t, f.Insert(kvhash.Key("f"), kvhash.Value("6")))

	pred, succ := f.Neighbors(kvhash.Key("c"))
	require.NotNil(t, pred)
	require.NotNil(t, succ)
	require.Equal(t, kvhash.Key("b"), pred.Key)
	require.Equal(t, kvhash.Key("d"), succ.Key)

	predMin, succMin := f.Neighbors(kvhash.Key("a"))
	require.Nil(t, predMin)
	require.NotNil(t, succMin)

	predMax, succMax := f.Neighbors(kvhash.Key("z"))
	require.NotNil(t, predMax)
	require.Nil(t, succMax)
}

func TestRootCountMatchesPopcount(t *testing.T) {
	f := newTestForest(t)
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, f.Insert(kvhash.Key(k), kvhash.Value("v")))
		want := popcount(i + 1)
		require.Equal(t, want, f.RootCount(), "after %d inserts", i+1)
	}
}

func popcount(n int) int {
	c := 0
	for n > 0 {
		c += n & 1
		n >>= 1
	}
	return c
}
