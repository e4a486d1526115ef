package xpath_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/uinode"
	"github.com/d-biehl/platynui/pkg/xpath"
)

// orderedItems builds n node items whose DocOrderKey is exactly their
// creation order, giving the test a known-correct sort order to check
// EnsureOrder's output against.
func orderedItems(n int) []xpath.Item {
	items := make([]xpath.Item, n)
	for i := 0; i < n; i++ {
		node := memtree.NewNode(uinode.NamespaceControl, "Item", "")
		items[i] = xpath.NodeItem(node)
	}
	return items
}

func drainEnsureOrder(t *testing.T, items []xpath.Item) []xpath.Item {
	t.Helper()
	sc := xpath.NewStaticContext()
	dctx := xpath.NewDynamicContext(sc, xpath.Item{}, false, nil)
	cur := xpath.NewEnsureOrder(xpath.NewSliceCursor(items))
	out, err := xpath.Drain(cur, dctx)
	require.NoError(t, err)
	return out
}

func keysOf(t *testing.T, items []xpath.Item) []uint64 {
	t.Helper()
	keys := make([]uint64, len(items))
	for i, it := range items {
		k, ok := it.Node.DocOrderKey()
		require.True(t, ok)
		keys[i] = k
	}
	return keys
}

func TestEnsureOrderPassesThroughAlreadySortedStream(t *testing.T) {
	items := orderedItems(6)
	out := drainEnsureOrder(t, items)
	require.Equal(t, keysOf(t, items), keysOf(t, out))
}

// TestEnsureOrderRepairsInversionsThroughoutWholeStream is the adversarial
// permutation test: it scatters adjacent-swap inversions across a stream
// long enough that the bug under test (lookahead only ever run once, at
// the very start) would leave everything past the first few items
// untouched. EnsureOrder must still emit every item in ascending
// DocOrderKey order, for inversions anywhere in the stream, not just near
// its start.
func TestEnsureOrderRepairsInversionsThroughoutWholeStream(t *testing.T) {
	items := orderedItems(40)

	// Swap every other adjacent pair: (0,1),(2,3),(4,5),... This keeps
	// every disorder a single adjacent inversion (within the algorithm's
	// cheap-repair guarantee) while placing inversions at every position
	// in the stream, not just the first three items.
	shuffled := append([]xpath.Item(nil), items...)
	for i := 0; i+1 < len(shuffled); i += 2 {
		shuffled[i], shuffled[i+1] = shuffled[i+1], shuffled[i]
	}

	out := drainEnsureOrder(t, shuffled)
	require.Equal(t, keysOf(t, items), keysOf(t, out), "output must be in ascending document order even though every adjacent pair was swapped")
}

// TestEnsureOrderRepairsLateInversionAfterLongOrderedRun specifically
// targets a single out-of-order pair positioned well past the
// first-three-items window that a one-shot lookahead would have stopped
// checking after.
func TestEnsureOrderRepairsLateInversionAfterLongOrderedRun(t *testing.T) {
	items := orderedItems(20)

	shuffled := append([]xpath.Item(nil), items...)
	shuffled[14], shuffled[15] = shuffled[15], shuffled[14]

	out := drainEnsureOrder(t, shuffled)
	require.Equal(t, keysOf(t, items), keysOf(t, out))
}

// TestEnsureOrderFallsBackToFullSortOnDeepDisorder exercises the
// buffer-and-sort fallback for disorder beyond a single adjacent swap
// (a reversed run), confirming the fallback still produces correct
// document order.
func TestEnsureOrderFallsBackToFullSortOnDeepDisorder(t *testing.T) {
	items := orderedItems(10)

	reversedTail := append([]xpath.Item(nil), items[:3]...)
	for i := len(items) - 1; i >= 3; i-- {
		reversedTail = append(reversedTail, items[i])
	}

	out := drainEnsureOrder(t, reversedTail)
	require.Equal(t, keysOf(t, items), keysOf(t, out))
}

// TestEnsureOrderRandomPermutations fuzzes EnsureOrder over many random
// shuffles of a mid-sized stream, asserting the emitted document order is
// always fully ascending regardless of how disorder is distributed.
func TestEnsureOrderRandomPermutations(t *testing.T) {
	items := orderedItems(25)
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		shuffled := append([]xpath.Item(nil), items...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		out := drainEnsureOrder(t, shuffled)
		gotKeys := keysOf(t, out)
		for i := 1; i < len(gotKeys); i++ {
			require.LessOrEqualf(t, gotKeys[i-1], gotKeys[i], "trial %d: item %d out of order", trial, i)
		}
		require.ElementsMatch(t, keysOf(t, items), gotKeys)
	}
}
