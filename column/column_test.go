package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grafana/tracecol/rowmap"
	"github.com/grafana/tracecol/sparsevector"
	"github.com/grafana/tracecol/sqlvalue"
	"github.com/grafana/tracecol/stringpool"
)

func collectRows(rm *rowmap.RowMap) []uint32 {
	out := make([]uint32, rm.Size())
	for k := range out {
		out[k] = rm.Get(uint32(k))
	}
	return out
}

func nullableInt64Fixture(t *testing.T, rm *rowmap.RowMap) *Column {
	t.Helper()
	vec := sparsevector.New[int64]()
	vec.Append(10)
	vec.Append(20)
	vec.Append(20)
	vec.AppendNull()
	vec.Append(30)
	return NewInt64Column("v", vec, 0, rm, 0)
}

// S1: FilterInto(Eq, Long(20), rm=[0,5)) -> rm = {1, 2}.
func TestScenarioS1Eq(t *testing.T) {
	rm := rowmap.All(5)
	c := nullableInt64Fixture(t, &rm)
	c.FilterInto(sqlvalue.Eq, sqlvalue.Long(20), &rm)
	require.Equal(t, []uint32{1, 2}, collectRows(&rm))
}

// S2: FilterInto(IsNull, Null, rm=[0,5)) -> rm = {3}.
func TestScenarioS2IsNull(t *testing.T) {
	rm := rowmap.All(5)
	c := nullableInt64Fixture(t, &rm)
	c.FilterInto(sqlvalue.IsNull, sqlvalue.Null(), &rm)
	require.Equal(t, []uint32{3}, collectRows(&rm))
}

// S3: FilterInto(Gt, Long(15), rm=[0,5)) -> rm = {1, 2, 4}.
func TestScenarioS3Gt(t *testing.T) {
	rm := rowmap.All(5)
	c := nullableInt64Fixture(t, &rm)
	c.FilterInto(sqlvalue.Gt, sqlvalue.Long(15), &rm)
	require.Equal(t, []uint32{1, 2, 4}, collectRows(&rm))
}

// S4: StableSort(desc=false, out=[0,1,2,3,4]) -> [3,0,1,2,4].
func TestScenarioS4StableSort(t *testing.T) {
	rm := rowmap.All(5)
	c := nullableInt64Fixture(t, &rm)
	out := []uint32{0, 1, 2, 3, 4}
	c.StableSort(false, out)
	require.Equal(t, []uint32{3, 0, 1, 2, 4}, out)
}

// S5: sorted non-null Int64 column [1,3,3,5,7], FilterInto(Ge, Long(3),
// rm=[0,5)) -> rm = Range(1,5).
func TestScenarioS5SortedFastPath(t *testing.T) {
	vec := sparsevector.FromDense([]int64{1, 3, 3, 5, 7})
	rm := rowmap.All(5)
	c := NewInt64Column("v", vec, Sorted|NonNull, &rm, 0)

	c.FilterInto(sqlvalue.Ge, sqlvalue.Long(3), &rm)
	require.Equal(t, []uint32{1, 2, 3, 4}, collectRows(&rm))
}

// S6: Id column over rm=[0,5): Eq(3) -> {3}; Eq(99) -> {}.
func TestScenarioS6IdColumn(t *testing.T) {
	rm := rowmap.All(5)
	c := NewIdColumn(&rm, 0)

	c.FilterInto(sqlvalue.Eq, sqlvalue.Long(3), &rm)
	require.Equal(t, []uint32{3}, collectRows(&rm))

	rm2 := rowmap.All(5)
	c2 := NewIdColumn(&rm2, 0)
	c2.FilterInto(sqlvalue.Eq, sqlvalue.Long(99), &rm2)
	require.Equal(t, uint32(0), rm2.Size())
}

func TestSortedFastPathMatchesSlowPathAcrossOps(t *testing.T) {
	values := []int64{1, 3, 3, 5, 7}
	ops := []sqlvalue.FilterOp{sqlvalue.Eq, sqlvalue.Lt, sqlvalue.Le, sqlvalue.Gt, sqlvalue.Ge}

	for _, op := range ops {
		sortedRM := rowmap.All(5)
		sortedCol := NewInt64Column("v", sparsevector.FromDense(values), Sorted|NonNull, &sortedRM, 0)
		sortedCol.FilterInto(op, sqlvalue.Long(3), &sortedRM)

		unsortedRM := rowmap.All(5)
		unsortedCol := NewInt64Column("v", sparsevector.FromDense(values), NonNull, &unsortedRM, 0)
		unsortedCol.FilterInto(op, sqlvalue.Long(3), &unsortedRM)

		require.Equal(t, collectRows(&unsortedRM), collectRows(&sortedRM), "op=%v", op)
	}
}

func TestFilterIntoIsIdempotent(t *testing.T) {
	a := rowmap.All(5)
	colA := nullableInt64Fixture(t, &a)
	colA.FilterInto(sqlvalue.Gt, sqlvalue.Long(15), &a)
	colA.FilterInto(sqlvalue.Gt, sqlvalue.Long(15), &a)

	b := rowmap.All(5)
	colB := nullableInt64Fixture(t, &b)
	colB.FilterInto(sqlvalue.Gt, sqlvalue.Long(15), &b)

	require.Equal(t, collectRows(&b), collectRows(&a))
}

func TestNonNullIsNullIsAlwaysEmpty(t *testing.T) {
	vec := sparsevector.FromDense([]int64{1, 2, 3})
	rm := rowmap.All(3)
	c := NewInt64Column("v", vec, NonNull, &rm, 0)

	c.FilterInto(sqlvalue.IsNull, sqlvalue.Null(), &rm)
	require.Equal(t, uint32(0), rm.Size())
}

func TestNonNullIsNotNullLeavesRowMapUnchanged(t *testing.T) {
	vec := sparsevector.FromDense([]int64{1, 2, 3})
	rm := rowmap.All(3)
	c := NewInt64Column("v", vec, NonNull, &rm, 0)

	c.FilterInto(sqlvalue.IsNotNull, sqlvalue.Null(), &rm)
	require.Equal(t, []uint32{0, 1, 2}, collectRows(&rm))
}

func TestIdColumnIndexOf(t *testing.T) {
	rm := rowmap.Range(10, 15)
	c := NewIdColumn(&rm, 0)

	k, ok := c.IndexOf(sqlvalue.Long(12))
	require.True(t, ok)
	require.Equal(t, uint32(2), k)

	_, ok = c.IndexOf(sqlvalue.Long(99))
	require.False(t, ok)

	_, ok = c.IndexOf(sqlvalue.String("x"))
	require.False(t, ok)
}

func stringPoolFixture(t *testing.T, values []string) (*stringpool.Pool, *sparsevector.Vector[stringpool.ID]) {
	t.Helper()
	pool := stringpool.New()
	vec := sparsevector.New[stringpool.ID]()
	for _, v := range values {
		if v == "" {
			vec.AppendNull()
			continue
		}
		vec.Append(pool.Intern([]byte(v)))
	}
	return pool, vec
}

func TestStringColumnGetAndFilter(t *testing.T) {
	pool, vec := stringPoolFixture(t, []string{"alpha", "beta", "", "beta"})
	rm := rowmap.All(4)
	c := NewStringColumn("s", vec, pool, 0, &rm, 0)

	require.Equal(t, sqlvalue.String("alpha"), c.Get(0))
	require.True(t, c.Get(2).IsNull())

	c.FilterInto(sqlvalue.Eq, sqlvalue.String("beta"), &rm)
	require.Equal(t, []uint32{1, 3}, collectRows(&rm))
}

func TestStringColumnEqNeAgainstAbsentValue(t *testing.T) {
	pool, vec := stringPoolFixture(t, []string{"alpha", "beta", "beta"})
	rm := rowmap.All(3)
	c := NewStringColumn("s", vec, pool, 0, &rm, 0)

	eqRM := rowmap.All(3)
	c2 := NewStringColumn("s", vec, pool, 0, &eqRM, 0)
	c2.FilterInto(sqlvalue.Eq, sqlvalue.String("nope"), &eqRM)
	require.Equal(t, uint32(0), eqRM.Size())

	c.FilterInto(sqlvalue.Ne, sqlvalue.String("nope"), &rm)
	require.Equal(t, []uint32{0, 1, 2}, collectRows(&rm))
}

func TestStringColumnIndexOfAbsentValue(t *testing.T) {
	pool, vec := stringPoolFixture(t, []string{"alpha", "beta"})
	rm := rowmap.All(2)
	c := NewStringColumn("s", vec, pool, 0, &rm, 0)

	_, ok := c.IndexOf(sqlvalue.String("nope"))
	require.False(t, ok)

	k, ok := c.IndexOf(sqlvalue.String("beta"))
	require.True(t, ok)
	require.Equal(t, uint32(1), k)
}

func TestStringColumnLikeWithoutMatcherIsNoop(t *testing.T) {
	pool, vec := stringPoolFixture(t, []string{"alpha", "beta"})
	rm := rowmap.All(2)
	c := NewStringColumn("s", vec, pool, 0, &rm, 0)

	c.FilterInto(sqlvalue.Like, sqlvalue.String("a%"), &rm)
	require.Equal(t, []uint32{0, 1}, collectRows(&rm))
}

func TestStringColumnLikeWithMatcher(t *testing.T) {
	pool, vec := stringPoolFixture(t, []string{"alpha", "beta", "alloy"})
	rm := rowmap.All(3)
	c := NewStringColumn("s", vec, pool, 0, &rm, 0, WithPatternMatcher(NewRegexPatternMatcher()))

	c.FilterInto(sqlvalue.Like, sqlvalue.String("al%"), &rm)
	require.Equal(t, []uint32{0, 2}, collectRows(&rm))
}

func TestDescendingStableSortIsReverseStableOfAscending(t *testing.T) {
	vec := sparsevector.FromDense([]int64{3, 1, 1, 0, 2})
	rm := rowmap.All(5)
	c := NewInt64Column("v", vec, NonNull, &rm, 0)

	asc := []uint32{0, 1, 2, 3, 4}
	c.StableSort(false, asc)

	desc := []uint32{0, 1, 2, 3, 4}
	c.StableSort(true, desc)

	// reverse-stable of ascending: group-reverse, not a plain slice
	// reversal, since ties must keep their ascending relative order
	// within each group of equal keys.
	require.Equal(t, []uint32{3, 1, 2, 4, 0}, asc)
	require.Equal(t, []uint32{0, 4, 1, 2, 3}, desc)
}

func TestRebindSharesStorage(t *testing.T) {
	vec := sparsevector.FromDense([]int64{1, 2, 3})
	rm := rowmap.All(3)
	orig := NewInt64Column("v", vec, NonNull, &rm, 0)

	rm2 := rowmap.Range(1, 3)
	rebound := Rebind(orig, &rm2, 1)

	require.Equal(t, "v", rebound.Name())
	require.Equal(t, 1, rebound.ColIdx())
	require.Equal(t, sqlvalue.Long(2), rebound.Get(0))
}
