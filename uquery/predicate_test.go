package uquery

import (
	"errors"
	"regexp"
	"testing"

	"github.com/fyerfyer/fyer-uquery/ferr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelation_Normalize(t *testing.T) {
	a := Eq("A", 1)
	b := Gt("B", 2)
	c := Like("C", "x")

	testCases := []struct {
		name string
		got  Predicate
		want Predicate
	}{
		{
			name: "flatten same relation",
			got:  And(a, And(b, c)),
			want: And(a, b, c),
		},
		{
			name: "flatten nested or",
			got:  Or(Or(a, b), c),
			want: Or(a, b, c),
		},
		{
			name: "duplicate collapses to child",
			got:  And(a, a),
			want: a,
		},
		{
			name: "duplicate by value",
			got:  And(Eq("A", 1), Eq("A", int8(1))),
			want: a,
		},
		{
			name: "nil filtered",
			got:  Or(nil, b, nil),
			want: b,
		},
		{
			name: "opposite relation kept",
			got:  And(a, Or(b, c)),
			want: And(a, Or(b, c)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, Equal(tc.want, tc.got), "want %s, got %s", tc.want, tc.got)
		})
	}
}

func TestRelation_Structure(t *testing.T) {
	a := Eq("A", 1)
	b := Gt("B", 2)
	c := Like("C", "x")

	p := And(a, Or(b, c), And(a, c))
	rel, ok := p.(*RelationPredicate)
	require.True(t, ok)
	assert.Equal(t, RelAnd, rel.Relation())
	children := rel.Children()
	require.Len(t, children, 3)
	assert.Same(t, a, children[0])
	assert.Same(t, c, children[2])

	inner, ok := children[1].(*RelationPredicate)
	require.True(t, ok)
	assert.Equal(t, RelOr, inner.Relation())
	assert.Len(t, inner.Children(), 2)

	// 修改副本不影响原谓词
	children[0] = nil
	assert.Same(t, a, rel.Children()[0])
}

func TestRelation_Empty(t *testing.T) {
	assert.Nil(t, And())
	assert.Nil(t, Or(nil, nil))
	assert.Equal(t, "", Serialize(And()))
	assert.True(t, Equal(nil, And(nil)))
	assert.False(t, Equal(nil, Eq("A", 1)))
}

func TestBetween(t *testing.T) {
	p := Between("AGE", 18, 60)
	assert.Equal(t, `{"$and":[{"AGE":{"$gte":18}},{"AGE":{"$lte":60}}]}`, p.SerializeToJSON())
}

func TestNewField(t *testing.T) {
	testCases := []struct {
		name    string
		key     string
		op      Op
		value   any
		wantVal any
		wantErr error
	}{
		{
			name:    "int normalized",
			key:     "A",
			op:      OpGt,
			value:   int32(5),
			wantVal: int64(5),
		},
		{
			name:    "float32 normalized",
			key:     "A",
			op:      OpLe,
			value:   float32(1.5),
			wantVal: 1.5,
		},
		{
			name:    "bytes as string",
			key:     "A",
			op:      OpEq,
			value:   []byte("abc"),
			wantVal: "abc",
		},
		{
			name:    "typed slice",
			key:     "A",
			op:      OpIn,
			value:   []int{1, 2},
			wantVal: []any{int64(1), int64(2)},
		},
		{
			name:    "array",
			key:     "A",
			op:      OpNotIn,
			value:   [2]string{"x", "y"},
			wantVal: []any{"x", "y"},
		},
		{
			name:    "regexp",
			key:     "A",
			op:      OpLike,
			value:   regexp.MustCompile("^a.*b$"),
			wantVal: "^a.*b$",
		},
		{
			name:    "empty key",
			key:     " ",
			op:      OpEq,
			value:   1,
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "in scalar",
			key:     "A",
			op:      OpIn,
			value:   1,
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "eq array",
			key:     "A",
			op:      OpEq,
			value:   []int{1},
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "like number",
			key:     "A",
			op:      OpLike,
			value:   1,
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "regexp on eq",
			key:     "A",
			op:      OpEq,
			value:   regexp.MustCompile("a"),
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "uint64 overflow",
			key:     "A",
			op:      OpEq,
			value:   uint64(1 << 63),
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "unsupported type",
			key:     "A",
			op:      OpEq,
			value:   struct{}{},
			wantErr: ferr.ErrArgument,
		},
		{
			name:    "unknown op",
			key:     "A",
			op:      Op(42),
			value:   1,
			wantErr: ferr.ErrArgument,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewField(tc.key, tc.op, tc.value)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				var argErr *ferr.ArgumentError
				assert.True(t, errors.As(err, &argErr))
				return
			}
			require.NoError(t, err)
			f := p.(*FieldPredicate)
			assert.Equal(t, tc.key, f.Key())
			assert.Equal(t, tc.op, f.Op())
			assert.Equal(t, tc.wantVal, f.Value())
		})
	}
}

func TestFactories_Panic(t *testing.T) {
	assert.Panics(t, func() { Eq("", 1) })
	assert.Panics(t, func() { In("A", "x") })
	assert.Panics(t, func() { Like("A", 3) })
	assert.NotPanics(t, func() { In("A", []string{}) })
}

func TestFieldPredicate_ValuesCopy(t *testing.T) {
	p := In("A", []int{1, 2}).(*FieldPredicate)
	vals := p.Values()
	vals[0] = int64(9)
	assert.Equal(t, []any{int64(1), int64(2)}, p.Values())
	assert.Nil(t, Eq("A", 1).(*FieldPredicate).Values())
}

func TestMatch(t *testing.T) {
	var countFields func(p Predicate) (int, error)
	countFields = func(p Predicate) (int, error) {
		return Match(p,
			func(*FieldPredicate) (int, error) { return 1, nil },
			func(r *RelationPredicate) (int, error) {
				total := 0
				for _, c := range r.Children() {
					n, err := countFields(c)
					if err != nil {
						return 0, err
					}
					total += n
				}
				return total, nil
			})
	}

	n, err := countFields(And(Eq("A", 1), Or(Eq("B", 2), Eq("C", 3)), NotEq("D", nil)))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = countFields(nil)
	assert.True(t, errors.Is(err, ferr.ErrArgument))
}
