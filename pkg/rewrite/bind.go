package rewrite

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapshard/pkg/core"
	"github.com/shopspring/decimal"
)

var (
	// ErrMissingArgument is returned when a placeholder has no bound argument.
	ErrMissingArgument = errors.New("missing argument for placeholder")
	// ErrInvalidArgument is returned when a window argument is not a non-negative whole number.
	ErrInvalidArgument = errors.New("invalid window argument")
)

// Bound is a window with every operand resolved to a concrete value.
type Bound struct {
	Offset    int64
	RowCount  int64
	Unbounded bool // no row count restriction; RowCount is ignored
}

// Window returns the [start, end) slice bounds of the window over n rows.
func (b Bound) Window(n int) (int, int) {
	start := int(min(b.Offset, int64(n)))
	if b.Unbounded {
		return start, n
	}
	end := int(min(b.Offset+min(b.RowCount, math.MaxInt64-b.Offset), int64(n)))
	return start, end
}

// Bind resolves the operands of w against args. A nil window, an absent
// row count and ALL are unbounded; an absent offset is zero.
func Bind(w *core.WindowSpec, args []any) (Bound, error) {
	if w == nil {
		return Bound{Unbounded: true}, nil
	}

	offset, err := resolve(w.Offset(), args)
	if err != nil {
		return Bound{}, fmt.Errorf("offset: %w", err)
	}

	b := Bound{Offset: offset}
	switch w.RowCount().Kind() {
	case core.OperandAbsent, core.OperandUnbounded:
		b.Unbounded = true
	default:
		rc, err := resolve(w.RowCount(), args)
		if err != nil {
			return Bound{}, fmt.Errorf("row count: %w", err)
		}
		b.RowCount = rc
	}
	return b, nil
}

// ShardValues returns the window each shard must serve so the merged result
// still contains the original window: the offset drops to zero and the row
// count grows to cover the skipped rows.
func ShardValues(w *core.WindowSpec, args []any) (Bound, error) {
	b, err := Bind(w, args)
	if err != nil {
		return Bound{}, err
	}
	if b.Unbounded {
		return Bound{Unbounded: true}, nil
	}
	rc := b.RowCount
	if b.Offset > math.MaxInt64-rc {
		rc = math.MaxInt64
	} else {
		rc += b.Offset
	}
	return Bound{RowCount: rc}, nil
}

func resolve(op core.Operand, args []any) (int64, error) {
	if v, ok := op.Value(); ok {
		return v, nil
	}
	idx, ok := op.Index()
	if !ok {
		return 0, nil
	}
	if idx >= len(args) {
		return 0, fmt.Errorf("%w: ?%d with %d arguments", ErrMissingArgument, idx, len(args))
	}
	v, err := toInt64(args[idx])
	if err != nil {
		return 0, fmt.Errorf("?%d: %w", idx, err)
	}
	return v, nil
}

// toInt64 converts a bound argument to a window value. Fractions round half-up.
func toInt64(arg any) (int64, error) {
	var d decimal.Decimal
	switch v := arg.(type) {
	case int:
		d = decimal.NewFromInt(int64(v))
	case int8:
		d = decimal.NewFromInt(int64(v))
	case int16:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case uint:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(v)), 0)
	case uint8:
		d = decimal.NewFromInt(int64(v))
	case uint16:
		d = decimal.NewFromInt(int64(v))
	case uint32:
		d = decimal.NewFromInt(int64(v))
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
	case float32:
		d = decimal.NewFromFloat32(v)
	case float64:
		d = decimal.NewFromFloat(v)
	case decimal.Decimal:
		d = v
	case string:
		n, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidArgument, v)
		}
		d = n
	case []byte:
		return toInt64(string(v))
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidArgument, arg)
	}

	r := d.Round(0)
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidArgument, d.String())
	}
	return r.IntPart(), nil
}

func (b Bound) String() string {
	rc := "ALL"
	if !b.Unbounded {
		rc = strconv.FormatInt(b.RowCount, 10)
	}
	return fmt.Sprintf("offset=%d row_count=%s", b.Offset, rc)
}
