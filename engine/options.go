package engine

import (
	"errors"
	"fmt"
)

const (
	MinContempt = -100
	MaxContempt = 100

	DefaultTableSize     = 1 << 20
	DefaultMaxEntries    = 4 << 20
	DefaultMaxExtensions = 5
	DefaultMaxDepth      = 64
)

var ErrInvalidOption = errors.New("invalid engine option")

// Options are forwarded from the driver. The core reads them once per search.
type Options struct {
	// Contempt is subtracted from draw scores.
	Contempt int32
	MaxDepth int
	// TableSize is the number of transposition buckets; MaxEntries bounds the
	// total chained entries before the table is cleared.
	TableSize  int
	MaxEntries int
	// MaxExtensions caps check/capture extensions per search call.
	MaxExtensions int
	Quiescence    bool
	Transposition bool
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		TableSize:     DefaultTableSize,
		MaxEntries:    DefaultMaxEntries,
		MaxExtensions: DefaultMaxExtensions,
		Quiescence:    true,
		Transposition: true,
	}
}

func (o Options) Validate() error {
	switch {
	case o.Contempt < MinContempt || o.Contempt > MaxContempt:
		return fmt.Errorf("%w: contempt %d outside [%d, %d]", ErrInvalidOption, o.Contempt, MinContempt, MaxContempt)
	case o.MaxDepth <= 0 || o.MaxDepth > MaxPly:
		return fmt.Errorf("%w: max depth %d outside [1, %d]", ErrInvalidOption, o.MaxDepth, MaxPly)
	case o.TableSize <= 0:
		return fmt.Errorf("%w: table size %d must be positive", ErrInvalidOption, o.TableSize)
	case o.MaxEntries < o.TableSize:
		return fmt.Errorf("%w: max entries %d below table size %d", ErrInvalidOption, o.MaxEntries, o.TableSize)
	case o.MaxExtensions < 0:
		return fmt.Errorf("%w: max extensions %d is negative", ErrInvalidOption, o.MaxExtensions)
	}
	return nil
}
