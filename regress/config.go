package regress

import (
	"errors"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/avrregress/internal"
)

// defaultValues returns AndiValues as a starlark list of (vd, vk) tuples.
func defaultValues() *starlark.List {
	elems := make([]starlark.Value, 0, len(AndiValues))
	for _, vp := range AndiValues {
		elems = append(elems, starlark.Tuple{
			starlark.MakeInt(int(vp.Vd)),
			starlark.MakeInt(int(vp.Vk)),
		})
	}
	return starlark.NewList(elems)
}

// LoadValues evaluates a starlark value table script.
//
// The script binds 'vals' to replace AndiValues, 'extra' to add to it, or
// both. Each is a sequence of (vd, vk) pairs. ANDI_VALUES is predeclared
// as the default table. If src is nil, the script is read from filename.
func LoadValues(filename string, src any) (values []ValuePair, err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{Filename: filename, Err: err}
		}
	}()

	thread := &starlark.Thread{Name: "values"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"ANDI_VALUES": defaultValues(),
	}

	dict, err := starlark.ExecFileOptions(&opts, thread, filename, src, pred)
	if err != nil {
		return
	}

	st_vals, has_vals := dict["vals"]
	st_extra, has_extra := dict["extra"]
	if !has_vals && !has_extra {
		err = ErrConfigMissing
		return
	}

	base := AndiValues
	if has_vals {
		base, err = valuePairs("vals", st_vals)
		if err != nil {
			return
		}
	}

	var extra []ValuePair
	if has_extra {
		extra, err = valuePairs("extra", st_extra)
		if err != nil {
			return
		}
	}

	values = slices.Collect(internal.IterSeqConcat(slices.Values(base), slices.Values(extra)))
	if len(values) == 0 {
		err = ErrConfigMissing
	}

	return
}

// valuePairs converts a starlark sequence of pairs.
func valuePairs(name string, value starlark.Value) (values []ValuePair, err error) {
	iterable, ok := value.(starlark.Iterable)
	if !ok {
		err = errors.Join(ErrConfigType, errors.New(f("%v is %v", name, value.Type())))
		return
	}

	it := iterable.Iterate()
	defer it.Done()

	var elem starlark.Value
	for n := 0; it.Next(&elem); n++ {
		pair, ok := elem.(starlark.Indexable)
		if !ok || pair.Len() != 2 {
			err = errors.Join(ErrConfigType, errors.New(f("%v[%d] is %v", name, n, elem)))
			return
		}

		var vd, vk uint8
		vd, err = valueByte(pair.Index(0))
		if err == nil {
			vk, err = valueByte(pair.Index(1))
		}
		if err != nil {
			err = errors.Join(err, errors.New(f("%v[%d] is %v", name, n, elem)))
			return
		}

		values = append(values, ValuePair{Vd: vd, Vk: vk})
	}

	return
}

// valueByte converts a starlark integer in 0..255.
func valueByte(value starlark.Value) (b uint8, err error) {
	st_int, ok := value.(starlark.Int)
	if !ok {
		err = ErrConfigType
		return
	}

	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xff {
		err = ErrConfigRange
		return
	}

	b = uint8(st_int64)
	return
}
