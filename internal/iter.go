package internal

import (
	"iter"
)

// IterSeqConcat concatenates multiple iterators into a single iterator sequence.
func IterSeqConcat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}

// IterSeqProduct yields every pairing of an element of outer with an
// element of inner, with inner varying fastest.
func IterSeqProduct[T1 any, T2 any](outer iter.Seq[T1], inner iter.Seq[T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for a := range outer {
			for b := range inner {
				if !yield(a, b) {
					return
				}
			}
		}
	}
}

// IterSeqRange yields the integers from lo to hi inclusive.
func IterSeqRange[T ~int](lo, hi T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for n := lo; n <= hi; n++ {
			if !yield(n) {
				return
			}
		}
	}
}
