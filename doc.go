// Package packd builds exact binary layouts out of small reusable codecs.
//
// A Codec[T] knows both directions: how to read a T from a Reader and how to
// write it to a Writer. Primitive codecs cover what packed legacy formats are
// made of:
//
//   - Literal: magic numbers and reserved constants
//   - Integer, LittleEndian, BigEndian: fixed-width integers in a byte order
//   - Float32, Float64: IEEE-754 bit patterns through an integer codec
//   - Tuple, SeqN, Seq: fixed, counted and unbounded sequences
//   - LengthPrefixed: [count][items] with a checked count conversion
//   - Bytes, FixedBytes, Padded, Sized, PrefixedBytes: raw buffers and framing
//   - Text: strings through a single-byte table such as Windows1252
//   - Checksum, CRC32, XXHash64: digest-guarded sub-records
//   - Passthrough: types that implement MarshalPacked/UnmarshalPacked
//
// Records are composed by hand, field by field:
//
//	var entry = packd.Func(
//		func(r *packd.Reader) (Entry, error) {
//			var e Entry
//			err := r.Decode(
//				packd.Literal("ENT").Expect(),
//				packd.Into(packd.U32LE, &e.ID),
//				packd.Into(packd.LengthPrefixed(packd.U16LE, packd.F32LE), &e.Weights),
//			)
//			return e, err
//		},
//		func(w *packd.Writer, e Entry) error {
//			return w.Encode(
//				packd.Literal("ENT").Put(),
//				packd.Bind(packd.U32LE, e.ID),
//				packd.Bind(packd.LengthPrefixed(packd.U16LE, packd.F32LE), e.Weights),
//			)
//		},
//	)
//
// Lengths are never trusted: a count that disagrees with the data is a
// *LengthError, a count that does not fit its field is a conv.OverflowError,
// and Options.MaxElements / MaxBytes bound what untrusted input may allocate.
//
// Codecs are immutable and safe for concurrent use. Readers and Writers are
// per call.
package packd
