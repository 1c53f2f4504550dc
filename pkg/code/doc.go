// Package code generates specimen identification codes.
//
// A code is a fixed-length string made of a random body followed by a single
// checksum character. The checksum is the first hexadecimal digit of the MD5
// digest of the body, uppercased, so a typo in a hand-keyed code is caught
// fifteen times out of sixteen.
//
// # Alphabets
//
// Bodies are drawn from [Alphanumeric], which is A-Z plus 2-9 with the
// easily confused characters I, O, 0 and 1 removed (32 symbols). The
// numeric-first variant draws the first body character from [Numeric] so that
// codes never start with a letter that a scanner keyboard mapping might
// interpret as a command prefix.
//
// # Generation
//
// [Make] draws a single code from an injected random source. A [Generator]
// produces an unbounded sequence of codes that never repeats within its
// [Seen] set:
//
//	seen := code.NewSeen(previouslyIssued...)
//	gen, err := code.NewGenerator(12, code.WithSeen(seen), code.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	for c, err := range gen.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(c)
//	}
//
// On a collision the generator either retries (the default) or fails with
// DUPLICATE_CODE when constructed with [WithStopIfSeen]. After
// [DefaultMaxRetries] consecutive collisions it fails with EXHAUSTED_KEYSPACE
// instead of looping forever on a saturated keyspace.
//
// # Exhaustive Sequences
//
// [Exhaustive] enumerates a deterministic family of codes in which every
// alphabet symbol appears in every position of at least one code. It is used
// to print scanner test sheets.
package code
