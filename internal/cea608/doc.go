// Package cea608 classifies EIA-608 (Line 21) code words as they appear in
// SCC files: two bytes with odd parity, written as four hex digits.
//
// The central entry point is [Decode], which turns one code word into an
// [Event]. Decoding is pure and never fails: parity and format problems are
// reported as [Error] events and unrecognized patterns as [Unknown], so a
// single bad word never stops decoding of the surrounding line.
package cea608
