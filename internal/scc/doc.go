// Package scc splits SCC caption lines into code words and renders the
// per-line views an editor shows next to them.
//
// A line is a timestamp followed by whitespace-separated four-digit hex
// words. Control, preamble, mid-row and tab-offset words are normally sent
// twice in a row; [Tokenizer] links such duplicates so that callers can
// count each command once via [Packets] while still checking both copies.
package scc
