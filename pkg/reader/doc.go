// Package reader implements the logic analyzer input handler.
//
// The reader samples a 16-bit input bus once per timer tick in interrupt
// context, hands reportable samples to the polling loop through a single
// slot, and renders them as ASCII report lines.
//
// Report lines (lowercase hex, zero padded):
//
//	full:   +TTTTTTTTVVVV\r\n
//	medium: +TTTTTTVVVV\r\n   (low 24 bits of the timestamp)
//	short:  +TTTTVVVV\r\n     (low 16 bits of the timestamp)
//
// A pending sample is overwritten by a newer one if the polling loop has not
// drained it yet: the latest value always wins.
package reader
