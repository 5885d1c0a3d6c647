// Package hostlink provides the ASCII link between the peripheral and its
// host.
package hostlink

// Host to peripheral: one command per line. A command is a mnemonic
// followed by up to two unsigned decimal arguments separated by blanks,
// terminated by CR or LF:
//
//	LVB 2\r\n
//
// Peripheral to host: report lines as produced by the event handlers,
// each terminated by CRLF.
//
// Both directions run over any byte stream: a UART, a TCP connection or
// stdio.
