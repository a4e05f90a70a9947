// Package prologix implements ports.Bus on a Prologix-style GPIB-USB
// controller attached as a serial port.
//
// The controller runs in controller mode with read-after-write disabled.
// Controller commands are lines starting with "++". Data lines have CR, LF,
// ESC and '+' escaped with ESC and are terminated by LF; the controller
// asserts EOI on the last byte and appends no terminator of its own.
package prologix
