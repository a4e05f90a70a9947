// Package petship drives the resident IEEE loader of a Commodore PET over an
// IEEE-488 bus.
//
// It turns a load, execute or run request into command frames and writes
// them to the target device inside a bus session that always ends with
// unlisten. It can be used from the petship CLI or embedded as a library.
//
// # Basic Usage
//
//	cfg := petship.DefaultConfig()
//	cfg.Port = "/dev/ttyUSB0"
//
//	client, err := petship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Do(ctx, petship.Request{
//	    Device: "30",
//	    Load:   true,
//	    File:   "game.prg",
//	})
//
// # Frames
//
// Execute sends [0x80, lo, hi]. Run sends [0x81]. Load sends a header frame,
// [0x40, lo, hi, size_lo, size_hi] by default or [0x40, lo, hi] with
// [HeaderImplicitSize], followed by one data frame holding the payload.
// A payload is at most [MaxPayloadSize] bytes.
//
// # Transports
//
// [TransportPrologix] talks to a Prologix-style GPIB-USB controller on a
// serial port. [TransportDump] prints each bus call and frame as hex and is
// useful for checking frames without hardware. Any [Bus] can be injected
// with [WithBus].
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// session state changes and send outcomes. Events are called synchronously.
//
// # Errors
//
// Every failure is a typed error. Match them with errors.Is against
// [ErrInvalidDevice], [ErrInvalidAddress], [ErrFileNotFound],
// [ErrFileReadError], [ErrCommand] and [ErrTransport].
package petship
