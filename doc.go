// Package sides hands objects across a language boundary through explicit
// dispatch tables.
//
// One side registers a zero-argument constructor. A consumer obtains an
// object from it, calls the object's number capability through the
// object's own vtable, reports the result, and forwards the same object to
// the other side. The other side shipped here is a WebAssembly guest that
// only ever sees the object as an integer handle and reaches its
// capabilities through host imports.
//
// # Architecture Overview
//
//	sides/
//	├── thing/           Thing capability set, Vtable and Instance
//	├── provider/        Registration slot and Provide
//	├── consumer/        Provide, dispatch, report, hand off
//	├── resource/        Handle table shared with the other side
//	├── guest/           wazero-hosted WebAssembly sink
//	├── idl/             Interface description language parser
//	├── codegen/cgen/    C header generator
//	├── codegen/witgen/  WIT generator
//	├── metrics/         Prometheus collector for handoffs and handles
//	├── tracing/         OpenTelemetry exporter setup
//	├── config/          SIDES_* environment configuration
//	├── errors/          Structured error types
//	└── cmd/sides/       Command line front end
//
// # Quick Start
//
//	provider.Register(func() thing.Thing { return thing.Const(7) })
//
//	sink, err := guest.NewSink(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sink.Close(ctx)
//
//	err = consumer.New(provider.Default, sink).Run(ctx) // prints "number is 7"
//
// # Errors
//
// Provide fails with errors.ErrProviderNotRegistered before any
// registration and with errors.ErrInvalidVtable when the constructor
// returns an object missing a capability. No capability is dispatched in
// either case.
//
// # Thread Safety
//
// Register and Provide may be called from any goroutine. A Consumer runs
// one cycle per Run call and is not meant to be shared. guest.Sink
// serializes Consume calls.
package sides
