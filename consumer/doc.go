// Package consumer runs the handoff: obtain an object from a Source, dispatch
// its number capability through the object itself, report the value, and
// forward the same object to a Sink.
//
//	c := consumer.New(p, sink,
//		consumer.WithReporter(consumer.NewLogReporter(log)),
//	)
//	if err := c.Run(ctx); err != nil {
//		return err
//	}
//
// Run is single-shot and synchronous. It never substitutes a known
// implementation for the object it was given, so any Thing works.
package consumer
