// Package signal fans lifecycle notifications out to observers.
//
// A Hub delivers every emitted value to two kinds of observers:
//
//   - handlers registered with Handle run synchronously, in registration
//     order, before Emit returns. Use them when ordering matters.
//   - subscribers created with Subscribe receive values on a buffered
//     channel. A subscriber whose buffer is full misses the value and is
//     dropped, so a slow consumer never blocks the emitter.
//
//	hub := signal.NewHub[string](16)
//	defer hub.Close()
//
//	stop := hub.Handle(func(ctx context.Context, s string) { log.Println(s) })
//	defer stop()
//
//	sub := hub.Subscribe(ctx)
//	hub.Emit(ctx, "complete")
//	<-sub.Receive()
package signal
