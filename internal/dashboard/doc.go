// Package dashboard holds the view state of the grow box dashboard: the
// selected range, the summary of the last refresh and the series currently
// plotted.
//
// # Concurrency
//
// Refresh, AddToChart and ClearChart share one busy gate. The gate is taken
// with a compare-and-swap before any state changes and released by defer on
// every exit path, including fetch failures. A call that finds the gate
// taken returns immediately without doing anything; it is not queued or
// retried. A fetch that never returns therefore blocks every later action.
//
// # Observing state
//
// State returns a snapshot; Subscribe delivers one after every change, on
// the goroutine that made it:
//
//	vm := dashboard.NewViewModel(source, chart)
//	unsubscribe := vm.Subscribe(func(s dashboard.State) {
//		fmt.Println(s.Loading, s.LastDate, s.LastTime)
//	})
//	defer unsubscribe()
//	_ = vm.Refresh(ctx, dashboard.RangeWeek)
package dashboard
