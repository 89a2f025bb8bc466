package port

// Dispatcher posts work onto the UI-affine main loop. Backend-owned
// goroutines never touch engine or widget state directly; they hand results
// to the dispatcher, which runs them on the thread owning the view hierarchy.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Post implements Dispatcher.
func (d DispatcherFunc) Post(fn func()) { d(fn) }
