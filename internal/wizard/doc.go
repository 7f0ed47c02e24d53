// Package wizard implements the property creation wizard: a linear
// four-step form controller that validates each step before advancing,
// holds the photo collection with explicitly released preview handles,
// and hands the finished draft to a Creator exactly once.
//
// A Wizard is safe for concurrent use. Mutations are serialized by a mutex;
// the call to the Creator is made without holding it, and only one
// submission may be in flight at a time.
//
// Typical use:
//
//	w := wizard.New(creator)
//	defer w.Close()
//
//	w.SetName("Sunny Loft")
//	...
//	if err := w.Next(); err != nil {
//		// *property.ValidationErrors, show inline and stay
//	}
//	...
//	created, err := w.Submit(ctx)
package wizard
