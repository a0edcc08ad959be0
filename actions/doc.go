// Package actions builds typed flux-standard-action creators.
//
// A Factory owns an optional type prefix, a default error classifier and a
// registry of the fully-qualified types it has handed out. Creators are
// built once at setup time and are immutable afterwards:
//
//	f := actions.NewFactory(actions.WithPrefix("todo"))
//	added := actions.MustNewCreator[Todo](f, "ADDED")
//	a := added.New(Todo{Title: "write docs"})
//	// a.Type == "todo/ADDED"
//
// Async lifecycles are described by a triplet of creators sharing one type:
//
//	fetch := actions.MustNewAsync[Query, []Todo, error](f, "FETCH", nil)
//	// fetch.Started.Type() == "todo/FETCH_STARTED"
//
// Reducers and stores discriminate actions with IsType or Match, and narrow
// them to the concrete payload type with AsType or Cast.
//
// Duplicate type detection is a development aid. A factory built with
// Production() (or WithDuplicateCheck(false)) never records types and so
// accepts duplicates silently.
package actions
