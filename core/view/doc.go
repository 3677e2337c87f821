// Package view adapts method-per-verb view types into dispatch handlers.
//
// A view is any value that declares where it is mounted and which verbs it
// serves, and implements one capability interface per verb it actually
// handles:
//
//	type UsersView struct {
//		view.Base
//		store *users.Store
//	}
//
//	func NewUsersView(store *users.Store) *UsersView {
//		return &UsersView{
//			Base:  view.NewBase("/users", handler.MethodGet, handler.MethodPost),
//			store: store,
//		}
//	}
//
//	func (v *UsersView) Get(r *handler.Request) (any, error)  { ... }
//	func (v *UsersView) Post(r *handler.Request) (any, error) { ... }
//
// AsHandler turns the view into a plain handler: verbs the view does not
// implement (or does not declare) produce a 405 response carrying an Allow
// header. AsResourceHandler is stricter: a routed verb without an
// implementation is a programming error and returns *NotImplementedError,
// which the dispatcher converts into a 500. The asymmetry mirrors the two
// kinds of views: plain views own arbitrary paths where extra verbs are a
// client mistake, resource views own a single keyed resource where a missing
// verb is a server bug.
//
// The adapter closes over the view value, so one instance serves every
// request of its registration; keep per-request state in the request context,
// not on the view.
package view
