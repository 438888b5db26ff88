package state

// UpdateFunc receives the current session (ok=false when none exists) and returns
// the session to keep. Returning keep=false removes the session.
type UpdateFunc[S any] func(current S, ok bool) (next S, keep bool)

// Store keeps at most one session per user.
//
// Update is atomic with respect to other Get/Put/Remove/Update calls for the
// same user. Calls for different users are not ordered with respect to each other.
type Store[S any] interface {
	Get(userID int64) (S, bool)
	Put(userID int64, session S)
	Remove(userID int64)
	Update(userID int64, fn UpdateFunc[S]) (S, bool)
	Len() int
}
