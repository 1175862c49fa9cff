package loan

// TransitionPolicy decides whether a status edge is legal. The default policy
// allows every edge, including re-approving a rejected loan; a stricter graph
// can be injected where the usecase is constructed.
type TransitionPolicy func(from, to Status) error

// AllowAny permits every transition.
func AllowAny(from, to Status) error { return nil }
