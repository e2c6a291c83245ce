package core

// Launch is a submission request from one session: a wish to fire at
// the star sphere. Angle and Location come from the client untrusted;
// the hub clamps the angle and attaches the ledger count before
// broadcasting.
type Launch struct {
	Text     string
	Angle    float64
	Location *Location
}
