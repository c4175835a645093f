package importer

// Handedness selects how node transforms are carried from the right-handed
// source frame into the left-handed engine frame. Mesh data is always
// mirrored along X.
type Handedness int

const (
	// MirrorEulerY keeps the translation and negates only the Euler Y angle.
	MirrorEulerY Handedness = iota
	// MirrorConjugate mirrors the whole node matrix (M·T·M with M = diag(-1,1,1)),
	// which negates translation X and the Euler Y and Z angles.
	MirrorConjugate
)

func (h Handedness) String() string {
	switch h {
	case MirrorEulerY:
		return "euler-y"
	case MirrorConjugate:
		return "conjugate"
	}
	return "unknown"
}

// ParseHandedness accepts the String forms; the empty string selects MirrorEulerY.
func ParseHandedness(s string) (Handedness, bool) {
	switch s {
	case "", "euler-y":
		return MirrorEulerY, true
	case "conjugate":
		return MirrorConjugate, true
	}
	return MirrorEulerY, false
}

// Options tunes how node transforms are composed.
type Options struct {
	Handedness Handedness

	// KeepNodeScale carries the scale of node matrices onto containers.
	// Off by default: containers only receive translation and rotation.
	KeepNodeScale bool
}
