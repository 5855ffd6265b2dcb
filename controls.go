package particlize

// Controls are the global simulation switches applied every frame.
type Controls struct {
	// HomingEnabled pulls particles back toward their home positions.
	HomingEnabled bool

	// HomingOnlyWhenNoFields suspends homing while any field is active.
	HomingOnlyWhenNoFields bool

	// HomingStrength is the spring constant toward home (1/s²).
	HomingStrength float32

	// HomingDamping is the velocity damping while homing (1/s).
	HomingDamping float32

	// Emitting shows particles; when false they are drawn fully
	// transparent while the simulation keeps running.
	Emitting bool
}

// DefaultControls returns controls that settle particles home quickly
// whenever no field is active.
func DefaultControls() Controls {
	return Controls{
		HomingEnabled:          true,
		HomingOnlyWhenNoFields: true,
		HomingStrength:         40,
		HomingDamping:          8,
		Emitting:               true,
	}
}

// HomingActive reports whether homing applies with activeFields enabled
// fields.
func (c Controls) HomingActive(activeFields int) bool {
	return c.HomingEnabled && !(c.HomingOnlyWhenNoFields && activeFields > 0)
}
