package dice

import (
	game_constants "jdr/constants/game"
	"math"
	"math/rand"
)

// Vector3 is a plain 3-component vector for the dice animation proxy.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Length returns the Euclidean norm.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Phase tracks where a die is in its Airborne -> (Bounced)* ->
// Settling -> Stable lifecycle. There is no reverse transition.
type Phase int

const (
	PhaseAirborne Phase = iota
	PhaseSettling
	PhaseStable
)

// DiceState is the ephemeral physics proxy for one rolling die. The
// outcome is decided before the animation starts: Result is carried
// through unchanged and the trajectory only has to settle convincingly
// on the matching orientation. Physics never determines the number.
type DiceState struct {
	Position        Vector3 `json:"position"`
	Velocity        Vector3 `json:"velocity"`
	Rotation        Vector3 `json:"rotation"`
	AngularVelocity Vector3 `json:"angularVelocity"`

	Result   int  `json:"result"`
	IsStable bool `json:"isStable"`

	phase Phase
	steps int
}

// finalRotations maps each face to the canonical resting orientation
// the animation converges to.
var finalRotations = map[int]Vector3{
	1: {X: 0, Y: 0, Z: 0},
	2: {X: math.Pi / 2, Y: 0, Z: 0},
	3: {X: 0, Y: 0, Z: -math.Pi / 2},
	4: {X: 0, Y: 0, Z: math.Pi / 2},
	5: {X: -math.Pi / 2, Y: 0, Z: 0},
	6: {X: math.Pi, Y: 0, Z: 0},
}

// FinalRotation returns the canonical resting orientation for a face.
func FinalRotation(result int) Vector3 {
	return finalRotations[result]
}

// NewDiceState builds a fresh animation state for an already-decided
// result, with randomized launch conditions for visual variety.
func NewDiceState(result int, rng *rand.Rand) *DiceState {
	return &DiceState{
		Position: Vector3{
			X: rng.Float64()*2 - 1,
			Y: 3 + rng.Float64()*2,
			Z: rng.Float64()*2 - 1,
		},
		Velocity: Vector3{
			X: rng.Float64()*4 - 2,
			Y: -rng.Float64(),
			Z: rng.Float64()*4 - 2,
		},
		Rotation: Vector3{
			X: rng.Float64() * 2 * math.Pi,
			Y: rng.Float64() * 2 * math.Pi,
			Z: rng.Float64() * 2 * math.Pi,
		},
		AngularVelocity: Vector3{
			X: rng.Float64()*20 - 10,
			Y: rng.Float64()*20 - 10,
			Z: rng.Float64()*20 - 10,
		},
		Result: result,
	}
}

// Phase reports the current lifecycle phase.
func (d *DiceState) Phase() Phase {
	return d.phase
}

// Steps reports how many times Step has advanced this die.
func (d *DiceState) Steps() int {
	return d.steps
}

// Step advances the simulation by dt seconds. Once IsStable is set the
// state is terminal and further calls are no-ops.
func (d *DiceState) Step(dt float64) {
	if d.IsStable {
		return
	}
	d.steps++

	// Gravity into vertical velocity, velocity into position.
	d.Velocity.Y += game_constants.Gravity * dt
	d.Position.X += d.Velocity.X * dt
	d.Position.Y += d.Velocity.Y * dt
	d.Position.Z += d.Velocity.Z * dt

	// Floor contact: clamp, invert and damp the vertical component,
	// bleed energy out of the horizontal and angular motion.
	if d.Position.Y < game_constants.DiceRadius {
		d.Position.Y = game_constants.DiceRadius
		d.Velocity.Y = -d.Velocity.Y * game_constants.BounceDamping
		d.Velocity.X *= game_constants.Friction
		d.Velocity.Z *= game_constants.Friction
		d.AngularVelocity.X *= game_constants.Friction
		d.AngularVelocity.Y *= game_constants.Friction
		d.AngularVelocity.Z *= game_constants.Friction

		if d.phase == PhaseAirborne && math.Abs(d.Velocity.Y) < game_constants.SettleSpeed {
			d.phase = PhaseSettling
			d.Rotation = wrapAngles(d.Rotation)
		}
	}

	// Euler integration of the rotation. Quaternion correctness does
	// not matter here, this only drives a visual proxy.
	d.Rotation.X += d.AngularVelocity.X * dt
	d.Rotation.Y += d.AngularVelocity.Y * dt
	d.Rotation.Z += d.AngularVelocity.Z * dt

	// During settling, blend the free rotation toward the canonical
	// orientation for the decided result so the final snap is invisible.
	if d.phase == PhaseSettling {
		target := FinalRotation(d.Result)
		d.Rotation.X += (target.X - d.Rotation.X) * game_constants.SettleBlend
		d.Rotation.Y += (target.Y - d.Rotation.Y) * game_constants.SettleBlend
		d.Rotation.Z += (target.Z - d.Rotation.Z) * game_constants.SettleBlend
	}

	atRest := d.Position.Y <= game_constants.DiceRadius+game_constants.RestEpsilon
	if atRest &&
		d.Velocity.Length() < game_constants.StableThreshold &&
		d.AngularVelocity.Length() < game_constants.StableThreshold {
		d.settle()
		return
	}

	// Hard cutoff so an unlucky velocity draw can never animate forever.
	if d.steps >= game_constants.MaxSimulationSteps {
		d.settle()
	}
}

// Run steps the simulation at the default frame rate until it settles
// and returns the number of steps taken. Termination is guaranteed by
// the step cutoff.
func (d *DiceState) Run() int {
	for !d.IsStable {
		d.Step(game_constants.SimulationStep)
	}
	return d.steps
}

// settle freezes the die exactly on the canonical orientation for its
// result. Terminal: no field is mutated after this.
func (d *DiceState) settle() {
	d.Rotation = FinalRotation(d.Result)
	d.Position.Y = game_constants.DiceRadius
	d.Velocity = Vector3{}
	d.AngularVelocity = Vector3{}
	d.phase = PhaseStable
	d.IsStable = true
}

// wrapAngles normalizes each component into (-pi, pi] so the settling
// blend converges to the target over less than half a turn instead of
// unwinding every revolution accumulated in flight.
func wrapAngles(v Vector3) Vector3 {
	return Vector3{
		X: wrapAngle(v.X),
		Y: wrapAngle(v.Y),
		Z: wrapAngle(v.Z),
	}
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
