package game_constants

import "time"

// Game code generation. The alphabet drops 0/O and 1/I so codes survive
// being read out loud or copied from a screen. 32 characters means a
// masked random byte indexes it without bias.
const (
	GameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	GameCodeLength   = 6
	MaxCodeAttempts  = 10
)

// GameStateTTL is re-extended on every write, so only sessions nobody
// has touched for a week expire.
const GameStateTTL = 7 * 24 * time.Hour

// Default scene seeded at session creation.
const (
	DefaultGridSize = 50
	DefaultZoom     = 1.0
)

// GMColor is the fixed roster color for the game master entry.
const GMColor = "#e63946"

// Dice physics constants, in scene units.
const (
	Gravity       = -9.81
	DiceRadius    = 0.5
	BounceDamping = 0.5
	Friction      = 0.98

	// StableThreshold must stay above the resting-contact vertical
	// speed fixed point (g*dt/3 at the default step), otherwise a die
	// sitting on the floor never registers as stable.
	StableThreshold = 0.1
	SettleSpeed     = 1.0
	SettleBlend     = 0.08
	RestEpsilon     = 0.01

	SimulationStep     = 1.0 / 60.0
	MaxSimulationSteps = 2000
)
